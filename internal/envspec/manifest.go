package envspec

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// Requirement is a single (package name, version constraint) pair from a
// dependency manifest. Constraint is empty for unconstrained requirements,
// meaning the latest available version is resolved at build time.
type Requirement struct {
	Name       string
	Constraint string
}

// String renders the requirement in manifest syntax.
func (r Requirement) String() string {
	return r.Name + r.Constraint
}

// Manifest is the ordered dependency set parsed from a manifest file.
// Order is preserved because install order can matter for source-built
// packages.
type Manifest struct {
	// Raw is the manifest file content, used for cache keying
	Raw []byte

	// Requirements in file order
	Requirements []Requirement
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-\[\]]*$`)

// constraint operators, longest first so "==" wins over "="
var constraintOps = []string{"===", "==", ">=", "<=", "~=", "!=", ">", "<"}

// ParseManifest parses requirements-style manifest content. Blank lines and
// "#" comments are ignored. Each remaining line is NAME or NAME<op>VERSION,
// optionally with comma-separated additional constraints.
func ParseManifest(r io.Reader) (*Manifest, error) {
	var raw strings.Builder
	m := &Manifest{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		line := scanner.Text()
		raw.WriteString(line)
		raw.WriteString("\n")
		lineNo++

		req, ok, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: %w", lineNo, err)
		}
		if ok {
			m.Requirements = append(m.Requirements, req)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	m.Raw = []byte(raw.String())
	return m, nil
}

// LoadManifest reads and parses a manifest file from the given filesystem.
func LoadManifest(fs afero.Fs, path string) (*Manifest, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest %s: %w", path, err)
	}
	defer f.Close()

	m, err := ParseManifest(f)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}

// parseLine parses a single manifest line. Returns ok=false for lines that
// carry no requirement (blank or comment).
func parseLine(line string) (Requirement, bool, error) {
	// Strip trailing comments, then whitespace
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return Requirement{}, false, nil
	}

	name := line
	constraint := ""
	opIdx := -1
	for _, op := range constraintOps {
		if idx := strings.Index(line, op); idx >= 0 && (opIdx < 0 || idx < opIdx) {
			opIdx = idx
		}
	}
	if opIdx >= 0 {
		name = strings.TrimSpace(line[:opIdx])
		constraint = strings.ReplaceAll(line[opIdx:], " ", "")
	}

	if !namePattern.MatchString(name) {
		return Requirement{}, false, fmt.Errorf("invalid package name %q", name)
	}
	if opIdx >= 0 && constraint == "" {
		return Requirement{}, false, fmt.Errorf("empty constraint for package %q", name)
	}

	return Requirement{Name: name, Constraint: constraint}, true, nil
}
