package envspec

import (
	"fmt"
	"strings"
)

// VersionPlaceholder is the substring in a base image reference that is
// replaced by the interpreter version for a matrix entry.
const VersionPlaceholder = "{version}"

// SystemPackage is an OS-level package to install into the environment.
type SystemPackage struct {
	// Name is the package name as known to the OS package manager
	Name string `yaml:"name"`

	// Optional packages are best-effort: a missing optional package is
	// logged and skipped rather than failing the build
	Optional bool `yaml:"optional,omitempty"`
}

// Spec is a declarative description of a reproducible execution environment.
// It is a value type: building from a changed Spec produces a new environment,
// never a mutation of a prior one.
type Spec struct {
	// BaseImage is the container image reference, possibly containing
	// the {version} placeholder (e.g. "python:{version}-slim")
	BaseImage string

	// Interpreter is the interpreter version for this environment
	// (e.g. "3.10"). Part of the cache key.
	Interpreter string

	// SystemPackages are installed via the OS package manager before any
	// language-level packages
	SystemPackages []SystemPackage

	// ManifestPath is the host path of the language-package manifest
	ManifestPath string

	// WorkDir is the directory inside the environment where the target
	// project source is fetched
	WorkDir string

	// Env contains environment variables set inside the environment
	Env map[string]string
}

// ForInterpreter returns a copy of the spec bound to the given interpreter
// version, with the base image placeholder resolved.
func (s Spec) ForInterpreter(version string) Spec {
	out := s
	out.Interpreter = version
	out.BaseImage = strings.ReplaceAll(s.BaseImage, VersionPlaceholder, version)
	return out
}

// Validate checks that the spec is complete enough to build from.
func (s Spec) Validate() error {
	if strings.TrimSpace(s.BaseImage) == "" {
		return fmt.Errorf("base image must not be empty")
	}
	if strings.TrimSpace(s.Interpreter) == "" && strings.Contains(s.BaseImage, VersionPlaceholder) {
		return fmt.Errorf("base image %q has an unresolved version placeholder", s.BaseImage)
	}
	if strings.TrimSpace(s.WorkDir) == "" {
		return fmt.Errorf("workdir must not be empty")
	}
	for i, pkg := range s.SystemPackages {
		if strings.TrimSpace(pkg.Name) == "" {
			return fmt.Errorf("system package %d has an empty name", i)
		}
	}
	return nil
}

// RequiredSystemPackages returns the names of packages that must be present.
func (s Spec) RequiredSystemPackages() []string {
	var names []string
	for _, pkg := range s.SystemPackages {
		if !pkg.Optional {
			names = append(names, pkg.Name)
		}
	}
	return names
}

// OptionalSystemPackages returns the names of best-effort packages.
func (s Spec) OptionalSystemPackages() []string {
	var names []string
	for _, pkg := range s.SystemPackages {
		if pkg.Optional {
			names = append(names, pkg.Name)
		}
	}
	return names
}
