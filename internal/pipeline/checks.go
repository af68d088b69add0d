package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riggerci/rigger/internal/container"
)

// DynamicChecks configures the behavior-exercising test pass.
type DynamicChecks struct {
	// Command is the test runner invocation (default "pytest")
	Command string `yaml:"command"`

	// RunSkipped includes tests that are normally skipped
	RunSkipped bool `yaml:"run_skipped"`

	// RunSkippedFlag is the flag that enables skipped tests
	RunSkippedFlag string `yaml:"run_skipped_flag"`

	// ExcludeCategory names a test category to exclude via a marker
	// filter (e.g. long-running tutorial tests)
	ExcludeCategory string `yaml:"exclude_category"`
}

// TestCommand assembles the full test invocation.
func (c DynamicChecks) TestCommand() string {
	cmd := c.Command
	if cmd == "" {
		cmd = "pytest"
	}
	if c.ExcludeCategory != "" {
		cmd += fmt.Sprintf(" -m 'not %s'", c.ExcludeCategory)
	}
	if c.RunSkipped {
		flag := c.RunSkippedFlag
		if flag == "" {
			flag = "--run-skipped"
		}
		cmd += " " + flag
	}
	return cmd
}

// StaticChecks configures the four source-text checkers. Each runs over the
// fetched source tree with no project install.
type StaticChecks struct {
	// Format is the formatting checker command (default "black --check .")
	Format string `yaml:"format"`

	// Imports is the import-order checker command (default "isort --check-only .")
	Imports string `yaml:"imports"`

	// Lint is the lint checker command (default "flake8 .")
	Lint string `yaml:"lint"`

	// Types is the type-consistency checker command (default "mypy .")
	Types string `yaml:"types"`
}

// checker returns (name, command) pairs in execution order, applying
// defaults for unset commands.
func (c StaticChecks) checkers() [][2]string {
	withDefault := func(cmd, def string) string {
		if cmd == "" {
			return def
		}
		return cmd
	}
	return [][2]string{
		{"format", withDefault(c.Format, "black --check .")},
		{"imports", withDefault(c.Imports, "isort --check-only .")},
		{"lint", withDefault(c.Lint, "flake8 .")},
		{"types", withDefault(c.Types, "mypy .")},
	}
}

// Target is the environment a check family runs against.
type Target struct {
	// Image to run check commands in
	Image string

	// WorkDir containing the project source inside the image
	WorkDir string

	// Env for check processes
	Env map[string]string
}

// DynamicSteps builds the dynamic pass: a single test-execution step against
// the fully provisioned environment.
func DynamicSteps(m container.Manager, target Target, cfg DynamicChecks) []Step {
	return []Step{{
		Name:   "tests",
		Family: FamilyDynamic,
		Run:    containerStep(m, target, "tests", cfg.TestCommand()),
	}}
}

// StaticSteps builds the static pass: four independent checkers over the
// source tree, each AlwaysRun so one checker's failure never hides another's
// findings.
func StaticSteps(m container.Manager, target Target, cfg StaticChecks) []Step {
	var steps []Step
	for _, checker := range cfg.checkers() {
		steps = append(steps, Step{
			Name:      checker[0],
			Family:    FamilyStatic,
			AlwaysRun: true,
			Run:       containerStep(m, target, checker[0], checker[1]),
		})
	}
	return steps
}

// containerStep runs command in a fresh container of the target image and
// fails on non-zero exit. The container is removed either way; checks never
// commit layers.
func containerStep(m container.Manager, target Target, name, command string) StepFunc {
	return func(ctx context.Context) (string, error) {
		res, err := container.RunCommand(ctx, m, container.ContainerConfig{
			Image:   target.Image,
			Name:    fmt.Sprintf("rigger-check-%s-%d", name, time.Now().UnixNano()),
			Env:     target.Env,
			Cmd:     []string{"sh", "-c", command},
			WorkDir: target.WorkDir,
		})
		if err != nil {
			return "", err
		}
		_ = m.Remove(ctx, res.ID)

		if res.ExitCode != 0 {
			return res.Output, fmt.Errorf("%s exited with code %d", firstWord(command), res.ExitCode)
		}
		return res.Output, nil
	}
}

func firstWord(s string) string {
	if idx := strings.IndexByte(s, ' '); idx > 0 {
		return s[:idx]
	}
	return s
}
