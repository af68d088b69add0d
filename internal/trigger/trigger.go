package trigger

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Kind identifies how a verification run is initiated.
type Kind string

const (
	// KindManual runs are dispatched by an operator
	KindManual Kind = "manual"

	// KindSchedule runs fire on a cron expression
	KindSchedule Kind = "schedule"

	// KindPush runs fire on pushes to designated branches
	KindPush Kind = "push"

	// KindPullRequest runs fire on pull requests targeting designated branches
	KindPullRequest Kind = "pull_request"
)

// Suite selects which check families a run executes.
type Suite string

const (
	// SuiteFull runs the dynamic and static passes
	SuiteFull Suite = "full"

	// SuiteStatic runs only the four source-text checkers
	SuiteStatic Suite = "static"

	// SuiteDynamic runs only the test-execution pass
	SuiteDynamic Suite = "dynamic"
)

// Trigger declares one way a verification run can be initiated, together
// with the check suite it selects.
type Trigger struct {
	// Kind of trigger
	Kind Kind `yaml:"kind"`

	// Cron expression for schedule triggers (standard 5-field syntax)
	Cron string `yaml:"cron,omitempty"`

	// Branches designates long-lived branches for push/pull_request triggers
	Branches []string `yaml:"branches,omitempty"`

	// Suite overrides the policy-derived suite when set
	Suite Suite `yaml:"suite,omitempty"`
}

// ParseKind parses a trigger kind from user input.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manual":
		return KindManual, nil
	case "schedule", "scheduled", "cron":
		return KindSchedule, nil
	case "push":
		return KindPush, nil
	case "pull_request", "pull-request", "pr":
		return KindPullRequest, nil
	default:
		return "", fmt.Errorf("unknown trigger kind: %q (valid: manual, schedule, push, pull_request)", s)
	}
}

// ValidSuite reports whether s is a recognized suite name.
func ValidSuite(s Suite) bool {
	return s == SuiteFull || s == SuiteStatic || s == SuiteDynamic
}

// Validate checks the trigger declaration for consistency.
func (t Trigger) Validate() error {
	switch t.Kind {
	case KindManual:
	case KindSchedule:
		if t.Cron == "" {
			return fmt.Errorf("schedule trigger requires a cron expression")
		}
		if _, err := cron.ParseStandard(t.Cron); err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", t.Cron, err)
		}
	case KindPush, KindPullRequest:
		if len(t.Branches) == 0 {
			return fmt.Errorf("%s trigger requires at least one branch", t.Kind)
		}
	default:
		return fmt.Errorf("unknown trigger kind: %q", t.Kind)
	}

	if t.Suite != "" && !ValidSuite(t.Suite) {
		return fmt.Errorf("invalid suite %q (valid: full, static, dynamic)", t.Suite)
	}
	return nil
}

// MatchesBranch reports whether a push/pull_request trigger applies to the
// given branch. Other kinds never match branches.
func (t Trigger) MatchesBranch(branch string) bool {
	if t.Kind != KindPush && t.Kind != KindPullRequest {
		return false
	}
	for _, b := range t.Branches {
		if b == branch {
			return true
		}
	}
	return false
}

// Next returns the next firing time after from for schedule triggers.
func (t Trigger) Next(from time.Time) (time.Time, error) {
	if t.Kind != KindSchedule {
		return time.Time{}, fmt.Errorf("trigger kind %s has no schedule", t.Kind)
	}
	schedule, err := cron.ParseStandard(t.Cron)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression %q: %w", t.Cron, err)
	}
	return schedule.Next(from), nil
}
