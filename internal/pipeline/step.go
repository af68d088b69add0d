package pipeline

import (
	"context"
	"time"
)

// Family identifies which check family a step belongs to
type Family string

const (
	// FamilyDynamic steps exercise the installed project's behavior
	FamilyDynamic Family = "dynamic"

	// FamilyStatic steps analyze source text without installing the project
	FamilyStatic Family = "static"
)

// Status is a step's outcome
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StepFunc executes a step's work. A non-nil error marks the step failed;
// the returned log is recorded either way.
type StepFunc func(ctx context.Context) (log string, err error)

// Step is one unit of work within a verification run. Steps execute
// sequentially; a failed step short-circuits subsequent steps unless they
// are marked AlwaysRun.
type Step struct {
	// Name identifies the step in results and events
	Name string

	// Family the step belongs to
	Family Family

	// AlwaysRun steps execute even after an earlier step failed, to
	// maximize diagnostic information per run. AlwaysRun controls
	// execution only: a failed AlwaysRun step still fails the run.
	AlwaysRun bool

	// Run performs the step
	Run StepFunc
}

// StepResult records a step's outcome within a run
type StepResult struct {
	Name     string        `json:"name"`
	Family   Family        `json:"family"`
	Status   Status        `json:"status"`
	Log      string        `json:"log,omitempty"`
	Duration time.Duration `json:"duration"`
}
