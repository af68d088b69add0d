package store

import "time"

// RunStatus tracks the lifecycle of a persisted run.
type RunStatus string

const (
	RunStatusPending RunStatus = "pending"
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
	RunStatusError   RunStatus = "error"
)

// Terminal reports whether the status is final.
func (s RunStatus) Terminal() bool {
	return s == RunStatusPassed || s == RunStatusFailed || s == RunStatusError
}

// Run is a persisted verification run for one interpreter version.
type Run struct {
	ID          string
	Interpreter string
	TriggerKind string
	Suite       string
	Status      RunStatus
	CacheHit    bool
	EnvImage    string
	StartedAt   *time.Time
	CompletedAt *time.Time
	Error       *string
}

// StepRecord is a persisted per-check result.
type StepRecord struct {
	RunID      string
	Name       string
	Family     string
	Status     string
	Log        string
	DurationMS int64
}

// EventRecord is a persisted event for replay and debugging.
type EventRecord struct {
	ID          int64
	RunID       string
	EventType   string
	Step        string
	PayloadJSON string
	CreatedAt   time.Time
}
