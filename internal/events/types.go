package events

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a single occurrence in the verification run lifecycle
type Event struct {
	// Time is when the event occurred (set by bus on emit)
	Time time.Time `json:"time"`

	// Type identifies what happened
	Type EventType `json:"type"`

	// Run is the verification run ID this event relates to (empty for
	// matrix-level events)
	Run string `json:"run,omitempty"`

	// Interpreter is the matrix axis (interpreter version) of the run
	Interpreter string `json:"interpreter,omitempty"`

	// Step is the step name for step-level events
	Step string `json:"step,omitempty"`

	// Payload contains event-specific data (type varies by event)
	Payload any `json:"payload,omitempty"`

	// Error contains error message if this is a failure event
	Error string `json:"error,omitempty"`
}

// EventType is a string constant identifying the event category
type EventType string

// Matrix lifecycle events
const (
	MatrixStarted   EventType = "matrix.started"
	MatrixCompleted EventType = "matrix.completed"
	MatrixFailed    EventType = "matrix.failed"
)

// Environment build events
const (
	BuildStarted   EventType = "build.started"
	BuildPhase     EventType = "build.phase"
	BuildCacheHit  EventType = "build.cache.hit"
	BuildCacheMiss EventType = "build.cache.miss"
	BuildCompleted EventType = "build.completed"
	BuildFailed    EventType = "build.failed"
)

// Verification run lifecycle events
const (
	RunStarted     EventType = "run.started"
	RunProvisioned EventType = "run.provisioned"
	RunPassed      EventType = "run.passed"
	RunFailed      EventType = "run.failed"
)

// Step lifecycle events
const (
	StepStarted EventType = "step.started"
	StepPassed  EventType = "step.passed"
	StepFailed  EventType = "step.failed"
	StepSkipped EventType = "step.skipped"
)

// NewEvent creates an event with the given type and run ID
func NewEvent(eventType EventType, run string) Event {
	return Event{
		Type: eventType,
		Run:  run,
	}
}

// WithInterpreter returns a copy of the event with the matrix axis set
func (e Event) WithInterpreter(version string) Event {
	e.Interpreter = version
	return e
}

// WithStep returns a copy of the event with the step name set
func (e Event) WithStep(step string) Event {
	e.Step = step
	return e
}

// WithPayload returns a copy of the event with the payload set
func (e Event) WithPayload(payload any) Event {
	e.Payload = payload
	return e
}

// WithError returns a copy of the event with the error message set
func (e Event) WithError(err error) Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// IsFailure returns true if this is a failure event type
func (e Event) IsFailure() bool {
	return strings.HasSuffix(string(e.Type), ".failed")
}

// String returns a human-readable representation of the event
func (e Event) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", e.Type))

	if e.Run != "" {
		parts = append(parts, e.Run)
	}
	if e.Interpreter != "" {
		parts = append(parts, fmt.Sprintf("py=%s", e.Interpreter))
	}
	if e.Step != "" {
		parts = append(parts, fmt.Sprintf("step=%s", e.Step))
	}

	return strings.Join(parts, " ")
}
