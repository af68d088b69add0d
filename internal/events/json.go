package events

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// JSONEvent is the wire format for serialized events on stdout. This is the
// machine-readable report sink consumed by external status systems.
type JSONEvent struct {
	// Type identifies the event (e.g. "step.passed", "run.failed")
	Type string `json:"type"`

	// Timestamp is when the event occurred (RFC3339 format)
	Timestamp time.Time `json:"timestamp"`

	// Run is the verification run ID (omitted for matrix events)
	Run string `json:"run,omitempty"`

	// Interpreter is the matrix axis of the run
	Interpreter string `json:"interpreter,omitempty"`

	// Step is the step name for step-level events
	Step string `json:"step,omitempty"`

	// Payload contains event-specific data
	Payload map[string]any `json:"payload,omitempty"`

	// Error contains error message if this is a failure event
	Error string `json:"error,omitempty"`
}

// IsJSONMode returns true if JSON event output should be enabled.
// Checks: (1) explicit forceJSON flag, (2) non-TTY stdout.
func IsJSONMode(forceJSON bool) bool {
	if forceJSON {
		return true
	}

	if os.Stdout != nil {
		return !term.IsTerminal(int(os.Stdout.Fd()))
	}

	return true
}

// JSONEmitter writes events as JSON lines to a writer.
// Thread-safe for concurrent Emit calls.
type JSONEmitter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONEmitter creates a new JSON emitter that writes to w.
// Each event is written as a single JSON line (newline-delimited).
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{enc: json.NewEncoder(w)}
}

// Emit converts the internal Event to JSONEvent wire format and writes it.
func (e *JSONEmitter) Emit(event Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.enc.Encode(ToJSONEvent(event))
}

// JSONEmitterHandler returns a Handler that emits events as JSON lines.
// Use this to subscribe the emitter to an event bus.
// Errors are logged but not propagated (handler interface has no return).
func JSONEmitterHandler(emitter *JSONEmitter) Handler {
	return func(e Event) {
		if err := emitter.Emit(e); err != nil {
			logrus.WithError(err).Warn("failed to emit JSON event")
		}
	}
}

// ToJSONEvent converts an internal Event to the wire format JSONEvent.
func ToJSONEvent(e Event) JSONEvent {
	je := JSONEvent{
		Type:        string(e.Type),
		Timestamp:   e.Time,
		Run:         e.Run,
		Interpreter: e.Interpreter,
		Step:        e.Step,
		Error:       e.Error,
	}

	if e.Payload != nil {
		switch p := e.Payload.(type) {
		case map[string]any:
			je.Payload = p
		default:
			je.Payload = map[string]any{"value": e.Payload}
		}
	}

	return je
}
