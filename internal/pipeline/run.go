package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/riggerci/rigger/internal/events"
)

// Run is one execution of the verification pipeline for a single matrix
// entry. It owns its state machine and accumulates step results; it shares
// nothing with concurrent runs.
type Run struct {
	// ID is the run's ULID
	ID string

	// Interpreter is the matrix axis this run verifies
	Interpreter string

	bus     *events.Bus
	state   State
	results []StepResult
}

// Summary is the aggregated outcome of a run
type Summary struct {
	RunID       string       `json:"run_id"`
	Interpreter string       `json:"interpreter"`
	Passed      bool         `json:"passed"`
	Results     []StepResult `json:"results"`
}

// NewRun creates a run in the Init state.
func NewRun(id, interpreter string, bus *events.Bus) *Run {
	return &Run{
		ID:          id,
		Interpreter: interpreter,
		bus:         bus,
		state:       StateInit,
	}
}

// State returns the current lifecycle state.
func (r *Run) State() State {
	return r.state
}

// Results returns the step results recorded so far.
func (r *Run) Results() []StepResult {
	out := make([]StepResult, len(r.results))
	copy(out, r.results)
	return out
}

func (r *Run) transition(to State) error {
	if !CanTransition(r.state, to) {
		return fmt.Errorf("invalid run transition: %s -> %s", r.state, to)
	}
	r.state = to
	return nil
}

// MarkProvisioned records that the environment build succeeded.
// Must be called before Execute.
func (r *Run) MarkProvisioned() error {
	return r.transition(StateProvisioned)
}

// Execute runs the steps sequentially and aggregates their results.
//
// A failed step stops subsequent steps unless they are AlwaysRun; skipped
// steps are recorded as such so the report stays complete. The run fails if
// ANY executed step failed: AlwaysRun never downgrades a failure. Context
// cancellation halts further steps immediately with no partial aggregation.
func (r *Run) Execute(ctx context.Context, steps []Step) (*Summary, error) {
	if err := r.transition(StateChecksRunning); err != nil {
		return nil, err
	}

	r.bus.Emit(events.NewEvent(events.RunStarted, r.ID).
		WithInterpreter(r.Interpreter).
		WithPayload(map[string]any{"steps": len(steps)}))

	failedSeen := false
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if failedSeen && !step.AlwaysRun {
			r.results = append(r.results, StepResult{
				Name:   step.Name,
				Family: step.Family,
				Status: StatusSkipped,
			})
			r.bus.Emit(events.NewEvent(events.StepSkipped, r.ID).
				WithInterpreter(r.Interpreter).WithStep(step.Name))
			continue
		}

		r.bus.Emit(events.NewEvent(events.StepStarted, r.ID).
			WithInterpreter(r.Interpreter).WithStep(step.Name))

		start := time.Now()
		log, err := step.Run(ctx)
		result := StepResult{
			Name:     step.Name,
			Family:   step.Family,
			Status:   StatusPassed,
			Log:      log,
			Duration: time.Since(start),
		}

		if err != nil {
			result.Status = StatusFailed
			failedSeen = true
			r.bus.Emit(events.NewEvent(events.StepFailed, r.ID).
				WithInterpreter(r.Interpreter).WithStep(step.Name).WithError(err))
		} else {
			r.bus.Emit(events.NewEvent(events.StepPassed, r.ID).
				WithInterpreter(r.Interpreter).WithStep(step.Name))
		}

		r.results = append(r.results, result)
	}

	if err := r.transition(StateAggregated); err != nil {
		return nil, err
	}

	passed := true
	for _, result := range r.results {
		if result.Status == StatusFailed {
			passed = false
			break
		}
	}

	if passed {
		if err := r.transition(StateReportedPass); err != nil {
			return nil, err
		}
		r.bus.Emit(events.NewEvent(events.RunPassed, r.ID).WithInterpreter(r.Interpreter))
	} else {
		if err := r.transition(StateReportedFail); err != nil {
			return nil, err
		}
		r.bus.Emit(events.NewEvent(events.RunFailed, r.ID).WithInterpreter(r.Interpreter))
	}

	return &Summary{
		RunID:       r.ID,
		Interpreter: r.Interpreter,
		Passed:      passed,
		Results:     r.Results(),
	}, nil
}
