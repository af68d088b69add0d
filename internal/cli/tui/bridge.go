package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/riggerci/rigger/internal/events"
)

// Bridge connects the event bus to the bubbletea program
type Bridge struct {
	program *tea.Program
}

// NewBridge creates a new bridge for the given program
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{
		program: program,
	}
}

// Handler returns an event handler function for the event bus
func (b *Bridge) Handler() events.Handler {
	return func(evt events.Event) {
		msg := b.eventToMsg(evt)
		if msg != nil {
			b.program.Send(msg)
		}
	}
}

// eventToMsg converts an events.Event to a tea.Msg
func (b *Bridge) eventToMsg(evt events.Event) tea.Msg {
	switch evt.Type {
	case events.MatrixStarted:
		totalRuns := 0
		if payload, ok := evt.Payload.(map[string]any); ok {
			if versions, ok := payload["versions"].([]string); ok {
				totalRuns = len(versions)
			}
		}
		return MatrixStartedMsg{TotalRuns: totalRuns}

	case events.BuildStarted:
		return ProvisioningMsg{Interpreter: evt.Interpreter}

	case events.BuildPhase:
		phase := ""
		if payload, ok := evt.Payload.(map[string]any); ok {
			if p, ok := payload["phase"].(string); ok {
				phase = p
			}
		}
		return BuildPhaseMsg{Interpreter: evt.Interpreter, Phase: phase}

	case events.BuildCacheHit:
		return CacheHitMsg{Interpreter: evt.Interpreter}

	case events.RunStarted:
		totalSteps := 0
		if payload, ok := evt.Payload.(map[string]any); ok {
			if s, ok := payload["steps"].(int); ok {
				totalSteps = s
			}
		}
		return RunStartedMsg{
			Interpreter: evt.Interpreter,
			RunID:       evt.Run,
			TotalSteps:  totalSteps,
		}

	case events.StepStarted:
		return StepStartedMsg{Interpreter: evt.Interpreter, Step: evt.Step}

	case events.StepPassed, events.StepFailed, events.StepSkipped:
		return StepDoneMsg{Interpreter: evt.Interpreter, Step: evt.Step}

	case events.RunPassed:
		return RunPassedMsg{Interpreter: evt.Interpreter}

	case events.RunFailed:
		return RunFailedMsg{Interpreter: evt.Interpreter}

	case events.BuildFailed:
		return RunFailedMsg{Interpreter: evt.Interpreter, Error: evt.Error}

	default:
		return nil
	}
}

// SendDone sends a DoneMsg to the program
func (b *Bridge) SendDone() {
	b.program.Send(DoneMsg{})
}

// SendQuit sends a QuitMsg to the program
func (b *Bridge) SendQuit() {
	b.program.Send(QuitMsg{})
}
