package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RunState tracks one interpreter's verification run in the TUI
type RunState struct {
	Interpreter string
	RunID       string
	TotalSteps  int
	DoneSteps   int
	Phase       string
	PhaseIcon   string
}

// Model is the bubbletea model for the TUI
type Model struct {
	// Configuration
	TotalRuns   int
	Parallelism int
	Styles      Styles

	// State
	ActiveRuns map[string]*RunState
	PassedRuns int
	FailedRuns int
	StartTime  time.Time
	LogLines   []string
	LogLimit   int
	Width      int
	Height     int

	// Control
	Quitting bool
	Done     bool
}

// NewModel creates a new TUI model
func NewModel(totalRuns, parallelism int) *Model {
	return &Model{
		TotalRuns:   totalRuns,
		Parallelism: parallelism,
		Styles:      DefaultStyles(),
		ActiveRuns:  make(map[string]*RunState),
		StartTime:   time.Now(),
		LogLimit:    500,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// TickMsg is sent every second to update the timer
type TickMsg time.Time

// tickCmd returns a command that sends TickMsg every second
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// DoneMsg signals the TUI should exit
type DoneMsg struct{}

// QuitMsg signals the user requested quit (q or Ctrl+C)
type QuitMsg struct{}

// MatrixStartedMsg carries the total run count
type MatrixStartedMsg struct {
	TotalRuns int
}

// ProvisioningMsg indicates an environment build has begun
type ProvisioningMsg struct {
	Interpreter string
}

// BuildPhaseMsg indicates a build phase change
type BuildPhaseMsg struct {
	Interpreter string
	Phase       string
}

// CacheHitMsg indicates the dependency layer came from cache
type CacheHitMsg struct {
	Interpreter string
}

// RunStartedMsg indicates checks have started for an interpreter
type RunStartedMsg struct {
	Interpreter string
	RunID       string
	TotalSteps  int
}

// StepStartedMsg indicates a check step is executing
type StepStartedMsg struct {
	Interpreter string
	Step        string
}

// StepDoneMsg indicates a check step finished (any status)
type StepDoneMsg struct {
	Interpreter string
	Step        string
}

// RunPassedMsg indicates an interpreter's run passed
type RunPassedMsg struct {
	Interpreter string
}

// RunFailedMsg indicates an interpreter's run failed or errored
type RunFailedMsg struct {
	Interpreter string
	Error       string
}
