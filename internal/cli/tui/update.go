package tui

import tea "github.com/charmbracelet/bubbletea"

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TickMsg:
		// Continue ticking for timer updates
		return m, tickCmd()

	case DoneMsg:
		m.Done = true
		return m, tea.Quit

	case QuitMsg:
		m.Quitting = true
		return m, tea.Quit

	case MatrixStartedMsg:
		m.TotalRuns = msg.TotalRuns

	case ProvisioningMsg:
		m.ActiveRuns[msg.Interpreter] = &RunState{
			Interpreter: msg.Interpreter,
			Phase:       "provisioning",
			PhaseIcon:   IconWaiting,
		}

	case BuildPhaseMsg:
		if run, ok := m.ActiveRuns[msg.Interpreter]; ok {
			run.Phase = msg.Phase
			run.PhaseIcon = IconBuild
		}

	case CacheHitMsg:
		if run, ok := m.ActiveRuns[msg.Interpreter]; ok {
			run.Phase = "dependency layer cached"
			run.PhaseIcon = IconBuild
		}

	case RunStartedMsg:
		if run, ok := m.ActiveRuns[msg.Interpreter]; ok {
			run.RunID = msg.RunID
			run.TotalSteps = msg.TotalSteps
			run.Phase = "checks starting"
			run.PhaseIcon = IconCheck
		} else {
			m.ActiveRuns[msg.Interpreter] = &RunState{
				Interpreter: msg.Interpreter,
				RunID:       msg.RunID,
				TotalSteps:  msg.TotalSteps,
				Phase:       "checks starting",
				PhaseIcon:   IconCheck,
			}
		}

	case StepStartedMsg:
		if run, ok := m.ActiveRuns[msg.Interpreter]; ok {
			run.Phase = msg.Step
			run.PhaseIcon = IconCheck
		}

	case StepDoneMsg:
		if run, ok := m.ActiveRuns[msg.Interpreter]; ok {
			run.DoneSteps++
		}

	case RunPassedMsg:
		delete(m.ActiveRuns, msg.Interpreter)
		m.PassedRuns++

	case RunFailedMsg:
		delete(m.ActiveRuns, msg.Interpreter)
		m.FailedRuns++

	case LogMsg:
		m.LogLines = append(m.LogLines, msg.Line)
		if m.LogLimit > 0 && len(m.LogLines) > m.LogLimit {
			m.LogLines = m.LogLines[len(m.LogLines)-m.LogLimit:]
		}
	}

	return m, nil
}
