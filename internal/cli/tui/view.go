package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// View implements tea.Model
func (m *Model) View() string {
	if m.Done || m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderActiveRuns())

	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")

	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title line with timer and parallelism
func (m *Model) renderHeader() string {
	elapsed := time.Since(m.StartTime).Round(time.Second)
	timer := fmt.Sprintf("[%s]", formatDuration(elapsed))
	parallelism := fmt.Sprintf("Parallelism: %d", m.Parallelism)

	return fmt.Sprintf("%s  %s  %s",
		m.Styles.Title.Render("Rigger Verification"),
		m.Styles.Timer.Render(timer),
		m.Styles.Parallelism.Render(parallelism),
	)
}

// renderActiveRuns renders the list of in-progress interpreter runs
func (m *Model) renderActiveRuns() string {
	if len(m.ActiveRuns) == 0 {
		return "  No active runs\n\n"
	}

	var b strings.Builder

	// Sort runs by interpreter for stable display
	interpreters := make([]string, 0, len(m.ActiveRuns))
	for interp := range m.ActiveRuns {
		interpreters = append(interpreters, interp)
	}
	sort.Strings(interpreters)

	for _, interp := range interpreters {
		b.WriteString(m.renderRun(m.ActiveRuns[interp]))
		b.WriteString("\n")
	}

	return b.String()
}

// renderRun renders a single active run
func (m *Model) renderRun(run *RunState) string {
	var b strings.Builder

	// Run header: ● python 3.10 [████░░░░░░░░] 2/5 checks
	icon := m.Styles.RunActive.Render(IconActive)
	name := m.Styles.RunName.Render("python " + run.Interpreter)
	progress := m.renderProgressBar(run.DoneSteps, run.TotalSteps, 20)
	stepCount := fmt.Sprintf("%d/%d checks", run.DoneSteps, run.TotalSteps)

	fmt.Fprintf(&b, "  %s %s %s %s\n", icon, name, progress, stepCount)

	// Phase line: 🧪 lint
	phaseIcon := m.Styles.PhaseIcon.Render(run.PhaseIcon)
	phaseText := m.Styles.PhaseText.Render(run.Phase)
	fmt.Fprintf(&b, "      %s %s\n", phaseIcon, phaseText)

	return b.String()
}

// renderProgressBar creates a progress bar of the given width
func (m *Model) renderProgressBar(completed, total, width int) string {
	if total == 0 {
		total = 1 // Avoid division by zero
	}

	filled := min((completed*width)/total, width)

	filledStr := strings.Repeat("█", filled)
	emptyStr := strings.Repeat("░", width-filled)

	return "[" +
		m.Styles.ProgressFilled.Render(filledStr) +
		m.Styles.ProgressEmpty.Render(emptyStr) +
		"]"
}

// renderStatusLine renders the summary status line
func (m *Model) renderStatusLine() string {
	activeCount := len(m.ActiveRuns)

	passed := m.Styles.StatusPassed.Render(fmt.Sprintf("%d passed", m.PassedRuns))
	failed := m.Styles.StatusFailed.Render(fmt.Sprintf("%d failed", m.FailedRuns))
	active := m.Styles.StatusActive.Render(fmt.Sprintf("%d active", activeCount))

	return fmt.Sprintf("  Runs: %d/%d %s | %s | %s",
		m.PassedRuns+m.FailedRuns,
		m.TotalRuns,
		passed,
		failed,
		active,
	)
}

// renderFooter renders the help text
func (m *Model) renderFooter() string {
	key := m.Styles.FooterKey.Render("q")
	return m.Styles.Footer.Render(fmt.Sprintf("  Press %s to quit", key))
}

// formatDuration formats a duration as HH:MM:SS
func formatDuration(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
