package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/riggerci/rigger/internal/config"
	"github.com/riggerci/rigger/internal/matrix"
	"github.com/riggerci/rigger/internal/pipeline"
	"github.com/riggerci/rigger/internal/store"
	"github.com/riggerci/rigger/internal/trigger"
)

// Status symbols for summary output
const (
	SymbolPassed  = "✓"
	SymbolFailed  = "✗"
	SymbolSkipped = "○"
)

var (
	passedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
)

// statusSymbol returns the styled symbol for a step status.
func statusSymbol(status pipeline.Status) string {
	switch status {
	case pipeline.StatusPassed:
		return passedStyle.Render(SymbolPassed)
	case pipeline.StatusFailed:
		return failedStyle.Render(SymbolFailed)
	default:
		return dimStyle.Render(SymbolSkipped)
	}
}

// FormatPlan renders the dry-run execution plan.
func FormatPlan(cfg *config.Config, matrixCfg matrix.Config) string {
	var b strings.Builder

	b.WriteString(boldStyle.Render("Execution plan") + "\n")
	fmt.Fprintf(&b, "  Source:      %s", matrixCfg.Source.URL)
	if matrixCfg.Source.Ref != "" {
		fmt.Fprintf(&b, " @ %s", matrixCfg.Source.Ref)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Base image:  %s\n", cfg.Environment.BaseImage)
	fmt.Fprintf(&b, "  Versions:    %s\n", strings.Join(matrixCfg.Versions, ", "))
	fmt.Fprintf(&b, "  Suite:       %s\n", matrixCfg.Suite)
	fmt.Fprintf(&b, "  Parallelism: %d\n", matrixCfg.Parallelism)

	return b.String()
}

// FormatMatrixSummary renders the per-version outcome of a matrix run.
func FormatMatrixSummary(summary *matrix.Summary) string {
	var b strings.Builder

	b.WriteString("\n" + boldStyle.Render("Verification summary") + "\n")

	passed := 0
	for _, entry := range summary.Entries {
		b.WriteString(formatEntry(entry))
		if entry.Passed {
			passed++
		}
	}

	verdict := passedStyle.Render("PASS")
	if !summary.Passed {
		verdict = failedStyle.Render("FAIL")
	}
	fmt.Fprintf(&b, "\n  %s  %d/%d versions passed\n", verdict, passed, len(summary.Entries))

	return b.String()
}

// formatEntry renders one interpreter's outcome with its step results.
func formatEntry(entry matrix.Entry) string {
	var b strings.Builder

	symbol := passedStyle.Render(SymbolPassed)
	if !entry.Passed {
		symbol = failedStyle.Render(SymbolFailed)
	}

	fmt.Fprintf(&b, "\n  %s %s", symbol, boldStyle.Render("python "+entry.Interpreter))
	if entry.CacheHit {
		b.WriteString(dimStyle.Render("  (deps cached)"))
	}
	b.WriteString("\n")

	if entry.Error != "" {
		fmt.Fprintf(&b, "      %s %s\n", failedStyle.Render("build:"), entry.Error)
		return b.String()
	}

	for _, result := range entry.Results {
		fmt.Fprintf(&b, "      %s %-8s %s\n",
			statusSymbol(result.Status),
			result.Name,
			dimStyle.Render(result.Duration.Round(time.Millisecond).String()))
	}

	return b.String()
}

// FormatRunsTable renders run history as an aligned table.
func FormatRunsTable(runs []*store.Run) string {
	if len(runs) == 0 {
		return "No runs recorded\n"
	}

	var b strings.Builder
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-26s %-8s %-12s %-8s %-8s %s",
		"RUN", "PYTHON", "TRIGGER", "SUITE", "STATUS", "STARTED")) + "\n")

	for _, run := range runs {
		started := ""
		if run.StartedAt != nil {
			started = run.StartedAt.Format("2006-01-02 15:04:05")
		}

		status := string(run.Status)
		switch run.Status {
		case store.RunStatusPassed:
			status = passedStyle.Render(status)
		case store.RunStatusFailed, store.RunStatusError:
			status = failedStyle.Render(status)
		}

		fmt.Fprintf(&b, "  %-26s %-8s %-12s %-8s %-8s %s\n",
			run.ID, run.Interpreter, run.TriggerKind, run.Suite, status, started)
	}

	return b.String()
}

// FormatRunDetail renders one run with its step results.
func FormatRunDetail(run *store.Run, steps []*store.StepRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", boldStyle.Render("Run"), run.ID)
	fmt.Fprintf(&b, "  Python:   %s\n", run.Interpreter)
	fmt.Fprintf(&b, "  Trigger:  %s (%s suite)\n", run.TriggerKind, run.Suite)
	fmt.Fprintf(&b, "  Status:   %s\n", run.Status)
	if run.EnvImage != "" {
		origin := "built"
		if run.CacheHit {
			origin = "deps cached"
		}
		fmt.Fprintf(&b, "  Image:    %s (%s)\n", run.EnvImage, origin)
	}
	if run.Error != nil {
		fmt.Fprintf(&b, "  Error:    %s\n", failedStyle.Render(*run.Error))
	}

	if len(steps) > 0 {
		b.WriteString("\n  Steps:\n")
		for _, step := range steps {
			symbol := statusSymbol(pipeline.Status(step.Status))
			duration := time.Duration(step.DurationMS) * time.Millisecond
			fmt.Fprintf(&b, "    %s %-8s %-8s %s\n",
				symbol, step.Name, step.Family, dimStyle.Render(duration.String()))
		}
	}

	return b.String()
}

// FormatTriggers renders the configured triggers with resolved suites and,
// for schedules, the next firing time.
func FormatTriggers(triggers []trigger.Trigger, now time.Time) string {
	if len(triggers) == 0 {
		return "No triggers configured\n"
	}

	var b strings.Builder
	for _, trig := range triggers {
		fmt.Fprintf(&b, "  %-13s suite=%-7s", trig.Kind, trig.SuiteFor())

		switch trig.Kind {
		case trigger.KindSchedule:
			if next, err := trig.Next(now); err == nil {
				fmt.Fprintf(&b, " cron=%q next=%s", trig.Cron, next.Format(time.RFC3339))
			}
		case trigger.KindPush, trigger.KindPullRequest:
			fmt.Fprintf(&b, " branches=%s", strings.Join(trig.Branches, ","))
		}
		b.WriteString("\n")
	}

	return b.String()
}
