package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/riggerci/rigger/internal/matrix"
	"github.com/riggerci/rigger/internal/pipeline"
	"github.com/riggerci/rigger/internal/store"
	"github.com/riggerci/rigger/internal/trigger"
)

func TestFormatMatrixSummary(t *testing.T) {
	summary := &matrix.Summary{
		Passed: false,
		Entries: []matrix.Entry{
			{
				Interpreter: "3.9",
				Passed:      true,
				CacheHit:    true,
				Results: []pipeline.StepResult{
					{Name: "tests", Status: pipeline.StatusPassed, Duration: 92 * time.Second},
					{Name: "format", Status: pipeline.StatusPassed},
				},
			},
			{
				Interpreter: "3.10",
				Passed:      false,
				Results: []pipeline.StepResult{
					{Name: "tests", Status: pipeline.StatusFailed},
					{Name: "format", Status: pipeline.StatusSkipped},
				},
			},
		},
	}

	out := FormatMatrixSummary(summary)

	assert.Contains(t, out, "python 3.9")
	assert.Contains(t, out, "python 3.10")
	assert.Contains(t, out, "deps cached")
	assert.Contains(t, out, "1/2 versions passed")
	assert.Contains(t, out, "FAIL")
}

func TestFormatMatrixSummary_BuildError(t *testing.T) {
	summary := &matrix.Summary{
		Entries: []matrix.Entry{
			{Interpreter: "3.9", Error: "language-packages: no matching distribution"},
		},
	}

	out := FormatMatrixSummary(summary)
	assert.Contains(t, out, "build:")
	assert.Contains(t, out, "no matching distribution")
}

func TestFormatRunsTable(t *testing.T) {
	started := time.Date(2026, 8, 23, 2, 0, 0, 0, time.UTC)
	runs := []*store.Run{
		{
			ID:          "01J5XYZABC",
			Interpreter: "3.10",
			TriggerKind: "schedule",
			Suite:       "static",
			Status:      store.RunStatusPassed,
			StartedAt:   &started,
		},
	}

	out := FormatRunsTable(runs)
	assert.Contains(t, out, "01J5XYZABC")
	assert.Contains(t, out, "schedule")
	assert.Contains(t, out, "2026-08-23")
}

func TestFormatRunsTable_Empty(t *testing.T) {
	assert.Equal(t, "No runs recorded\n", FormatRunsTable(nil))
}

func TestFormatRunDetail(t *testing.T) {
	msg := "registry unreachable"
	run := &store.Run{
		ID:          "01J5XYZABC",
		Interpreter: "3.9",
		TriggerKind: "manual",
		Suite:       "full",
		Status:      store.RunStatusError,
		Error:       &msg,
	}

	out := FormatRunDetail(run, nil)
	assert.Contains(t, out, "01J5XYZABC")
	assert.Contains(t, out, "registry unreachable")

	run.Status = store.RunStatusFailed
	run.Error = nil
	run.EnvImage = "rigger/env:abc-full"
	run.CacheHit = true
	steps := []*store.StepRecord{
		{Name: "tests", Family: "dynamic", Status: "failed", DurationMS: 92000},
		{Name: "format", Family: "static", Status: "passed"},
	}

	out = FormatRunDetail(run, steps)
	assert.Contains(t, out, "rigger/env:abc-full")
	assert.Contains(t, out, "deps cached")
	assert.Contains(t, out, "tests")
	assert.Contains(t, out, "1m32s")
}

func TestFormatTriggers(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	triggers := []trigger.Trigger{
		{Kind: trigger.KindPush, Branches: []string{"develop", "main"}},
		{Kind: trigger.KindSchedule, Cron: "0 2 * * *"},
		{Kind: trigger.KindSchedule, Cron: "0 3 * * 0"},
	}

	out := FormatTriggers(triggers, now)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "branches=develop,main")
	assert.Contains(t, lines[0], "suite=static")
	assert.Contains(t, lines[1], "next=2026-08-24T02:00:00")
	assert.Contains(t, lines[2], "suite=full")
}

func TestFormatTriggers_Empty(t *testing.T) {
	assert.Equal(t, "No triggers configured\n", FormatTriggers(nil, time.Now()))
}
