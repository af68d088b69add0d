package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent(StepPassed, "run-1")

	assert.Equal(t, StepPassed, e.Type)
	assert.Equal(t, "run-1", e.Run)
	assert.Empty(t, e.Step)
}

func TestEvent_Builders(t *testing.T) {
	e := NewEvent(StepFailed, "run-1").
		WithInterpreter("3.10").
		WithStep("format").
		WithError(errors.New("reformat needed"))

	assert.Equal(t, "3.10", e.Interpreter)
	assert.Equal(t, "format", e.Step)
	assert.Equal(t, "reformat needed", e.Error)
}

func TestEvent_BuildersCopy(t *testing.T) {
	base := NewEvent(RunStarted, "run-1")
	modified := base.WithStep("tests")

	assert.Empty(t, base.Step)
	assert.Equal(t, "tests", modified.Step)
}

func TestEvent_IsFailure(t *testing.T) {
	assert.True(t, NewEvent(RunFailed, "r").IsFailure())
	assert.True(t, NewEvent(BuildFailed, "r").IsFailure())
	assert.True(t, NewEvent(StepFailed, "r").IsFailure())
	assert.False(t, NewEvent(StepPassed, "r").IsFailure())
	assert.False(t, NewEvent(BuildCacheMiss, "r").IsFailure())
}

func TestEvent_String(t *testing.T) {
	e := NewEvent(StepPassed, "01HQZX").WithInterpreter("3.9").WithStep("lint")

	assert.Equal(t, "[step.passed] 01HQZX py=3.9 step=lint", e.String())
}
