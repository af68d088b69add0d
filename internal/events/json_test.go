package events

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONEmitter_Emit(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewJSONEmitter(&buf)

	e := NewEvent(StepFailed, "01HQZX").WithStep("format").WithError(assertErr("would reformat src/solve.py"))
	e.Time = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	require.NoError(t, emitter.Emit(e))

	var je JSONEvent
	require.NoError(t, json.Unmarshal(buf.Bytes(), &je))
	assert.Equal(t, "step.failed", je.Type)
	assert.Equal(t, "01HQZX", je.Run)
	assert.Equal(t, "format", je.Step)
	assert.Equal(t, "would reformat src/solve.py", je.Error)
}

func TestJSONEmitter_OneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewJSONEmitter(&buf)

	require.NoError(t, emitter.Emit(NewEvent(RunStarted, "r1")))
	require.NoError(t, emitter.Emit(NewEvent(RunPassed, "r1")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestToJSONEvent_WrapsScalarPayload(t *testing.T) {
	e := NewEvent(BuildCacheHit, "r1").WithPayload("abc123")

	je := ToJSONEvent(e)

	assert.Equal(t, map[string]any{"value": "abc123"}, je.Payload)
}

func TestToJSONEvent_KeepsMapPayload(t *testing.T) {
	payload := map[string]any{"phase": "source-fetch"}
	je := ToJSONEvent(NewEvent(BuildPhase, "r1").WithPayload(payload))

	assert.Equal(t, payload, je.Payload)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
