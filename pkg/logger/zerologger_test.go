package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestZeroLogger_Info(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Info("info-test", Field{Key: "key", Value: "value"}, Field{Key: "count", Value: 3})

	entry := decodeLine(t, buf)
	assert.Equal(t, "info-test", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "value", entry["key"])
	assert.EqualValues(t, 3, entry["count"])
}

func TestZeroLogger_DebugShownInDev(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Debug("debug-test")

	assert.Contains(t, buf.String(), "debug-test")
}

func TestZeroLogger_DebugHiddenInProduction(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("production", buf)

	log.Debug("debug-hidden")

	assert.Empty(t, buf.String())
}

func TestZeroLogger_ErrorFieldRendersMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Error("exchange failed", Err(errors.New("connection refused")))

	entry := decodeLine(t, buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "connection refused", entry["err"])
}

func TestZeroLogger_WithCarriesFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf).With(Field{Key: "flow_id", Value: "42"})

	log.Warn("warn-test", Field{Key: "warn", Value: true})

	entry := decodeLine(t, buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "42", entry["flow_id"])
	assert.Equal(t, true, entry["warn"])
}

func TestNop(t *testing.T) {
	log := Nop().With(Field{Key: "a", Value: 1})
	assert.NotPanics(t, func() { log.Error("ignored", Err(errors.New("x"))) })
}
