package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(" info "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("nonsense"))
}

func TestNewJSONFiltersByLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := New(&buf, "info", "json")
	logger.Debug("hidden")
	logger.Info("activity applied", "kind", "meditation", "exp", 30.0)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "activity applied", entry["msg"])
	assert.Equal(t, "meditation", entry["kind"])
	assert.NotContains(t, buf.String(), "hidden")
}
