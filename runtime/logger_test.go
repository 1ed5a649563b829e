package runtime

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quietLogger discards everything, for tests that only care about results.
func quietLogger() *slog.Logger {
	return NewLogger(io.Discard, LevelOff, false)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		hasError bool
	}{
		{"DEBUG", slog.LevelDebug, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{" warning ", slog.LevelWarn, false},
		{"ERROR", slog.LevelError, false},
		{"off", LevelOff, false},
		{"NONE", LevelOff, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLogLevel(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, false)
	logger.Debug("hidden")
	logger.Info("Simulation finished", "kept", 10)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Simulation finished", record["msg"])
	assert.Equal(t, float64(10), record["kept"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewLogger_Pretty(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn, true)
	logger.Info("hidden")
	logger.Warn("Ignoring distribution", "variable", "x")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN:")
	assert.Contains(t, out, "Ignoring distribution")
	assert.Contains(t, out, `"variable": "x"`)
}

func TestNewLogger_Off(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelOff, false)
	logger.Error("nothing")
	assert.Empty(t, buf.String())
}

func TestLoggerFromEnv(t *testing.T) {
	t.Setenv("FERMI_LOG_LEVEL", "debug")
	t.Setenv("FERMI_ENV", "")
	logger := LoggerFromEnv()
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	t.Setenv("FERMI_LOG_LEVEL", "error")
	logger = LoggerFromEnv()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelWarn))
}
