package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupHandlerText(t *testing.T) {
	tests := []struct {
		name       string
		logLevel   string
		debugShown bool
		infoShown  bool
	}{
		{name: "trace level", logLevel: "trace", debugShown: true, infoShown: true},
		{name: "debug level", logLevel: "debug", debugShown: true, infoShown: true},
		{name: "mixed case debug", logLevel: "DeBuG", debugShown: true, infoShown: true},
		{name: "info level", logLevel: "info", infoShown: true},
		{name: "empty defaults to info", logLevel: "", infoShown: true},
		{name: "warn level", logLevel: "warn"},
		{name: "warning level", logLevel: "warning"},
		{name: "error level", logLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			handler := SetupHandlerText(tt.logLevel, buf)
			require.NotNil(t, handler)

			logger := slog.New(handler)
			logger.Debug("debug message", "key", "value")
			logger.Info("info message", "key", "value")
			logger.Error("error message", "key", "value")

			output := buf.String()
			assert.Equal(t, tt.debugShown, strings.Contains(output, "debug message"))
			assert.Equal(t, tt.infoShown, strings.Contains(output, "info message"))
			assert.Contains(t, output, "error message")
		})
	}
}

func TestSetupHandlerText_NilWriter(t *testing.T) {
	handler := SetupHandlerText("info", nil)
	require.NotNil(t, handler)
	slog.New(handler).Info("test message for stderr")
}

func TestSetupHandlerJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(SetupHandlerJSON("warn", buf))

	logger.Info("hidden")
	logger.Warn("shown", "server", "localhost")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "shown", record["msg"])
	assert.Equal(t, "localhost", record["server"])
	assert.Equal(t, "WARN", record["level"])
}

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	SetupLogger("debug", "text")
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	SetupLogger("error", "json")
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelError))
}
