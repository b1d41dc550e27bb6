package infrastructure

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icucli/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}

func TestCreateLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "icucli.log")
	logger, err := createLogger(config.LoggingConfig{
		Level:    "debug",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("test message", slog.String("key", "value"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"test message"`)
	assert.Contains(t, string(data), `"key":"value"`)
}

func TestCreateLogger_StdoutDefault(t *testing.T) {
	logger, err := createLogger(config.LoggingConfig{Level: "info", Output: "stdout"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestGetLogger_UninitializedFallsBack(t *testing.T) {
	assert.NotNil(t, GetLogger())
}
