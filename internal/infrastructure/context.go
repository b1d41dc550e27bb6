package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey string

const runIDKey contextKey = "run_id"

// NewRunID creates a unique identifier for one patient run.
func NewRunID() string {
	return uuid.New().String()
}

// WithRunID stores the run ID in the context so every log line below
// the runner can carry it without threading it explicitly.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFrom extracts the run ID, empty when the context has none.
func RunIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey).(string); ok {
		return v
	}
	return ""
}

// LoggerWithContext returns the application logger with the run ID
// attached when the context carries one.
func LoggerWithContext(ctx context.Context) *slog.Logger {
	logger := GetLogger()
	if runID := RunIDFrom(ctx); runID != "" {
		logger = logger.With(slog.String("run_id", runID))
	}
	return logger
}
