package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTracing_Disabled(t *testing.T) {
	providers, err := InitializeTracing(false, slog.Default())
	require.NoError(t, err)
	assert.Nil(t, providers)

	// Shutdown on nil providers is a no-op.
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestStartSpan_NoopWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test.span")
	require.NotNil(t, span)
	span.End()

	// RecordError on a non-recording span must not panic.
	RecordError(ctx, errors.New("boom"))
}

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RunIDFrom(ctx))

	id := NewRunID()
	require.NotEmpty(t, id)

	ctx = WithRunID(ctx, id)
	assert.Equal(t, id, RunIDFrom(ctx))
}

func TestLoggerWithContext(t *testing.T) {
	assert.NotNil(t, LoggerWithContext(context.Background()))
	assert.NotNil(t, LoggerWithContext(WithRunID(context.Background(), "run-1")))
}
