package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// withObservedGlobal swaps the global logger for an in-memory one so that
// emitted entries can be inspected.
func withObservedGlobal(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := globalLogger
	globalLogger = zap.New(core)
	t.Cleanup(func() { globalLogger = prev })
	return logs
}

func TestWithContextAttachesFields(t *testing.T) {
	logs := withObservedGlobal(t)

	ctx := context.WithValue(context.Background(), ProfileKey, "hq")
	ctx = context.WithValue(ctx, BrokerKey, "broker.example.com:8883")
	ctx = context.WithValue(ctx, PersonKey, "p1")

	WithContext(ctx).Info("connected")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "hq", fields["profile"])
	assert.Equal(t, "broker.example.com:8883", fields["broker"])
	assert.Equal(t, "p1", fields["person_id"])
}

func TestWithContextWithoutValues(t *testing.T) {
	logs := withObservedGlobal(t)

	WithContext(context.Background()).Info("plain")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].ContextMap())
}
