package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTestCtxLogger(t *testing.T) {
	logger := NewTestCtxLogger()
	assert.NotNil(t, logger)

	ctx := context.Background()
	ctxWithTrace := context.WithValue(ctx, "trace_id", "test-trace-123")

	logger.InfoCtx(ctx, "info entry", zap.String("key", "value"))
	logger.DebugCtx(ctx, "debug entry", zap.Int("count", 10))
	logger.WarnCtx(ctx, "warn entry", zap.Bool("flag", true))
	logger.ErrorCtx(ctx, "error entry")
	logger.InfoCtx(ctxWithTrace, "traced entry")

	assert.True(t, logger.HasLog("INFO", "info entry"))
	assert.True(t, logger.HasLog("DEBUG", "debug entry"))
	assert.True(t, logger.HasLog("WARN", "warn entry"))
	assert.True(t, logger.HasLog("ERROR", "error entry"))
	assert.False(t, logger.HasLog("INFO", "absent entry"))

	assert.True(t, logger.HasLogWithTraceID("INFO", "traced entry", "test-trace-123"))
	assert.False(t, logger.HasLogWithTraceID("INFO", "traced entry", "wrong-trace"))

	assert.True(t, logger.HasLogWithField("INFO", "info entry", "key", "value"))
	// zap.Int renders as int64 in the map encoder.
	assert.True(t, logger.HasLogWithField("DEBUG", "debug entry", "count", int64(10)))
	assert.False(t, logger.HasLogWithField("INFO", "info entry", "key", "wrong"))

	assert.Equal(t, 2, logger.CountLogs("INFO"))
	assert.Equal(t, 1, logger.CountLogs("DEBUG"))
	assert.Equal(t, 1, logger.CountLogs("WARN"))
	assert.Equal(t, 1, logger.CountLogs("ERROR"))

	allLogs := logger.Logs()
	assert.GreaterOrEqual(t, len(allLogs), 5)

	logger.Clear()
	assert.Equal(t, 0, logger.CountLogs("INFO"))
	assert.Equal(t, 0, logger.CountLogs("ERROR"))
}

func TestTestCtxLogger_With(t *testing.T) {
	logger := NewTestCtxLogger()

	eventLogger := logger.With(
		zap.String("event", "user.created"),
		zap.Int64("dispatch_seq", 12345),
	)

	assert.NotNil(t, eventLogger)

	eventLogger.InfoCtx(context.Background(), "event dispatched")

	// Derived loggers share the entry store in both directions.
	assert.True(t, eventLogger.HasLog("INFO", "event dispatched"))
	assert.True(t, logger.HasLog("INFO", "event dispatched"))

	// Preset fields land on the recorded entry.
	assert.True(t, logger.HasLogWithField("INFO", "event dispatched", "event", "user.created"))
	assert.True(t, logger.HasLogWithField("INFO", "event dispatched", "dispatch_seq", int64(12345)))
}

func TestTestCtxLogger_WithChain(t *testing.T) {
	logger := NewTestCtxLogger()

	child := logger.With(zap.String("phase", "before"))
	grandchild := child.With(zap.Int("position", 2))

	grandchild.WarnCtx(context.Background(), "filter skipped")

	assert.True(t, logger.HasLogWithField("WARN", "filter skipped", "phase", "before"))
	assert.True(t, logger.HasLogWithField("WARN", "filter skipped", "position", int64(2)))
}
