package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestCtxLogger records log entries in memory so unit tests can assert on
// them. Instances returned by With share the same entry store.
type TestCtxLogger struct {
	state  *testLogState
	preset []zap.Field
}

type testLogState struct {
	logs []LogEntry
	mu   sync.RWMutex
}

// LogEntry is one recorded log line.
type LogEntry struct {
	Level   string
	Message string
	TraceID string
	Fields  map[string]interface{}
}

// NewTestCtxLogger creates an in-memory logger.
//
//	testLogger := logger.NewTestCtxLogger()
//	d := event.NewDispatcher(event.WithLogger(testLogger))
//	...
//	assert.True(t, testLogger.HasLog("WARN", "unrecognized filter phase"))
func NewTestCtxLogger() *TestCtxLogger {
	return &TestCtxLogger{
		state: &testLogState{logs: make([]LogEntry, 0)},
	}
}

func (t *TestCtxLogger) record(level string, ctx context.Context, msg string, fields []zap.Field) {
	merged := fields
	if len(t.preset) > 0 {
		merged = make([]zap.Field, 0, len(t.preset)+len(fields))
		merged = append(merged, t.preset...)
		merged = append(merged, fields...)
	}

	t.state.mu.Lock()
	defer t.state.mu.Unlock()

	t.state.logs = append(t.state.logs, LogEntry{
		Level:   level,
		Message: msg,
		TraceID: extractTraceIDFromContext(ctx, nil),
		Fields:  extractFieldsMap(merged),
	})
}

// InfoCtx records an info entry.
func (t *TestCtxLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record("INFO", ctx, msg, fields)
}

// ErrorCtx records an error entry.
func (t *TestCtxLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record("ERROR", ctx, msg, fields)
}

// DebugCtx records a debug entry.
func (t *TestCtxLogger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record("DEBUG", ctx, msg, fields)
}

// WarnCtx records a warn entry.
func (t *TestCtxLogger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record("WARN", ctx, msg, fields)
}

// With returns a logger carrying preset fields. The entry store stays
// shared so assertions see entries from every derived logger.
func (t *TestCtxLogger) With(fields ...zap.Field) *TestCtxLogger {
	preset := make([]zap.Field, 0, len(t.preset)+len(fields))
	preset = append(preset, t.preset...)
	preset = append(preset, fields...)
	return &TestCtxLogger{
		state:  t.state,
		preset: preset,
	}
}

// ============================================
// Assertion helpers
// ============================================

// HasLog reports whether an entry with the level and message exists.
func (t *TestCtxLogger) HasLog(level, message string) bool {
	t.state.mu.RLock()
	defer t.state.mu.RUnlock()

	for _, log := range t.state.logs {
		if log.Level == level && log.Message == message {
			return true
		}
	}
	return false
}

// HasLogWithTraceID reports whether an entry with the level, message and
// trace id exists.
func (t *TestCtxLogger) HasLogWithTraceID(level, message, traceID string) bool {
	t.state.mu.RLock()
	defer t.state.mu.RUnlock()

	for _, log := range t.state.logs {
		if log.Level == level && log.Message == message && log.TraceID == traceID {
			return true
		}
	}
	return false
}

// HasLogWithField reports whether an entry with the level, message and
// field value exists.
func (t *TestCtxLogger) HasLogWithField(level, message, fieldKey string, fieldValue interface{}) bool {
	t.state.mu.RLock()
	defer t.state.mu.RUnlock()

	for _, log := range t.state.logs {
		if log.Level == level && log.Message == message {
			if val, exists := log.Fields[fieldKey]; exists && val == fieldValue {
				return true
			}
		}
	}
	return false
}

// CountLogs counts entries at the given level.
func (t *TestCtxLogger) CountLogs(level string) int {
	t.state.mu.RLock()
	defer t.state.mu.RUnlock()

	count := 0
	for _, log := range t.state.logs {
		if log.Level == level {
			count++
		}
	}
	return count
}

// Logs returns a copy of every recorded entry.
func (t *TestCtxLogger) Logs() []LogEntry {
	t.state.mu.RLock()
	defer t.state.mu.RUnlock()

	logs := make([]LogEntry, len(t.state.logs))
	copy(logs, t.state.logs)
	return logs
}

// Clear drops all recorded entries.
func (t *TestCtxLogger) Clear() {
	t.state.mu.Lock()
	defer t.state.mu.Unlock()

	t.state.logs = make([]LogEntry, 0)
}

// extractFieldsMap renders zap fields into a plain map for assertions.
func extractFieldsMap(fields []zap.Field) map[string]interface{} {
	result := make(map[string]interface{}, len(fields))

	enc := zapcore.NewMapObjectEncoder()

	for _, field := range fields {
		field.AddTo(enc)
	}

	for k, v := range enc.Fields {
		result[k] = v
	}

	return result
}
