package event

import (
	"context"

	"github.com/cgslivre/flight/callable"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Logger is the diagnostic logging contract the dispatcher and registry
// write through. Both *logger.CtxZapLogger and the in-memory
// logger.TestCtxLogger satisfy it.
type Logger interface {
	DebugCtx(ctx context.Context, msg string, fields ...zap.Field)
	InfoCtx(ctx context.Context, msg string, fields ...zap.Field)
	WarnCtx(ctx context.Context, msg string, fields ...zap.Field)
	ErrorCtx(ctx context.Context, msg string, fields ...zap.Field)
}

// DispatcherOption configures the dispatcher at construction time.
type DispatcherOption func(*dispatcher)

// WithLogger sets the dispatcher's logger. Registries the dispatcher
// creates itself share it; an injected registry keeps its own.
func WithLogger(l Logger) DispatcherOption {
	return func(d *dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithRegistry injects an existing registry so several dispatchers can
// share one registration set.
func WithRegistry(r *Registry) DispatcherOption {
	return func(d *dispatcher) {
		d.registry = r
	}
}

// WithTypes sets the callable type registry consulted for string targets
// and named-type construction. Without it the dispatcher adopts the
// injected registry's types, or the package default.
func WithTypes(t *callable.Types) DispatcherOption {
	return func(d *dispatcher) {
		d.types = t
	}
}

// WithMetrics attaches dispatch instrumentation. Records are dropped until
// the instruments are registered with a meter.
func WithMetrics(m *Metrics) DispatcherOption {
	return func(d *dispatcher) {
		d.metrics = m
	}
}

// WithTracer enables one span per Run call.
func WithTracer(t trace.Tracer) DispatcherOption {
	return func(d *dispatcher) {
		d.tracer = t
	}
}

// WithDispatchLogging toggles debug logs at dispatch begin and end, each
// carrying the dispatch id.
func WithDispatchLogging(v bool) DispatcherOption {
	return func(d *dispatcher) {
		d.logDispatch = v
	}
}
