package event

import (
	"context"
	"time"

	"github.com/cgslivre/flight/callable"
	"github.com/cgslivre/flight/logger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Dispatcher maps event names to targets, wraps dispatches in before and
// after filter chains, and resolves method targets through an optional
// dependency provider.
type Dispatcher interface {
	// Set registers target under name, replacing any previous target.
	Set(name string, target interface{})

	// Get returns the target exactly as registered, nil on miss.
	Get(name string) interface{}

	// Has reports whether name has a target.
	Has(name string) bool

	// Clear removes name's target and both its filter chains.
	Clear(name string)

	// Reset removes every target and every filter chain.
	Reset()

	// Hook appends filter to the (name, phase) chain.
	Hook(name string, phase Phase, filter interface{})

	// Run dispatches name: before filters, target invocation, after
	// filters, final output.
	Run(ctx context.Context, name string, params ...interface{}) (interface{}, error)

	// Execute resolves and invokes target directly, without a registered
	// name and without filters.
	Execute(ctx context.Context, target interface{}, params ...interface{}) (interface{}, error)

	// SetContainerHandler installs or replaces the dependency provider
	// consulted for method targets.
	SetContainerHandler(provider interface{}) error
}

// dispatcher is the Dispatcher implementation.
type dispatcher struct {
	registry    *Registry
	types       *callable.Types
	invoker     *callable.Invoker
	logger      Logger
	metrics     *Metrics
	tracer      trace.Tracer
	logDispatch bool
}

// NewDispatcher creates a dispatcher. Without options it gets a fresh
// registry, the package-default callable type registry, and the module
// logger; collaborators are injected through options, never read from
// globals afterwards.
func NewDispatcher(opts ...DispatcherOption) *dispatcher {
	d := &dispatcher{
		logger: logger.GetLogger("flight"),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.types == nil {
		if d.registry != nil {
			d.types = d.registry.Types()
		} else {
			d.types = callable.Default()
		}
	}
	if d.registry == nil {
		d.registry = NewRegistryWithTypes(d.types)
		d.registry.SetLogger(d.logger)
	}
	d.invoker = callable.NewInvoker(d.types)

	return d
}

// Set registers target under name (last write wins).
func (d *dispatcher) Set(name string, target interface{}) {
	d.registry.Set(name, target)
}

// Get returns the target exactly as registered, nil on miss.
func (d *dispatcher) Get(name string) interface{} {
	return d.registry.Get(name)
}

// Has reports whether name has a target.
func (d *dispatcher) Has(name string) bool {
	return d.registry.Has(name)
}

// Clear removes name's target and both its filter chains.
func (d *dispatcher) Clear(name string) {
	d.registry.Clear(name)
}

// Reset removes every target and every filter chain.
func (d *dispatcher) Reset() {
	d.registry.Reset()
}

// Hook appends filter to the (name, phase) chain.
func (d *dispatcher) Hook(name string, phase Phase, filter interface{}) {
	d.registry.Hook(name, phase, filter)
}

// Registry returns the backing registry, shareable across dispatchers.
func (d *dispatcher) Registry() *Registry {
	return d.registry
}

// FilterCount returns the number of filters hooked for (name, phase).
func (d *dispatcher) FilterCount(name string, phase Phase) int {
	return d.registry.FilterCount(name, phase)
}

// Run dispatches the named event. It is synchronous on the caller's
// goroutine and re-entrant: a target may itself call Run for another name,
// since every per-dispatch value is local to the call.
func (d *dispatcher) Run(ctx context.Context, name string, params ...interface{}) (interface{}, error) {
	start := time.Now()

	var dispatchID string
	if d.logDispatch || d.tracer != nil {
		dispatchID = uuid.NewString()
	}

	var span trace.Span
	if d.tracer != nil {
		ctx, span = d.tracer.Start(ctx, "event.run "+name,
			trace.WithAttributes(
				attribute.String("event.name", name),
				attribute.String("event.dispatch_id", dispatchID)))
		defer span.End()
	}

	if d.logDispatch {
		d.logger.DebugCtx(ctx, "dispatching event",
			zap.String("event", name),
			zap.String("dispatch_id", dispatchID),
			zap.Int("params", len(params)))
	}

	output, status, err := d.dispatch(ctx, name, &Invocation{Params: params})

	if d.metrics != nil {
		d.metrics.RecordDispatch(ctx, name, status, time.Since(start))
	}

	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}

	if d.logDispatch {
		if err != nil {
			d.logger.DebugCtx(ctx, "event dispatch failed",
				zap.String("event", name),
				zap.String("dispatch_id", dispatchID),
				zap.String("status", status),
				zap.Error(err))
		} else {
			d.logger.DebugCtx(ctx, "event dispatched",
				zap.String("event", name),
				zap.String("dispatch_id", dispatchID),
				zap.Duration("duration", time.Since(start)))
		}
	}

	return output, err
}

// dispatch runs the before -> target -> after sequence. status feeds the
// dispatch counter attributes.
func (d *dispatcher) dispatch(ctx context.Context, name string, inv *Invocation) (interface{}, string, error) {
	// Before filters run ahead of the target lookup: a name with filters
	// but no target still runs its before chain. Their short-circuit only
	// skips sibling filters, never the target.
	halted, err := d.runFilters(ctx, name, PhaseBefore, inv)
	if err != nil {
		return nil, statusFilterError, err
	}
	if halted && d.metrics != nil {
		d.metrics.RecordFilterHalt(ctx, name, PhaseBefore)
	}

	target, ok, err := d.registry.resolveTarget(name)
	if !ok {
		return nil, statusUnknownEvent, ErrUnknownEvent.WithData("event", name)
	}
	if err != nil {
		return nil, statusTargetError, err
	}

	output, err := d.invoker.Invoke(ctx, target, inv.Params)
	if err != nil {
		// A failed target propagates as-is; after filters never run.
		return nil, statusTargetError, err
	}
	inv.Output = output

	halted, err = d.runFilters(ctx, name, PhaseAfter, inv)
	if err != nil {
		return nil, statusFilterError, err
	}
	if halted && d.metrics != nil {
		d.metrics.RecordFilterHalt(ctx, name, PhaseAfter)
	}

	return inv.Output, statusOK, nil
}

// Execute resolves and invokes target directly: no registered name, no
// filter chains. Method targets on named types construct one instance per
// call when no provider supplies one.
func (d *dispatcher) Execute(ctx context.Context, target interface{}, params ...interface{}) (interface{}, error) {
	c, err := d.types.Resolve(target)
	if err != nil {
		return nil, err
	}
	return d.invoker.Invoke(ctx, c, params)
}

// SetContainerHandler installs or replaces the single dependency provider.
// provider is either lookup-style (callable.Container) or factory-style
// (callable.Factory or a bare func of that shape); anything else fails
// with callable.ErrInvalidProvider. The previous provider is discarded.
func (d *dispatcher) SetContainerHandler(provider interface{}) error {
	handler, err := callable.NewHandler(provider)
	if err != nil {
		return err
	}
	d.invoker.SetHandler(handler)
	return nil
}
