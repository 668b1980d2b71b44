package registry

import (
	"context"

	"go.uber.org/zap"

	"github.com/cgslivre/flight/component"
	"github.com/cgslivre/flight/logger"
)

// ComponentInjector pulls components out of a Registry and hands them to
// consumers, collapsing the lookup/type-assert/nil-check boilerplate.
type ComponentInjector struct {
	registry *Registry
	logger   *logger.CtxZapLogger
}

// NewInjector creates a component injector.
func NewInjector(r *Registry, l *logger.CtxZapLogger) *ComponentInjector {
	return &ComponentInjector{registry: r, logger: l}
}

// IsValid reports whether the injector has a registry to read from.
func (i *ComponentInjector) IsValid() bool {
	return i.registry != nil
}

// Inject looks up a component and passes it to injector when it exists,
// is non-nil, and passes the optional checker.
//
// Example:
//
//	inj := registry.NewInjector(reg, log)
//	registry.Inject(inj, ctx, component.ComponentEvent,
//	    func(ec *event.Component) bool { return ec.IsEnabled() },
//	    func(ec *event.Component) { dispatcher = ec.GetDispatcher() },
//	)
func Inject[T component.Component](
	i *ComponentInjector,
	ctx context.Context,
	name string,
	checker func(T) bool,
	injector func(T),
) bool {
	if i.registry == nil {
		return false
	}

	comp, ok := GetTyped[T](i.registry, name)
	if !ok {
		i.logger.DebugCtx(ctx, "Component not found", zap.String("name", name))
		return false
	}

	// T may be a pointer type holding nil
	if any(comp) == nil {
		i.logger.DebugCtx(ctx, "Component is nil", zap.String("name", name))
		return false
	}

	if checker != nil && !checker(comp) {
		i.logger.DebugCtx(ctx, "Component check failed", zap.String("name", name))
		return false
	}

	injector(comp)
	i.logger.DebugCtx(ctx, "✅ Component injected", zap.String("name", name))
	return true
}

// InjectWithResult looks up a component and extracts a value from it.
func InjectWithResult[T component.Component, R any](
	i *ComponentInjector,
	ctx context.Context,
	name string,
	checker func(T) bool,
	extractor func(T) R,
) (R, bool) {
	var zero R

	if i.registry == nil {
		return zero, false
	}

	comp, ok := GetTyped[T](i.registry, name)
	if !ok {
		i.logger.DebugCtx(ctx, "Component not found", zap.String("name", name))
		return zero, false
	}

	if any(comp) == nil {
		i.logger.DebugCtx(ctx, "Component is nil", zap.String("name", name))
		return zero, false
	}

	if checker != nil && !checker(comp) {
		i.logger.DebugCtx(ctx, "Component check failed", zap.String("name", name))
		return zero, false
	}

	result := extractor(comp)
	i.logger.DebugCtx(ctx, "✅ Component value extracted", zap.String("name", name))
	return result, true
}
