package event

import (
	"context"
	"errors"
)

// Filter is the canonical filter shape. Returning nil continues the chain,
// ErrStopChain stops the remaining filters of this chain only, and any
// other error aborts the dispatch.
//
// Hook also accepts:
//
//	func(*Invocation) error
//	func(*Invocation)
//
// plus every target encoding Set accepts (string forms, callable.Method
// pairs, arbitrary funcs); those run reflectively with the *Invocation as
// their argument, and a literal false return value short-circuits like
// ErrStopChain.
type Filter func(ctx context.Context, inv *Invocation) error

// coerceFilter adapts a hooked value to the canonical Filter shape. The
// second return is false for entries that cannot be invoked at all.
func (d *dispatcher) coerceFilter(raw interface{}) (Filter, bool) {
	switch f := raw.(type) {
	case nil:
		return nil, false
	case Filter:
		return f, true
	case func(context.Context, *Invocation) error:
		return f, true
	case func(*Invocation) error:
		return func(_ context.Context, inv *Invocation) error {
			return f(inv)
		}, true
	case func(*Invocation):
		return func(_ context.Context, inv *Invocation) error {
			f(inv)
			return nil
		}, true
	}

	c, err := d.types.Resolve(raw)
	if err != nil {
		return nil, false
	}

	return func(ctx context.Context, inv *Invocation) error {
		out, err := d.invoker.Invoke(ctx, c, []interface{}{inv})
		if err != nil {
			return err
		}
		if stop, ok := out.(bool); ok && !stop {
			return ErrStopChain
		}
		return nil
	}, true
}

// runFilters executes the (name, phase) chain in registration order against
// inv. halted reports an ErrStopChain (or literal false) short-circuit; the
// skipped siblings are not an error. A non-invocable entry aborts the whole
// chain with ErrInvalidFilter carrying its zero-based position. Errors from
// filter bodies propagate unchanged.
func (d *dispatcher) runFilters(ctx context.Context, name string, phase Phase, inv *Invocation) (halted bool, err error) {
	chain := d.registry.Filters(name, phase)

	for i, raw := range chain {
		fn, ok := d.coerceFilter(raw)
		if !ok {
			return false, ErrInvalidFilter.WithFields(map[string]interface{}{
				"event":    name,
				"phase":    phase.String(),
				"position": i,
			})
		}

		if err := fn(ctx, inv); err != nil {
			if errors.Is(err, ErrStopChain) {
				return true, nil
			}
			return false, err
		}
	}

	return false, nil
}
