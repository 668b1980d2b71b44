package callable

import (
	"context"
	"fmt"
)

// Container is the lookup-style dependency provider: Has reports whether
// the container can supply the identified type, Get fetches the
// instance. Get is only consulted after Has reports true; it receives no
// invocation params.
type Container interface {
	Has(id string) bool
	Get(id string) (interface{}, error)
}

// Factory is the factory-style dependency provider. params are the
// invocation arguments, offered as candidate constructor arguments. A
// nil instance with a nil error means the factory declines and direct
// construction should be attempted.
type Factory func(ctx context.Context, id string, params []interface{}) (interface{}, error)

// Handler resolves type identifiers through the active dependency
// provider. ok reports whether the provider produced an instance; false
// means it declined.
type Handler interface {
	Resolve(ctx context.Context, id string, params []interface{}) (instance interface{}, ok bool, err error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, id string, params []interface{}) (interface{}, bool, error)

// Resolve calls f.
func (f HandlerFunc) Resolve(ctx context.Context, id string, params []interface{}) (interface{}, bool, error) {
	return f(ctx, id, params)
}

// NewHandler wraps a user-supplied dependency provider in a Handler.
// Accepted shapes: a Container implementation, a Factory, or a bare
// function of either factory signature (with or without context). A
// value satisfying both shapes resolves lookup-style; anything else
// fails with ErrInvalidProvider.
func NewHandler(provider interface{}) (Handler, error) {
	switch p := provider.(type) {
	case nil:
		return nil, ErrInvalidProvider.WithData("reason", "nil provider")
	case Handler:
		return p, nil
	case Container:
		return &containerHandler{container: p}, nil
	case Factory:
		return &factoryHandler{factory: p}, nil
	case func(context.Context, string, []interface{}) (interface{}, error):
		return &factoryHandler{factory: p}, nil
	case func(string, []interface{}) (interface{}, error):
		return &factoryHandler{factory: func(ctx context.Context, id string, params []interface{}) (interface{}, error) {
			return p(id, params)
		}}, nil
	}

	return nil, ErrInvalidProvider.WithData("type", fmt.Sprintf("%T", provider))
}

// containerHandler resolves through a lookup-style Container. Exactly
// one of Has/Get's paths runs per call; params never reach the getter.
type containerHandler struct {
	container Container
}

func (h *containerHandler) Resolve(ctx context.Context, id string, _ []interface{}) (interface{}, bool, error) {
	if !h.container.Has(id) {
		return nil, false, nil
	}

	instance, err := h.container.Get(id)
	if err != nil {
		return nil, false, err
	}
	return instance, true, nil
}

// factoryHandler resolves through a factory-style callable. A nil
// instance means decline.
type factoryHandler struct {
	factory Factory
}

func (h *factoryHandler) Resolve(ctx context.Context, id string, params []interface{}) (interface{}, bool, error) {
	instance, err := h.factory(ctx, id, params)
	if err != nil {
		return nil, false, err
	}
	if instance == nil {
		return nil, false, nil
	}
	return instance, true, nil
}
