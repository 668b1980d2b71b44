package callable

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// modulePathPrefix marks instances belonging to this module's own
// packages; those bypass external dependency resolution so a provider
// can never intercept the framework's internal object graph.
const modulePathPrefix = "github.com/cgslivre/flight"

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Invoker executes normalized callables, materializing method receivers
// through the configured dependency Handler when one is set. At most one
// handler is active; SetHandler replaces it.
type Invoker struct {
	types *Types

	mu      sync.RWMutex
	handler Handler
}

// NewInvoker creates an invoker resolving type names through types, or
// the default registry when nil.
func NewInvoker(types *Types) *Invoker {
	if types == nil {
		types = Default()
	}
	return &Invoker{types: types}
}

// SetHandler installs or replaces the dependency handler. A nil handler
// removes the current one.
func (inv *Invoker) SetHandler(h Handler) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.handler = h
}

func (inv *Invoker) getHandler() Handler {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.handler
}

// Types returns the registry this invoker resolves type names through.
func (inv *Invoker) Types() *Types {
	return inv.types
}

// Invoke executes c with params spread positionally. When the target's
// first parameter is context.Context, ctx is injected ahead of params.
// A trailing error return is separated from the output; multiple
// non-error returns yield []interface{}.
func (inv *Invoker) Invoke(ctx context.Context, c *Callable, params []interface{}) (interface{}, error) {
	if c == nil {
		return nil, ErrInvalidCallback.WithData("reason", "nil callable")
	}

	switch c.kind {
	case KindFunc:
		return call(ctx, c.fn, params)
	case KindMethodOnInstance:
		return inv.invokeOnInstance(ctx, c, params)
	case KindMethodOnName:
		return inv.invokeOnName(ctx, c, params)
	}

	return nil, ErrInvalidCallback.WithData("kind", int(c.kind))
}

// invokeOnInstance calls the method on a live receiver. Non-framework
// instances are offered to the handler first; a handler-supplied
// instance replaces the given one, a decline keeps it.
func (inv *Invoker) invokeOnInstance(ctx context.Context, c *Callable, params []interface{}) (interface{}, error) {
	instance := c.instance

	if !isFrameworkInternal(reflect.TypeOf(instance)) {
		if handler := inv.getHandler(); handler != nil {
			resolved, ok, err := handler.Resolve(ctx, inv.typeIdentifier(reflect.TypeOf(instance)), params)
			if err != nil {
				return nil, err
			}
			if ok && resolved != nil {
				instance = resolved
			}
		}
	}

	return invokeMethod(ctx, instance, c.methodName, params)
}

// invokeOnName materializes the receiver for a named type, consulting
// the handler first and falling back to the registered zero-argument
// constructor.
func (inv *Invoker) invokeOnName(ctx context.Context, c *Callable, params []interface{}) (interface{}, error) {
	var instance interface{}

	if handler := inv.getHandler(); handler != nil {
		resolved, ok, err := handler.Resolve(ctx, c.typeName, params)
		if err != nil {
			return nil, err
		}
		if ok && resolved != nil {
			instance = resolved
		}
	}

	if instance == nil {
		built, err := inv.construct(c.typeName)
		if err != nil {
			return nil, err
		}
		instance = built
	}

	return invokeMethod(ctx, instance, c.methodName, params)
}

// construct builds an instance of the named type through its registered
// constructor. Invocation params are reserved for the method, never the
// constructor, so a constructor with required arguments cannot be used
// here.
func (inv *Invoker) construct(name string) (interface{}, error) {
	entry, ok := inv.types.lookupEntry(name)
	if !ok {
		return nil, ErrUnresolvableClass.WithData("class", name)
	}

	if entry.requiredArgs > 0 {
		return nil, ErrUncallableStatic.WithFields(map[string]interface{}{
			"class":         name,
			"required_args": entry.requiredArgs,
		})
	}

	out := entry.ctor.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}

	return out[0].Interface(), nil
}

// typeIdentifier names an instance's type for provider consultation:
// the registered name when known, the bare Go type name otherwise.
func (inv *Invoker) typeIdentifier(t reflect.Type) string {
	if name, ok := inv.types.TypeNameFor(t); ok {
		return name
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

func isFrameworkInternal(t reflect.Type) bool {
	if t == nil {
		return false
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	pkg := t.PkgPath()
	return pkg == modulePathPrefix || strings.HasPrefix(pkg, modulePathPrefix+"/")
}

// invokeMethod resolves methodName on instance and invokes it.
func invokeMethod(ctx context.Context, instance interface{}, methodName string, params []interface{}) (interface{}, error) {
	if instance == nil {
		return nil, ErrMethodNotFound.WithData("method", methodName)
	}

	v := reflect.ValueOf(instance)
	m := v.MethodByName(methodName)
	if !m.IsValid() && v.Kind() != reflect.Ptr {
		// a value copy gains access to pointer-receiver methods through
		// an addressable copy
		pv := reflect.New(v.Type())
		pv.Elem().Set(v)
		m = pv.MethodByName(methodName)
	}
	if !m.IsValid() {
		return nil, ErrMethodNotFound.WithFields(map[string]interface{}{
			"type":   fmt.Sprintf("%T", instance),
			"method": methodName,
		})
	}

	return call(ctx, m, params)
}

// call spreads params onto fn positionally, injecting ctx when the first
// parameter is context.Context, and maps the results per Invoke's
// contract. Signature mismatches fail with ErrArgumentMismatch instead
// of panicking.
func call(ctx context.Context, fn reflect.Value, params []interface{}) (interface{}, error) {
	ft := fn.Type()

	offset := 0
	if ft.NumIn() > 0 && ft.In(0) == contextType {
		offset = 1
	}

	fixed := ft.NumIn() - offset
	if ft.IsVariadic() {
		if len(params) < fixed-1 {
			return nil, argumentMismatch(ft, fixed-1, len(params))
		}
	} else if len(params) != fixed {
		return nil, argumentMismatch(ft, fixed, len(params))
	}

	args := make([]reflect.Value, 0, len(params)+offset)
	if offset == 1 {
		if ctx == nil {
			ctx = context.Background()
		}
		args = append(args, reflect.ValueOf(ctx))
	}

	for i, p := range params {
		want := paramType(ft, i+offset)
		av, ok := conform(p, want)
		if !ok {
			return nil, ErrArgumentMismatch.WithFields(map[string]interface{}{
				"signature": ft.String(),
				"position":  i,
				"want":      want.String(),
				"got":       fmt.Sprintf("%T", p),
			})
		}
		args = append(args, av)
	}

	return splitResults(fn.Call(args))
}

func argumentMismatch(ft reflect.Type, want, got int) error {
	return ErrArgumentMismatch.WithFields(map[string]interface{}{
		"signature": ft.String(),
		"want":      want,
		"got":       got,
	})
}

// paramType returns the declared type of argument i, unrolling the
// variadic tail to its element type.
func paramType(ft reflect.Type, i int) reflect.Type {
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}
	return ft.In(i)
}

// conform adapts one param to the declared argument type. Nil params map
// to the zero value of nilable kinds only.
func conform(p interface{}, want reflect.Type) (reflect.Value, bool) {
	if p == nil {
		switch want.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
			return reflect.Zero(want), true
		}
		return reflect.Value{}, false
	}

	v := reflect.ValueOf(p)
	if v.Type().AssignableTo(want) {
		return v, true
	}

	return reflect.Value{}, false
}

// splitResults separates a trailing error return from the output values.
func splitResults(results []reflect.Value) (interface{}, error) {
	var err error
	if n := len(results); n > 0 && results[n-1].Type() == errorType {
		if last := results[n-1]; !last.IsNil() {
			err = last.Interface().(error)
		}
		results = results[:n-1]
	}

	switch len(results) {
	case 0:
		return nil, err
	case 1:
		return results[0].Interface(), err
	}

	out := make([]interface{}, len(results))
	for i, r := range results {
		out[i] = r.Interface()
	}
	return out, err
}
