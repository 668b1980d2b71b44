package callable

import (
	"fmt"
	"reflect"
	"sync"
)

// Types maps type names to constructors and bare names to functions, so
// string-encoded targets can be resolved without run-time scanning. A
// constructor's required-argument count is recorded once at registration;
// invocation never re-inspects it.
type Types struct {
	mu    sync.RWMutex
	types map[string]*typeEntry
	funcs map[string]reflect.Value
	names map[reflect.Type]string
}

type typeEntry struct {
	name         string
	ctor         reflect.Value
	requiredArgs int
}

// NewTypes creates an empty registry.
func NewTypes() *Types {
	return &Types{
		types: make(map[string]*typeEntry),
		funcs: make(map[string]reflect.Value),
		names: make(map[reflect.Type]string),
	}
}

var defaultTypes = NewTypes()

// Default returns the process-wide registry used when a dispatcher is not
// given its own.
func Default() *Types {
	return defaultTypes
}

// RegisterType binds name to a constructor function returning the
// instance, optionally with a trailing error. Re-registering a name
// replaces the previous binding (last write wins).
func (t *Types) RegisterType(name string, constructor interface{}) error {
	if name == "" {
		return fmt.Errorf("type name is required")
	}

	cv := reflect.ValueOf(constructor)
	if !cv.IsValid() || cv.Kind() != reflect.Func || cv.IsNil() {
		return fmt.Errorf("register type %s: constructor must be a non-nil function", name)
	}

	ct := cv.Type()
	if ct.NumOut() == 0 || ct.NumOut() > 2 {
		return fmt.Errorf("register type %s: constructor must return the instance, optionally with an error", name)
	}
	if ct.NumOut() == 2 && ct.Out(1) != errorType {
		return fmt.Errorf("register type %s: constructor's second return value must be error", name)
	}

	required := ct.NumIn()
	if ct.IsVariadic() {
		required--
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.types[name] = &typeEntry{name: name, ctor: cv, requiredArgs: required}

	out := ct.Out(0)
	t.names[out] = name
	if out.Kind() == reflect.Ptr {
		t.names[out.Elem()] = name
	}

	return nil
}

// RegisterFunc binds a bare name to a function so it can be used as a
// string-encoded target. Last write wins.
func (t *Types) RegisterFunc(name string, fn interface{}) error {
	if name == "" {
		return fmt.Errorf("function name is required")
	}

	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func || fv.IsNil() {
		return fmt.Errorf("register func %s: fn must be a non-nil function", name)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.funcs[name] = fv

	return nil
}

// LookupType returns the constructor registered for name.
func (t *Types) LookupType(name string) (interface{}, bool) {
	entry, ok := t.lookupEntry(name)
	if !ok {
		return nil, false
	}
	return entry.ctor.Interface(), true
}

// LookupFunc returns the function registered under a bare name.
func (t *Types) LookupFunc(name string) (interface{}, bool) {
	fv, ok := t.lookupFuncValue(name)
	if !ok {
		return nil, false
	}
	return fv.Interface(), true
}

// TypeNameFor reverse-maps a Go type to its registered name. Both the
// constructor's return type and, for pointer returns, the element type
// are recognized.
func (t *Types) TypeNameFor(rt reflect.Type) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	name, ok := t.names[rt]
	return name, ok
}

// Reset removes every registered type and function.
func (t *Types) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.types = make(map[string]*typeEntry)
	t.funcs = make(map[string]reflect.Value)
	t.names = make(map[reflect.Type]string)
}

func (t *Types) lookupEntry(name string) (*typeEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entry, ok := t.types[name]
	return entry, ok
}

func (t *Types) lookupFuncValue(name string) (reflect.Value, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	fv, ok := t.funcs[name]
	return fv, ok
}

// RegisterType binds name to a constructor in the default registry.
func RegisterType(name string, constructor interface{}) error {
	return defaultTypes.RegisterType(name, constructor)
}

// RegisterFunc binds a bare name to a function in the default registry.
func RegisterFunc(name string, fn interface{}) error {
	return defaultTypes.RegisterFunc(name, fn)
}

// Reset wipes the default registry.
func Reset() {
	defaultTypes.Reset()
}
