// Package callable normalizes dispatch targets into an invocable form.
//
// A target may be a plain function value, a Method pair binding a method
// name to a registered type name or a live instance, a string of the form
// "Type::Method" / "Type->Method", or the bare name of a function
// registered in a Types registry. Normalization happens once, at
// registration or on first use; dispatch never re-parses strings.
package callable

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Kind discriminates the normalized target forms.
type Kind int

const (
	// KindFunc plain function or closure
	KindFunc Kind = iota + 1
	// KindMethodOnName method on a registered type name, instance
	// materialized at invoke time
	KindMethodOnName
	// KindMethodOnInstance method on an already-live instance
	KindMethodOnInstance
)

// Method binds a method name to its receiver side. On is either a type
// name (string) registered via RegisterType or a live instance.
type Method struct {
	On   interface{}
	Name string
}

// Callable is a normalized invocation target. Obtain one through Resolve;
// the zero value is not usable.
type Callable struct {
	kind       Kind
	fn         reflect.Value // KindFunc
	name       string        // KindFunc resolved from a registered bare name
	typeName   string        // KindMethodOnName
	instance   interface{}   // KindMethodOnInstance
	methodName string
}

// Kind returns the normalized form.
func (c *Callable) Kind() Kind {
	return c.kind
}

// String describes the target for logs and diagnostics.
func (c *Callable) String() string {
	switch c.kind {
	case KindFunc:
		if c.name != "" {
			return c.name
		}
		return funcName(c.fn)
	case KindMethodOnName:
		return c.typeName + "::" + c.methodName
	case KindMethodOnInstance:
		return fmt.Sprintf("%T->%s", c.instance, c.methodName)
	}
	return "invalid callable"
}

// Resolve normalizes target using the default registry.
func Resolve(target interface{}) (*Callable, error) {
	return Default().Resolve(target)
}

// Resolve normalizes target into a Callable. Strings containing a
// delimiter are split into a (type, method) pair on the first delimiter
// found, instance-style "->" taking precedence over static-style "::";
// both forms invoke identically. A bare string must name a function
// registered via RegisterFunc. Nil and non-func values fail with
// ErrInvalidCallback.
func (t *Types) Resolve(target interface{}) (*Callable, error) {
	switch v := target.(type) {
	case nil:
		return nil, ErrInvalidCallback.WithData("reason", "nil target")
	case *Callable:
		return v, nil
	case string:
		if typeName, methodName, ok := splitTypeMethod(v); ok {
			return &Callable{kind: KindMethodOnName, typeName: typeName, methodName: methodName}, nil
		}
		if fn, ok := t.lookupFuncValue(v); ok {
			return &Callable{kind: KindFunc, fn: fn, name: v}, nil
		}
		return nil, ErrInvalidCallback.WithData("callback", v)
	case Method:
		return resolveMethod(v)
	case *Method:
		return resolveMethod(*v)
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() == reflect.Func {
		if rv.IsNil() {
			return nil, ErrInvalidCallback.WithData("reason", "nil function")
		}
		return &Callable{kind: KindFunc, fn: rv}, nil
	}

	return nil, ErrInvalidCallback.WithData("type", fmt.Sprintf("%T", target))
}

func resolveMethod(m Method) (*Callable, error) {
	switch on := m.On.(type) {
	case nil:
		return nil, ErrInvalidCallback.WithData("reason", "method without receiver")
	case string:
		return &Callable{kind: KindMethodOnName, typeName: on, methodName: m.Name}, nil
	default:
		return &Callable{kind: KindMethodOnInstance, instance: m.On, methodName: m.Name}, nil
	}
}

// splitTypeMethod splits "Type->Method" / "Type::Method" at the first
// delimiter, preferring the instance-style form when both occur.
func splitTypeMethod(s string) (typeName, methodName string, ok bool) {
	if i := strings.Index(s, "->"); i >= 0 {
		return s[:i], s[i+2:], true
	}
	if i := strings.Index(s, "::"); i >= 0 {
		return s[:i], s[i+2:], true
	}
	return "", "", false
}

func funcName(fn reflect.Value) string {
	if f := runtime.FuncForPC(fn.Pointer()); f != nil {
		return f.Name()
	}
	return fn.Type().String()
}
