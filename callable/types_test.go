package callable

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== Resolve: string forms =====

func TestResolve_StringInstanceDelimiter(t *testing.T) {
	reg := NewTypes()

	c, err := reg.Resolve("Mailer->Send")
	require.NoError(t, err)
	assert.Equal(t, KindMethodOnName, c.Kind())
	assert.Equal(t, "Mailer", c.typeName)
	assert.Equal(t, "Send", c.methodName)
}

func TestResolve_StringStaticDelimiter(t *testing.T) {
	reg := NewTypes()

	c, err := reg.Resolve("Mailer::Send")
	require.NoError(t, err)
	assert.Equal(t, KindMethodOnName, c.Kind())
	assert.Equal(t, "Mailer", c.typeName)
	assert.Equal(t, "Send", c.methodName)
}

func TestResolve_StringPrefersInstanceDelimiter(t *testing.T) {
	reg := NewTypes()

	// "->" wins even when "::" appears first in the string
	c, err := reg.Resolve("Ns::Mailer->Send")
	require.NoError(t, err)
	assert.Equal(t, "Ns::Mailer", c.typeName)
	assert.Equal(t, "Send", c.methodName)

	c, err = reg.Resolve("Mailer->Send::Now")
	require.NoError(t, err)
	assert.Equal(t, "Mailer", c.typeName)
	assert.Equal(t, "Send::Now", c.methodName)
}

func TestResolve_StringSplitsOnFirstOccurrence(t *testing.T) {
	reg := NewTypes()

	c, err := reg.Resolve("A::B::C")
	require.NoError(t, err)
	assert.Equal(t, "A", c.typeName)
	assert.Equal(t, "B::C", c.methodName)
}

func TestResolve_BareRegisteredName(t *testing.T) {
	reg := NewTypes()
	require.NoError(t, reg.RegisterFunc("upper", strings.ToUpper))

	c, err := reg.Resolve("upper")
	require.NoError(t, err)
	assert.Equal(t, KindFunc, c.Kind())
	assert.Equal(t, "upper", c.String())
}

func TestResolve_BareUnknownName(t *testing.T) {
	reg := NewTypes()

	_, err := reg.Resolve("no_such_function")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCallback))
}

// ===== Resolve: other target encodings =====

func TestResolve_FuncValue(t *testing.T) {
	reg := NewTypes()

	c, err := reg.Resolve(func(name string) string { return "hello " + name })
	require.NoError(t, err)
	assert.Equal(t, KindFunc, c.Kind())
}

func TestResolve_NilFuncValue(t *testing.T) {
	reg := NewTypes()

	var fn func()
	_, err := reg.Resolve(fn)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCallback))
}

func TestResolve_MethodPairOnTypeName(t *testing.T) {
	reg := NewTypes()

	c, err := reg.Resolve(Method{On: "Mailer", Name: "Send"})
	require.NoError(t, err)
	assert.Equal(t, KindMethodOnName, c.Kind())
	assert.Equal(t, "Mailer", c.typeName)
}

func TestResolve_MethodPairOnInstance(t *testing.T) {
	reg := NewTypes()
	buf := &strings.Builder{}

	c, err := reg.Resolve(Method{On: buf, Name: "String"})
	require.NoError(t, err)
	assert.Equal(t, KindMethodOnInstance, c.Kind())
	assert.Same(t, buf, c.instance)
}

func TestResolve_MethodPairPointer(t *testing.T) {
	reg := NewTypes()

	c, err := reg.Resolve(&Method{On: "Mailer", Name: "Send"})
	require.NoError(t, err)
	assert.Equal(t, KindMethodOnName, c.Kind())
}

func TestResolve_MethodPairNilReceiver(t *testing.T) {
	reg := NewTypes()

	_, err := reg.Resolve(Method{On: nil, Name: "Send"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCallback))
}

func TestResolve_NilTarget(t *testing.T) {
	reg := NewTypes()

	_, err := reg.Resolve(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCallback))
}

func TestResolve_UnsupportedValue(t *testing.T) {
	reg := NewTypes()

	_, err := reg.Resolve(42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCallback))
}

func TestResolve_AlreadyNormalized(t *testing.T) {
	reg := NewTypes()

	first, err := reg.Resolve("Mailer->Send")
	require.NoError(t, err)

	second, err := reg.Resolve(first)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

// ===== String descriptions =====

func TestCallable_String(t *testing.T) {
	reg := NewTypes()

	named, err := reg.Resolve("Mailer->Send")
	require.NoError(t, err)
	assert.Equal(t, "Mailer::Send", named.String())

	buf := &strings.Builder{}
	onInstance, err := reg.Resolve(Method{On: buf, Name: "String"})
	require.NoError(t, err)
	assert.Equal(t, "*strings.Builder->String", onInstance.String())

	fn, err := reg.Resolve(strings.ToUpper)
	require.NoError(t, err)
	assert.Contains(t, fn.String(), "ToUpper")
}
