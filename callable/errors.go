package callable

import (
	"net/http"

	"github.com/cgslivre/flight/errcode"
)

// Module code
const (
	ModuleCode = 11 // callable resolution module code
)

// Error codes
const (
	// Callable layer error codes: 11xxxx
	ErrCodeInvalidCallback   = 1
	ErrCodeUncallableStatic  = 2
	ErrCodeUnresolvableClass = 3
	ErrCodeMethodNotFound    = 4
	ErrCodeArgumentMismatch  = 5
	ErrCodeInvalidProvider   = 6
)

var (
	// ErrInvalidCallback target string is neither a parseable class/method
	// pair nor a registered function name
	ErrInvalidCallback = errcode.Register(errcode.New(
		ModuleCode, ErrCodeInvalidCallback,
		"callable", "error.callable.invalid_callback", "invalid callback",
		http.StatusInternalServerError,
	))

	// ErrUncallableStatic named type's constructor requires arguments and
	// no provider supplied an instance
	ErrUncallableStatic = errcode.Register(errcode.New(
		ModuleCode, ErrCodeUncallableStatic,
		"callable", "error.callable.uncallable_static", "type constructor requires arguments",
		http.StatusInternalServerError,
	))

	// ErrUnresolvableClass type identifier matches no registered type and
	// no provider resolved it
	ErrUnresolvableClass = errcode.Register(errcode.New(
		ModuleCode, ErrCodeUnresolvableClass,
		"callable", "error.callable.unresolvable_class", "unresolvable type identifier",
		http.StatusInternalServerError,
	))

	// ErrMethodNotFound resolved instance has no such exported method
	ErrMethodNotFound = errcode.Register(errcode.New(
		ModuleCode, ErrCodeMethodNotFound,
		"callable", "error.callable.method_not_found", "method not found",
		http.StatusInternalServerError,
	))

	// ErrArgumentMismatch params cannot be spread onto the target signature
	ErrArgumentMismatch = errcode.Register(errcode.New(
		ModuleCode, ErrCodeArgumentMismatch,
		"callable", "error.callable.argument_mismatch", "argument mismatch",
		http.StatusInternalServerError,
	))

	// ErrInvalidProvider dependency provider is neither lookup-style nor
	// factory-style
	ErrInvalidProvider = errcode.Register(errcode.New(
		ModuleCode, ErrCodeInvalidProvider,
		"callable", "error.callable.invalid_provider", "invalid dependency provider",
		http.StatusInternalServerError,
	))
)
