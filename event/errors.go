package event

import (
	"errors"
	"net/http"

	"github.com/cgslivre/flight/errcode"
)

// ErrStopChain stops the remaining filters of the current chain (not
// considered an error). A before chain stopped this way does not stop the
// target; an after chain stopped this way keeps the output produced so far.
var ErrStopChain = errors.New("stop filter chain")

// Module code
const (
	ModuleCode = 10 // event dispatch module code
)

// Error codes
const (
	// Event layer error codes: 10xxxx
	ErrCodeUnknownEvent  = 1
	ErrCodeInvalidFilter = 2
)

var (
	// ErrUnknownEvent dispatched name has no registered target
	ErrUnknownEvent = errcode.Register(errcode.New(
		ModuleCode, ErrCodeUnknownEvent,
		"event", "error.event.unknown_event", "unknown event",
		http.StatusNotFound,
	))

	// ErrInvalidFilter filter chain entry cannot be invoked; the whole
	// chain aborts at the offending position
	ErrInvalidFilter = errcode.Register(errcode.New(
		ModuleCode, ErrCodeInvalidFilter,
		"event", "error.event.invalid_filter", "invalid filter in chain",
		http.StatusInternalServerError,
	))
)
