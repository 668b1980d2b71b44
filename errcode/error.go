// Package errcode implements layered error codes of the form MMBBBB:
// MM is a two-digit module code, BBBB a four-digit business code.
package errcode

import (
	"fmt"
	"net/http"
)

// LayeredError carries a stable numeric code alongside a human message,
// an i18n message key, an HTTP status mapping, context data and an
// optional wrapped cause. Instances are immutable: every With*/Wrap*
// method returns a clone.
type LayeredError struct {
	module     string
	code       int
	msgKey     string
	msg        string
	httpStatus int
	data       map[string]interface{}
	cause      error
}

// New builds a LayeredError. moduleCode occupies 10-99, businessCode
// 1-9999; the combined code is moduleCode*10000 + businessCode.
// httpStatus defaults to 200 when omitted.
func New(moduleCode, businessCode int, module, msgKey, msg string, httpStatus ...int) *LayeredError {
	code := moduleCode*10000 + businessCode
	status := http.StatusOK
	if len(httpStatus) > 0 {
		status = httpStatus[0]
	}
	return &LayeredError{
		module:     module,
		code:       code,
		msgKey:     msgKey,
		msg:        msg,
		httpStatus: status,
		data:       make(map[string]interface{}),
	}
}

func (e *LayeredError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Code returns the combined MMBBBB code.
func (e *LayeredError) Code() int {
	return e.code
}

// Module returns the owning module name.
func (e *LayeredError) Module() string {
	return e.module
}

// MsgKey returns the i18n message key.
func (e *LayeredError) MsgKey() string {
	return e.msgKey
}

// Message returns the current human-readable message.
func (e *LayeredError) Message() string {
	return e.msg
}

// HTTPStatus returns the mapped HTTP status code.
func (e *LayeredError) HTTPStatus() int {
	return e.httpStatus
}

// Data returns the attached context data.
func (e *LayeredError) Data() map[string]interface{} {
	return e.data
}

// Cause returns the wrapped error, if any.
func (e *LayeredError) Cause() error {
	return e.cause
}

// Unwrap supports errors.Is/errors.As chain traversal.
func (e *LayeredError) Unwrap() error {
	return e.cause
}

// WithMsg returns a clone with the message replaced.
func (e *LayeredError) WithMsg(msg string) *LayeredError {
	clone := *e
	clone.msg = msg
	return &clone
}

// WithMsgf returns a clone with a formatted replacement message.
func (e *LayeredError) WithMsgf(format string, args ...interface{}) *LayeredError {
	clone := *e
	clone.msg = fmt.Sprintf(format, args...)
	return &clone
}

// WithData returns a clone with one context entry added.
func (e *LayeredError) WithData(key string, value interface{}) *LayeredError {
	clone := *e
	clone.data = e.cloneData()
	clone.data[key] = value
	return &clone
}

// WithFields returns a clone with several context entries added.
func (e *LayeredError) WithFields(fields map[string]interface{}) *LayeredError {
	clone := *e
	clone.data = e.cloneData()
	for k, v := range fields {
		clone.data[k] = v
	}
	return &clone
}

// Wrap returns a clone carrying cause. A nil cause returns the receiver.
func (e *LayeredError) Wrap(cause error) *LayeredError {
	if cause == nil {
		return e
	}
	clone := *e
	clone.cause = cause
	return &clone
}

// Wrapf wraps cause and replaces the message in one step.
func (e *LayeredError) Wrapf(cause error, format string, args ...interface{}) *LayeredError {
	if cause == nil {
		return e.WithMsgf(format, args...)
	}
	clone := *e
	clone.cause = cause
	clone.msg = fmt.Sprintf(format, args...)
	return &clone
}

// Is matches two LayeredErrors by code, so clones produced by With*
// still compare equal to their registered original.
func (e *LayeredError) Is(target error) bool {
	t, ok := target.(*LayeredError)
	if !ok {
		return false
	}
	return e.code == t.code
}

func (e *LayeredError) cloneData() map[string]interface{} {
	data := make(map[string]interface{}, len(e.data))
	for k, v := range e.data {
		data[k] = v
	}
	return data
}

// WithHTTPStatus returns a clone with the HTTP status replaced.
func (e *LayeredError) WithHTTPStatus(status int) *LayeredError {
	clone := *e
	clone.httpStatus = status
	return &clone
}

// String renders the full error state for debugging.
func (e *LayeredError) String() string {
	if e.cause != nil {
		return fmt.Sprintf("LayeredError{code:%d, module:%s, msg:%s, cause:%v}",
			e.code, e.module, e.msg, e.cause)
	}
	return fmt.Sprintf("LayeredError{code:%d, module:%s, msg:%s}",
		e.code, e.module, e.msg)
}
