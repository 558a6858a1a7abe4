// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error types and error handling utilities for osthread.

package api

import (
	"errors"
	"fmt"
	"syscall"
)

// Common errors used across the library. Structured errors returned by the
// thread package match one of these through errors.Is.
var (
	ErrCreation          = errors.New("thread creation failed")
	ErrPriority          = errors.New("thread priority could not be applied")
	ErrInvalidOperation  = errors.New("invalid operation on thread handle")
	ErrNotJoinable       = fmt.Errorf("%w: thread not joinable", ErrInvalidOperation)
	ErrNotDetachable     = fmt.Errorf("%w: thread not detachable", ErrInvalidOperation)
	ErrEmptyHandle       = fmt.Errorf("%w: empty thread handle", ErrInvalidOperation)
	ErrInvalidCallable   = errors.New("callable does not match arguments")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrOperationTimeout  = errors.New("operation timeout")
	ErrNotSupported      = errors.New("operation not supported")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeCreation
	ErrCodePriority
	ErrCodeNotJoinable
	ErrCodeNotDetachable
	ErrCodeEmptyHandle
	ErrCodeInvalidArgument
	ErrCodeResourceExhausted
	ErrCodeTimeout
	ErrCodeNotSupported
)

var codeNames = [...]string{
	ErrCodeOK:                "ok",
	ErrCodeCreation:          "creation",
	ErrCodePriority:          "priority",
	ErrCodeNotJoinable:       "not_joinable",
	ErrCodeNotDetachable:     "not_detachable",
	ErrCodeEmptyHandle:       "empty_handle",
	ErrCodeInvalidArgument:   "invalid_argument",
	ErrCodeResourceExhausted: "resource_exhausted",
	ErrCodeTimeout:           "timeout",
	ErrCodeNotSupported:      "not_supported",
}

// String returns a stable snake_case name, used as a metrics label.
func (c ErrorCode) String() string {
	if c >= 0 && int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// sentinel maps a code to the package error matched by errors.Is.
func (c ErrorCode) sentinel() error {
	switch c {
	case ErrCodeCreation:
		return ErrCreation
	case ErrCodePriority:
		return ErrPriority
	case ErrCodeNotJoinable:
		return ErrNotJoinable
	case ErrCodeNotDetachable:
		return ErrNotDetachable
	case ErrCodeEmptyHandle:
		return ErrEmptyHandle
	case ErrCodeInvalidArgument:
		return ErrInvalidArgument
	case ErrCodeResourceExhausted:
		return ErrResourceExhausted
	case ErrCodeTimeout:
		return ErrOperationTimeout
	case ErrCodeNotSupported:
		return ErrNotSupported
	}
	return nil
}

// Error represents a structured error with code and context.
//
// Errno holds the OS error number when the failure originated in a system
// call, zero otherwise. Err is the underlying cause, if any.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Errno   syscall.Errno
	Err     error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if len(e.Context) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (context: %+v)", msg, e.Context)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel associated with e.Code.
func (e *Error) Is(target error) bool {
	s := e.Code.sentinel()
	if s == nil {
		return false
	}
	return s == target || errors.Is(s, target)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WrapError creates a structured error for operation op caused by err.
// A syscall.Errno anywhere in err's chain is copied into Errno.
func WrapError(code ErrorCode, op string, err error) *Error {
	e := &Error{
		Code:    code,
		Op:      op,
		Message: code.sentinelMessage(),
		Err:     err,
		Context: make(map[string]any),
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Errno = errno
	}
	return e
}

func (c ErrorCode) sentinelMessage() string {
	if s := c.sentinel(); s != nil {
		return s.Error()
	}
	return c.String()
}

// WithOp records the failing operation.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// CodeOf extracts the ErrorCode from err, or ErrCodeOK if err carries none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeOK
}
