// Package domainerrors provides coded errors that services raise and
// transport layers translate. Stores return sentinel errors
// (pkg/platform/sentinel); services wrap them into coded errors here.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for callers and transport mapping.
type Code string

const (
	// CodeBadRequest marks malformed requests at the transport boundary.
	CodeBadRequest Code = "bad_request"
	// CodeInvalidInput marks values rejected at a trust boundary (id parsing).
	CodeInvalidInput Code = "invalid_input"
	// CodeValidation marks precondition violations; recoverable by fixing inputs.
	CodeValidation Code = "validation"
	// CodeNotFound marks references that do not resolve to a stored record.
	CodeNotFound Code = "not_found"
	// CodeConflict marks uniqueness or state conflicts.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks broken model invariants.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeSerialization marks payloads that cannot round-trip the codec.
	CodeSerialization Code = "serialization"
	// CodeInternal marks infrastructure failures surfaced unmodified.
	CodeInternal Code = "internal"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Is/As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err or any error in its chain carries the code.
func HasCode(err error, code Code) bool {
	var dErr *Error
	for errors.As(err, &dErr) {
		if dErr.Code == code {
			return true
		}
		err = dErr.Err
		if err == nil {
			return false
		}
	}
	return false
}

// CodeOf returns the outermost code in the chain, or CodeInternal when err is
// not a coded error.
func CodeOf(err error) Code {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	return CodeInternal
}

// Message returns the outermost coded message, or err.Error() otherwise.
func Message(err error) string {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
