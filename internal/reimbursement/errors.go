package reimbursement

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the category of an input error.
type ErrorKind string

const (
	// KindArgumentCount indicates the wrong number of positional arguments.
	KindArgumentCount ErrorKind = "INVALID_ARGUMENT_COUNT"

	// KindNumericFormat indicates an argument that does not parse as its
	// expected numeric type.
	KindNumericFormat ErrorKind = "INVALID_NUMERIC_FORMAT"

	// KindInputRange indicates non-positive days or negative miles/receipts.
	KindInputRange ErrorKind = "INVALID_INPUT_RANGE"
)

// Error is an input error detected before any rule is evaluated. None of
// them are retryable; the caller must supply corrected input.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err, or any error it wraps, is an *Error of kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}
