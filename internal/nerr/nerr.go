// Package nerr defines the error taxonomy shared by every core component.
package nerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies which class of failure occurred. The console facade and
// its callers switch on Kind rather than matching error strings.
type Kind uint8

const (
	// UnsupportedFormat covers a bad iNES magic number or a nonzero iNES
	// version field.
	UnsupportedFormat Kind = iota
	// UnsupportedMapper covers a mapper id outside {0,1,2,3,66}.
	UnsupportedMapper
	// BusError covers a read or write that decodes to an undefined region.
	BusError
	// InvalidArgument covers a caller-supplied value outside its valid
	// range, such as update_pulse invoked for the triangle channel.
	InvalidArgument
	// SinkError covers a failure surfaced by the screen or audio sink.
	SinkError
)

func (k Kind) String() string {
	switch k {
	case UnsupportedFormat:
		return "unsupported format"
	case UnsupportedMapper:
		return "unsupported mapper"
	case BusError:
		return "bus error"
	case InvalidArgument:
		return "invalid argument"
	case SinkError:
		return "sink error"
	default:
		return "unknown error"
	}
}

// Error is the concrete error type returned by every fallible core
// operation. It wraps an optional cause so that errors.Unwrap/errors.Cause
// still reach the underlying failure.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

// New builds an Error of the given kind with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Newf builds an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and message to an existing cause, wrapping it with
// github.com/pkg/errors (which records a stack trace) so errors.Cause and
// errors.Unwrap still reach it.
func Wrap(cause error, kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg, cause: errors.Wrap(cause, msg)}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Kind reports which taxonomy bucket this error belongs to.
func (e *Error) Kind() Kind { return e.kind }

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// Cause lets github.com/pkg/errors.Cause walk through to the wrapped cause.
func (e *Error) Cause() error { return e.cause }

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.kind == kind
	}
	return false
}
