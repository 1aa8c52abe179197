// Package serrors classifies failures by kind. The HTTP handlers map a kind to
// a status code and the plotting front ends map it to the short message shown
// to the user, while the detail and the cause only go to the logs.
package serrors

import (
	"errors"
	"fmt"
)

// Kind names a class of failure. Kinds compare by value, so a Kind is its own
// sentinel for errors.Is.
type Kind string

func (k Kind) Error() string { return string(k) }

// Kinds raised by the transport layer. The plotting pipeline declares its own
// next to the code that produces them.
const (
	ErrBadRequest Kind = "BAD_REQUEST"
	ErrInternal   Kind = "INTERNAL"
	ErrTimeout    Kind = "TIMEOUT"
)

// Error is a failure of some Kind with a detail for the logs and an optional
// cause. errors.Is and errors.As see both the kind and the cause.
type Error struct {
	Kind   Kind
	Detail string

	cause error
}

// With returns an error of kind k with a formatted detail.
func With(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Detail: fmt.Sprintf(format, args...)}
}

// Wrap returns an error of kind k caused by err, with a formatted detail.
func Wrap(k Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: k, Detail: fmt.Sprintf(format, args...), cause: err}
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "" && e.cause != nil:
		return e.Detail + ": " + e.cause.Error()
	case e.Detail != "":
		return e.Detail
	case e.cause != nil:
		return e.cause.Error()
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.cause}
}

// KindOf returns the outermost Kind in err's tree, or "" when there is none.
func KindOf(err error) Kind {
	var k Kind
	if errors.As(err, &k) {
		return k
	}

	return ""
}
