// Package apperr defines the error kinds services return to the transport layer.
package apperr

import (
	"errors"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuth
	KindCapacity
	KindBadRequest
	KindUnavailable
	// KindStale marks a write lost to a concurrent modification.
	KindStale
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindConflict:
		return "CONFLICT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindAuth:
		return "UNAUTHORIZED"
	case KindCapacity:
		return "CAPACITY_EXCEEDED"
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindUnavailable:
		return "SERVICE_UNAVAILABLE"
	case KindStale:
		return "VERSION_CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}

// Error is a classified error. Message is safe to show to clients; Err is not.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind and message, so sentinel values
// declared with the constructors below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func Validation(msg string) *Error  { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) *Error    { return &Error{Kind: KindConflict, Message: msg} }
func NotFound(msg string) *Error    { return &Error{Kind: KindNotFound, Message: msg} }
func Auth(msg string) *Error        { return &Error{Kind: KindAuth, Message: msg} }
func Capacity(msg string) *Error    { return &Error{Kind: KindCapacity, Message: msg} }
func BadRequest(msg string) *Error  { return &Error{Kind: KindBadRequest, Message: msg} }
func Unavailable(msg string) *Error { return &Error{Kind: KindUnavailable, Message: msg} }
func Stale(msg string) *Error       { return &Error{Kind: KindStale, Message: msg} }

// Wrap attaches a cause to a classified error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of err, or fallback when err is
// not classified.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
