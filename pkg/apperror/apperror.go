// Package apperror is the error taxonomy shared by usecases and handlers.
//
// Usecases return *Error values only; handlers turn them into the JSON
// failure envelope. The Kind decides how the failure is logged and which
// message reaches the client.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindExpired
	KindNotFound
	KindTooManyAttempts
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindExpired:
		return "expired"
	case KindNotFound:
		return "not_found"
	case KindTooManyAttempts:
		return "too_many_attempts"
	default:
		return "internal"
	}
}

// Error carries a kind, a client-safe message and an optional cause.
type Error struct {
	kind   Kind
	msg    string
	fields map[string]string
	err    error
}

func (e *Error) Error() string {
	if e.err != nil && e.kind == KindInternal {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

// Message is the text safe to show to the client.
func (e *Error) Message() string { return e.msg }

// Fields holds per-field validation messages, if any.
func (e *Error) Fields() map[string]string { return e.fields }

// Is matches another *Error of the same kind and message, so sentinel-like
// comparisons work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == t.kind && e.msg == t.msg
}

func Validation(msg string, fields map[string]string) error {
	return &Error{kind: KindValidation, msg: msg, fields: fields}
}

func Conflict(msg string) error {
	return &Error{kind: KindConflict, msg: msg}
}

func Auth(msg string) error {
	return &Error{kind: KindAuth, msg: msg}
}

func Expired(msg string) error {
	return &Error{kind: KindExpired, msg: msg}
}

func NotFound(msg string) error {
	return &Error{kind: KindNotFound, msg: msg}
}

func TooManyAttempts(msg string) error {
	return &Error{kind: KindTooManyAttempts, msg: msg}
}

func Internal(err error) error {
	return &Error{kind: KindInternal, msg: "Internal server error", err: err}
}

// KindOf reports the kind of err, treating anything that is not an *Error
// as internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.msg
	}
	return "Internal server error"
}
