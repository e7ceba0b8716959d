// Package apperr defines the error kinds shared by every layer of the service.
// Failures travel as ordinary return values; the API layer reads the kind to
// pick a status code.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	Internal     Kind = iota // store faults and anything unclassified
	Validation               // malformed or missing input
	NotFound                 // referenced entity absent
	Conflict                 // uniqueness violation on create
	Unauthorized             // missing or rejected credential
	Forbidden                // authenticated but not entitled
	InvalidToken             // token failed verification, reported as Unauthorized
)

var kindNames = map[Kind]string{
	Internal:     "internal",
	Validation:   "validation",
	NotFound:     "not_found",
	Conflict:     "conflict",
	Unauthorized: "unauthorized",
	Forbidden:    "forbidden",
	InvalidToken: "invalid_token",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error is a failure tagged with a Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error // optional cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the client-facing message of err. Unclassified errors
// never leak their text.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "Internal server error"
}

// Validationf is shorthand for New(Validation, ...).
func Validationf(format string, args ...any) *Error {
	return New(Validation, format, args...)
}

// NotFoundf is shorthand for New(NotFound, ...).
func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, format, args...)
}

// Conflictf is shorthand for New(Conflict, ...).
func Conflictf(format string, args ...any) *Error {
	return New(Conflict, format, args...)
}

// Forbiddenf is shorthand for New(Forbidden, ...).
func Forbiddenf(format string, args ...any) *Error {
	return New(Forbidden, format, args...)
}

// Unauthorizedf is shorthand for New(Unauthorized, ...).
func Unauthorizedf(format string, args ...any) *Error {
	return New(Unauthorized, format, args...)
}
