// Package apperr defines the error taxonomy shared by the datastore
// adapters, the services and the HTTP boundary.
//
// Adapters wrap backend failures around the sentinels below; services turn
// them into *Error values carrying a stable message that is safe to show to
// end users. The raw cause is kept for server-side logging only.
package apperr

import (
	"errors"
	"net/http"
)

// Sentinel errors used across all layers.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("duplicate")
	ErrForeignKey   = errors.New("foreign key violation")
	ErrParse        = errors.New("parse failure")
	ErrValidation   = errors.New("validation error")
)

// Kind classifies an error for callers.
type Kind int

const (
	KindUpstream Kind = iota
	KindUnauthorized
	KindNotFound
	KindDuplicate
	KindForeignKey
	KindParse
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindForeignKey:
		return "foreign_key"
	case KindParse:
		return "parse"
	case KindValidation:
		return "validation"
	default:
		return "upstream"
	}
}

// Status maps a kind to the HTTP status used at the API boundary.
func (k Kind) Status() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	case KindForeignKey, KindParse:
		return http.StatusBadRequest
	case KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure with a user-safe message.
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

// New creates a classified error.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf classifies err. An *Error anywhere in the chain wins; otherwise the
// sentinels are consulted. Anything unrecognised is an upstream failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, ErrForeignKey):
		return KindForeignKey
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindUpstream
	}
}

// Message returns the user-safe message for err, falling back to fallback
// when err carries none. Raw upstream detail is never returned.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
