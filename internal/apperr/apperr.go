// Package apperr defines the error kinds the service layer reports to the
// HTTP layer.
//
// Storage and client packages return plain wrapped errors. Services translate
// them into an *Error carrying one of the kinds below, and the response
// package maps each kind to an HTTP status in a single place.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindInternal is anything unanticipated. It is the zero value so an
	// untagged error is always treated as internal.
	KindInternal Kind = iota
	// KindConflict: duplicate natural key, or an ambiguous lookup.
	KindConflict
	// KindNotFound: no matching record.
	KindNotFound
	// KindValidation: malformed input or an enum violation.
	KindValidation
	// KindDependency: an external HTTP call failed or returned unusable data.
	KindDependency
	// KindConfig: a local static resource is missing.
	KindConfig
)

// String returns the snake_case name used in logs.
func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindDependency:
		return "dependency"
	case KindConfig:
		return "config"
	default:
		return "internal"
	}
}

// Error is a tagged error. Message is safe to show to API clients; Err keeps
// the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error returns the message followed by the cause, if any.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap returns the cause so errors.Is sees storage sentinels.
func (e *Error) Unwrap() error { return e.Err }

// New returns an *Error without an underlying cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap returns an *Error that keeps err as its cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Conflict returns a KindConflict error.
func Conflict(msg string) *Error { return New(KindConflict, msg) }

// NotFound returns a KindNotFound error.
func NotFound(msg string) *Error { return New(KindNotFound, msg) }

// Validation returns a KindValidation error.
func Validation(msg string) *Error { return New(KindValidation, msg) }

// Dependency wraps the failure of an external service.
func Dependency(msg string, err error) *Error { return Wrap(KindDependency, msg, err) }

// Config wraps a missing or unusable local resource.
func Config(msg string, err error) *Error { return Wrap(KindConfig, msg, err) }

// KindOf reports the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
