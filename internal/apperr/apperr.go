// Package apperr classifies failures so the HTTP layer can map them to status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of a failure.
type Kind int

const (
	// Unknown is any error that was never classified.
	Unknown Kind = iota
	// InvalidInput is a malformed or missing request field.
	InvalidInput
	// Configuration is a missing external-service setting.
	Configuration
	// Upstream is a failure from an external HTTP dependency, including bad response shapes.
	Upstream
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case Configuration:
		return "configuration"
	case Upstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error carries a Kind, a user-facing message and the wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an *Error of the given kind without a cause.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap returns an *Error of the given kind wrapping err.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Invalidf builds an InvalidInput error.
func Invalidf(format string, args ...any) error {
	return New(InvalidInput, fmt.Sprintf(format, args...))
}

// Configf builds a Configuration error.
func Configf(format string, args ...any) error {
	return New(Configuration, fmt.Sprintf(format, args...))
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Message returns the user-facing message of err, falling back to err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}

// Details returns the text of the underlying cause, if any.
func Details(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// HTTPStatus maps err to the status code returned by the proxy endpoints.
func HTTPStatus(err error) int {
	if KindOf(err) == InvalidInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
