// Package apperrors defines the error kinds shared by the store, service and
// HTTP layers so callers can tell a missing record from a conflict or an
// unreachable database.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds. Every *Error wraps exactly one of them.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTransient    = errors.New("temporarily unavailable")
)

// Error carries a kind, the failing operation and an optional cause.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound reports a missing record. id may be empty.
func NotFound(resource, id string) error {
	if id == "" {
		return &Error{Kind: ErrNotFound, Msg: resource + " not found"}
	}
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf("%s %q not found", resource, id)}
}

func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Msg: msg}
}

// Validation reports a bad input field.
func Validation(field, msg string) error {
	if field == "" {
		return &Error{Kind: ErrValidation, Msg: msg}
	}
	return &Error{Kind: ErrValidation, Msg: field + ": " + msg}
}

func Forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Msg: msg}
}

func Unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Msg: msg}
}

// Transient wraps an infrastructure failure (database, cache, broker).
func Transient(op string, err error) error {
	return &Error{Kind: ErrTransient, Op: op, Err: err}
}

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool     { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }
func IsForbidden(err error) bool    { return errors.Is(err, ErrForbidden) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
func IsTransient(err error) bool    { return errors.Is(err, ErrTransient) }

// HTTPStatus maps an error onto the response code the API returns for it.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	case IsValidation(err):
		return http.StatusBadRequest
	case IsForbidden(err):
		return http.StatusForbidden
	case IsUnauthorized(err):
		return http.StatusUnauthorized
	case IsTransient(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
