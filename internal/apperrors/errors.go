// Package apperrors defines the failure taxonomy shared by repositories, services and handlers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Compare with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a classified failure carrying a machine-readable reason.
type Error struct {
	Kind    error
	Reason  string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, reason, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing recipe, ingredient, tag, user or relation edge.
func NotFound(reason, format string, args ...interface{}) *Error {
	return newError(ErrNotFound, reason, format, args...)
}

// Conflict reports an edge that already exists for the given pair.
func Conflict(reason, format string, args ...interface{}) *Error {
	return newError(ErrConflict, reason, format, args...)
}

// Validation reports a payload that violates a structural invariant.
func Validation(reason, format string, args ...interface{}) *Error {
	return newError(ErrValidation, reason, format, args...)
}

// Forbidden reports an identity acting on something it does not own.
func Forbidden(reason, format string, args ...interface{}) *Error {
	return newError(ErrForbidden, reason, format, args...)
}

// Unauthorized reports missing or bad credentials.
func Unauthorized(reason, format string, args ...interface{}) *Error {
	return newError(ErrUnauthorized, reason, format, args...)
}

// Reason extracts the machine-readable reason, or "" if err is not classified.
func Reason(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return ""
}

// Status maps err onto an HTTP status code. Unclassified errors are 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
