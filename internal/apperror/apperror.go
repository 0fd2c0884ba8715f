// Package apperror defines the domain error taxonomy.
//
// Services return these instead of HTTP status codes; the handler layer owns
// the mapping to HTTP (see handler/response.go). The three families the
// storefront cares about:
//
//   - validation / conflict  → the caller's input was refused, nothing changed
//   - unauthorized / forbidden → missing or wrong context, operation refused
//     with no partial effect
//   - unavailable            → an external collaborator failed; callers degrade
//     gracefully instead of surfacing this to the user
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUnavailable  = errors.New("unavailable")
)

// AppError pairs a sentinel (for errors.Is checks) with a human-readable
// message and, for validation failures, the offending field.
type AppError struct {
	Err     error
	Message string
	Field   string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized reports a missing or failed authentication context.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden reports that the caller is authenticated but not allowed.
// HTTP handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unavailable reports a failed external collaborator (e.g. the
// confirmation-summary service). Callers are expected to fall back rather
// than propagate this to the user.
func Unavailable(message string) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: message,
	}
}
