package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domains' failure classes. Services wrap these via
// the constructors below; the HTTP layer maps them to status codes with
// errors.Is — see handler.writeError. Nothing outside the handler package
// should ever touch an HTTP status.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

type AppError struct {
	Err     error  // sentinel this error belongs to
	Message string // human-readable, safe to show to the caller
	Field   string // optional: field causing the error
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
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation, e.g. registering an email that is
// already taken. Handlers surface it as 400 — the message tells the user
// what to change, so it's an input problem, not a retryable 409.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized reports that the caller presented no usable credentials
// (bad email/password, or no token at all). The message must never reveal
// WHICH part of the credentials was wrong — that enables account
// enumeration. Handlers map it to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden reports that credentials were presented but rejected — a
// malformed, tampered, or expired token. Handlers map it to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
