// Package apperror defines the application error taxonomy. There is no wire
// surface here: kinds classify failures for logging and for CLI exit
// behavior, not HTTP statuses.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindStorage    Kind = "storage"
	KindInternal   Kind = "internal"
)

// Sentinel errors for common cases.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation error")
	ErrStorage    = errors.New("storage failure")
)

// AppError wraps errors with a kind and a user-friendly message.
type AppError struct {
	Err     error  // Original error (for logging)
	Message string // User-friendly message
	Kind    Kind
	Field   string // Optional field name for validation errors
}

func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructor functions for common errors. Each keeps the wrapped cause in
// the chain so errors.Is checks against domain sentinels still hold.

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrNotFound, err),
		Message: fmt.Sprintf("%s not found", resource),
		Kind:    KindNotFound,
	}
}

func Validation(field string, err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrValidation, err),
		Message: err.Error(),
		Kind:    KindValidation,
		Field:   field,
	}
}

func Storage(err error, message string) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrStorage, err),
		Message: message,
		Kind:    KindStorage,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Err:     err,
		Message: "an internal error occurred",
		Kind:    KindInternal,
	}
}

// GetKind extracts the kind from an error, defaulting to internal.
func GetKind(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrStorage):
		return KindStorage
	default:
		return KindInternal
	}
}

// GetMessage extracts the user message from an error.
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
