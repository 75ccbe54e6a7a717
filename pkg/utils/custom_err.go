package utils

import (
	"errors"
	"fmt"
)

// Error kinds. Services wrap them in AppError; HandleServiceError maps them to HTTP.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrUpstream      = errors.New("upstream error")
	ErrConflict      = errors.New("conflict")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrDatabaseError = errors.New("database error")
)

// AppError is a classified service error. Message is safe to show to clients,
// Err is the underlying cause and is only logged.
type AppError struct {
	Kind    error
	Message string
	Details any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func NewNotFoundError(message string) error {
	return &AppError{Kind: ErrNotFound, Message: message}
}

func NewValidationError(message string) error {
	return &AppError{Kind: ErrValidation, Message: message}
}

func NewUpstreamError(message string, cause error) error {
	return &AppError{Kind: ErrUpstream, Message: message, Err: cause}
}

func NewConflictError(message string, details any) error {
	return &AppError{Kind: ErrConflict, Message: message, Details: details}
}

func NewDatabaseError(cause error) error {
	return &AppError{Kind: ErrDatabaseError, Message: "Internal server error", Err: cause}
}
