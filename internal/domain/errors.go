package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced user or task does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername is returned when signing up with a taken username.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated means the request carries no live session.
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError describes malformed client input. Message is safe to show.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// Validation messages shared by the service and transport layers.
var (
	ErrPasswordMismatch = NewValidationError("Passwords do not match")
	ErrWeakPassword     = NewValidationError("Password must be at least 6 characters")
)
