package users

import "errors"

// Errors returned by user repositories and the admin service.
// Their text is shown to API clients as is.
var (
	ErrUserNotFound  = errors.New("User not found")
	ErrUsernameTaken = errors.New("Username already exists")
	ErrEmailTaken    = errors.New("Email already exists")
	ErrTokenNotFound = errors.New("Invalid or expired token")
)

// ValidationError reports rejected input with a client-facing message
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
