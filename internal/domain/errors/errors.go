package errors

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrAlreadyExists     = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrAccountNotFound   = errors.New("account not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrHashFormat        = errors.New("malformed password hash")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

// ValidationError reports malformed client input. Message is safe to return to clients.
type ValidationError struct {
	Message string
}

// NewValidationError builds ValidationError with the given client message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
