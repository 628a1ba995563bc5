package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied reports that the requester may not mutate the
	// target entity.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidCredentials reports a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports malformed or rule-violating input, including
// uniqueness conflicts on membership rows. All such errors are terminal
// for the request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
