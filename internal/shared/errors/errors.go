package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes surfaced to callers. Validation-class codes map to corrective
// user messages; INTERNAL_ERROR is a system fault.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidTimezone = "INVALID_TIMEZONE"
	CodePastDateTime    = "PAST_DATETIME"
	CodeNotFound        = "NOT_FOUND"
	CodeInternal        = "INTERNAL_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Err:     err,
	}
}

// NewInvalidTimezoneError creates an error for unrecognized timezone names
func NewInvalidTimezoneError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInvalidTimezone,
		Message: message,
		Err:     err,
	}
}

// NewPastDateTimeError creates an error for event times that already passed
func NewPastDateTimeError(message string) *AppError {
	return &AppError{
		Code:    CodePastDateTime,
		Message: message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the application error code, or INTERNAL_ERROR for errors
// that did not originate here.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsNotFound reports whether err carries the NOT_FOUND code.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}
