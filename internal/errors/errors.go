package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN".
// The AppError may sit anywhere on the unwrap chain.
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// IsCode reports whether err carries the given code
func IsCode(err error, code string) bool {
	return GetCode(err) == code
}

// Error codes. Input and config errors abort the current request; auth and
// service errors surface as retryable messages; empty selection is a soft
// warning, never fatal.
const (
	CodeInput          = "INPUT_ERROR"
	CodeConfig         = "CONFIG_ERROR"
	CodeAuth           = "AUTH_ERROR"
	CodeService        = "SERVICE_ERROR"
	CodeEmptySelection = "EMPTY_SELECTION"
	CodeInternal       = "INTERNAL_ERROR"
)

// Common error constructors

func InputError(message string) *AppError {
	return New(CodeInput, message)
}

func InputErrorf(format string, args ...interface{}) *AppError {
	return New(CodeInput, fmt.Sprintf(format, args...))
}

func ConfigError(message string) *AppError {
	return New(CodeConfig, message)
}

func AuthError(message string) *AppError {
	return New(CodeAuth, message)
}

func ServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func EmptySelection(message string) *AppError {
	return New(CodeEmptySelection, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternal, message)
}
