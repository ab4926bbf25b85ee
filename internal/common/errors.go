package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")

	// ErrSessionFatal marks failures that make further per-document work
	// meaningless (login timeout, navigation failure). The orchestrator
	// propagates these instead of counting a per-document failure.
	ErrSessionFatal = errors.New("dashboard session failure")

	// ErrTransient marks retryable dashboard I/O failures.
	ErrTransient = errors.New("transient dashboard error")
)

// NewAppError builds an AppError with a stable code.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapError wraps err with context, passing nil through.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsSessionFatal reports whether err should abort the whole run.
func IsSessionFatal(err error) bool {
	return errors.Is(err, ErrSessionFatal)
}
