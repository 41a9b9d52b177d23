package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
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

// Common application errors
var (
	// ErrNoContent means a document parsed cleanly but yielded nothing usable.
	// Not a failure: the result carries an empty item list and a verification flag.
	ErrNoContent = errors.New("no content found")
	// ErrToolUnavailable means an external tool is missing, timed out, or exited
	// nonzero. The stage is skipped and the cascade moves on.
	ErrToolUnavailable = errors.New("tool unavailable")
	// ErrDocumentCorrupt means the document bytes could not be interpreted at all.
	// Caught at the per-document boundary; the batch continues.
	ErrDocumentCorrupt = errors.New("document corrupt")
	ErrInvalidInput    = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
