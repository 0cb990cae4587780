package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatValidation  ErrorCategory = "validation"  // Invalid request input
	ErrCatDocument    ErrorCategory = "document"    // Paper could not be loaded or parsed
	ErrCatBackend     ErrorCategory = "backend"     // Generative backend unreachable or refused
	ErrCatMalformed   ErrorCategory = "malformed"   // Backend replied but output was unusable
	ErrCatTimeout     ErrorCategory = "timeout"     // Operation timed out
	ErrCatPersistence ErrorCategory = "persistence" // Report could not be written
	ErrCatInternal    ErrorCategory = "internal"    // Unexpected internal error
)

// DomainError represents a structured error from the domain layer.
type DomainError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Retryable bool
	Cause     error
	Details   map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds contextual information.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ErrValidation creates a validation error. Never retried.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatValidation,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// ErrDocument creates a document acquisition or parse error.
func ErrDocument(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatDocument,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// ErrBackendUnavailable creates a backend transport error.
func ErrBackendUnavailable(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatBackend,
		Code:      "BACKEND_UNAVAILABLE",
		Message:   message,
		Retryable: true,
	}
}

// ErrMalformedOutput creates an error for backend replies that carry no
// usable payload.
func ErrMalformedOutput(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatMalformed,
		Code:      "MALFORMED_OUTPUT",
		Message:   message,
		Retryable: true,
	}
}

// ErrTimeout creates a timeout error.
func ErrTimeout(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatTimeout,
		Code:      "TIMEOUT",
		Message:   message,
		Retryable: true,
	}
}

// ErrPersistence creates a report persistence error.
func ErrPersistence(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatPersistence,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// ErrInternal creates an internal error.
func ErrInternal(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatInternal,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// IsRetryable reports whether an error should be retried.
func IsRetryable(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Retryable
	}
	return false
}

// GetCategory extracts the category from an error, or ErrCatInternal for
// errors outside the taxonomy.
func GetCategory(err error) ErrorCategory {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Category
	}
	return ErrCatInternal
}

// IsCategory checks whether an error belongs to a category.
func IsCategory(err error, cat ErrorCategory) bool {
	return GetCategory(err) == cat
}
