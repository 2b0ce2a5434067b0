package domain

import (
	"errors"
	"fmt"
	"time"
)

// Common error types
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// ErrQueryTimeout indicates the analytics service did not answer within the
// per-operation deadline. Callers treat it as retryable on the next run.
type ErrQueryTimeout struct {
	Elapsed time.Duration
}

func (e *ErrQueryTimeout) Error() string {
	return fmt.Sprintf("analytics query timed out after %s", e.Elapsed)
}

// ErrAuthFailed indicates the external service rejected our credentials
// (401/403). Recorded distinctly so operators can tell a revoked token
// from a transient outage.
type ErrAuthFailed struct {
	Service    string
	StatusCode int
}

func (e *ErrAuthFailed) Error() string {
	return fmt.Sprintf("%s authentication failed with status %d", e.Service, e.StatusCode)
}

// ErrAPIFailure is any other non-2xx answer from an external service.
type ErrAPIFailure struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *ErrAPIFailure) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s API returned status %d: %s", e.Service, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s API returned status %d", e.Service, e.StatusCode)
}

// IsAuthError reports whether err is (or wraps) an authentication failure.
func IsAuthError(err error) bool {
	var authErr *ErrAuthFailed
	return errors.As(err, &authErr)
}

// IsTimeoutError reports whether err is (or wraps) a query timeout.
func IsTimeoutError(err error) bool {
	var timeoutErr *ErrQueryTimeout
	return errors.As(err, &timeoutErr)
}
