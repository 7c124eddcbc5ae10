// Package domain defines the core domain models for the ClockSchedule login client.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "CS-LOGIN-4001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches another DomainError by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ResponseError describes a non-2xx reply from the login endpoint.
// Message is empty when the body was absent or carried no message.
type ResponseError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

// ServerMessage returns the message the server attached to a rejected
// request, or "" when err carries no server response.
func ServerMessage(err error) string {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.Message
	}
	return ""
}

// Login errors.
var (
	// ErrValidation indicates a required form field is empty.
	ErrValidation = NewDomainError("CS-LOGIN-4001", "all fields are required")

	// ErrServerRejection indicates the server answered with a non-2xx status.
	ErrServerRejection = NewDomainError("CS-LOGIN-4010", "login rejected by server")

	// ErrSubmissionInProgress indicates a submit was attempted while another
	// one from the same form is still outstanding.
	ErrSubmissionInProgress = NewDomainError("CS-LOGIN-4090", "submission already in progress")

	// ErrProtocolInconsistency indicates a 2xx response without a token.
	ErrProtocolInconsistency = NewDomainError("CS-LOGIN-5020", "token missing from server response")

	// ErrNetwork indicates the request could not be completed.
	ErrNetwork = NewDomainError("CS-LOGIN-5030", "login request failed")
)

// Token store errors.
var (
	// ErrTokenNotFound indicates no token is stored under the key.
	ErrTokenNotFound = NewDomainError("CS-STORE-4040", "session token not found")

	// ErrStorage indicates the token store could not be read or written.
	ErrStorage = NewDomainError("CS-STORE-5001", "token storage error")
)
