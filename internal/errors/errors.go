package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed operation
type Kind string

const (
	KindValidation     Kind = "validation"
	KindNetwork        Kind = "network"
	KindServerRejected Kind = "server_rejected"
	KindTimeout        Kind = "timeout"
	KindUnknown        Kind = "unknown"
)

// OperationError is the single error shape surfaced to callers. Every failure
// path classifies into one Kind before leaving the orchestration layer; an
// undifferentiated error never escapes.
type OperationError struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
	Cause      error  `json:"-"`
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// NewValidationError reports input rejected before any network activity
func NewValidationError(message string, cause error) *OperationError {
	return &OperationError{
		Kind:       KindValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewNetworkError reports a request that was sent but received no response
func NewNetworkError(message string, cause error) *OperationError {
	return &OperationError{
		Kind:       KindNetwork,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewServerRejectedError carries the server's own error message verbatim
// alongside the status it answered with
func NewServerRejectedError(message string, statusCode int) *OperationError {
	return &OperationError{
		Kind:       KindServerRejected,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewTimeoutError reports that the request deadline elapsed with no resolution
func NewTimeoutError(message string, cause error) *OperationError {
	return &OperationError{
		Kind:       KindTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewUnknownError covers anything not classifiable into the other kinds,
// such as a request that could not be constructed at all
func NewUnknownError(message string, cause error) *OperationError {
	return &OperationError{
		Kind:       KindUnknown,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsKind checks whether err is an OperationError of the given kind
func IsKind(err error, kind Kind) bool {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind == kind
	}
	return false
}

// KindOf extracts the classification of an error, defaulting to KindUnknown
func KindOf(err error) Kind {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return KindUnknown
}

// Classify wraps an arbitrary error into an OperationError, passing through
// errors that are already classified
func Classify(err error) *OperationError {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr
	}
	return NewUnknownError(err.Error(), err)
}

// GetStatusCode extracts the HTTP status code to answer with for an error
func GetStatusCode(err error) int {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.StatusCode
	}
	return http.StatusInternalServerError
}
