// Package services provides the business logic layer between handlers and the
// analytics engine: input validation, series loading, result shaping,
// degradation on store failures and event publication.
package services

import "errors"

// Error codes
const (
	ErrCodeNotAuthenticated = "NOT_AUTHENTICATED"
	ErrCodeDataUnavailable  = "DATA_UNAVAILABLE"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Retryable bool                   `json:"retryable,omitempty"`
	Err       error                  `json:"-"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ErrNotAuthenticated is returned when no user identity accompanies a request
func ErrNotAuthenticated() *ServiceError {
	return NewServiceError(ErrCodeNotAuthenticated, "User identity is required")
}

// ErrDataUnavailable wraps a store failure as a retryable error
func ErrDataUnavailable(cause error) *ServiceError {
	return &ServiceError{
		Code:      ErrCodeDataUnavailable,
		Message:   "Journal data is temporarily unavailable",
		Retryable: true,
		Err:       cause,
	}
}

// HasCode reports whether err is a ServiceError with the given code
func HasCode(err error, code string) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Code == code
}
