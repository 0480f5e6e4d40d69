package model

import "fmt"

// Standard error codes surfaced to the user layer.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeEmptyCart        = "EMPTY_CART"
	ErrCodeSubmissionBusy   = "SUBMISSION_IN_FLIGHT"
	ErrCodeUnauthenticated  = "UNAUTHENTICATED"
	ErrCodeStaffRequired    = "STAFF_REQUIRED"
	ErrCodeServerRejected   = "SERVER_REJECTED"
	ErrCodeNetworkError     = "NETWORK_ERROR"
	ErrCodeMissingCSRFToken = "MISSING_CSRF_TOKEN"
	ErrCodePasswordTooShort = "PASSWORD_TOO_SHORT"
	ErrCodePasswordMismatch = "PASSWORD_MISMATCH"
	ErrCodeInvalidEmail     = "INVALID_EMAIL"
	ErrCodeMissingField     = "MISSING_FIELD"
)

// DomainError is a client-side error with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors.
var (
	ErrEmptyCart             = NewDomainError(ErrCodeEmptyCart, "Your cart is empty")
	ErrSubmissionInFlight    = NewDomainError(ErrCodeSubmissionBusy, "An order submission is already in progress")
	ErrMissingCustomerFields = NewDomainError(ErrCodeMissingField, "Please fill in customer name and phone number")
	ErrInvalidEmail          = NewDomainError(ErrCodeInvalidEmail, "Please enter a valid email address")
	ErrNotAuthenticated      = NewDomainError(ErrCodeUnauthenticated, "Please log in first")
	ErrStaffRequired         = NewDomainError(ErrCodeStaffRequired, "Access denied. Staff privileges required")
	ErrPasswordTooShort      = NewDomainError(ErrCodePasswordTooShort, "Password must be at least 8 characters long")
	ErrPasswordMismatch      = NewDomainError(ErrCodePasswordMismatch, "Passwords do not match")
	ErrMissingCSRFToken      = NewDomainError(ErrCodeMissingCSRFToken, "Could not obtain an anti-forgery token from the server")
)

// APIError is a server-rejected request. Message carries the
// server-provided error text verbatim when the response body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsAuthError reports whether the error means the session is no longer
// authenticated.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
