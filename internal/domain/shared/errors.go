package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared by the invoice domain
const (
	CodeInvalidListingURL   = "INVALID_LISTING_URL"
	CodeListingNotFound     = "LISTING_NOT_FOUND"
	CodeListingFetchFailed  = "LISTING_FETCH_FAILED"
	CodeListingUnavailable  = "LISTING_UNAVAILABLE"
	CodeListingDecodeFailed = "LISTING_DECODE_FAILED"
	CodeInvalidInput        = "INVALID_INPUT"
)

// Common domain errors
var (
	ErrInvalidListingURL = NewDomainError(CodeInvalidListingURL, "Could not find a valid listing UUID in the URL.")
	ErrInvalidInput      = NewDomainError(CodeInvalidInput, "Invalid input provided")
)
