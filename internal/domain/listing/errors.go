package listing

import (
	"fmt"
	"net/http"

	"github.com/garage/invoicer/internal/domain/shared"
)

// FetchErrorKind classifies a failed listing fetch
type FetchErrorKind string

const (
	// KindHTTP means the listings API answered with a non-success status
	KindHTTP FetchErrorKind = "HTTP"
	// KindNetwork means the request never produced a response
	KindNetwork FetchErrorKind = "NETWORK"
	// KindDecode means the response body was not valid listing JSON
	KindDecode FetchErrorKind = "DECODE"
)

// FetchError is the hard failure returned when a listing cannot be fetched
type FetchError struct {
	Kind   FetchErrorKind
	Status int
	Cause  error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("Failed to fetch listing: %d", e.Status)
	case KindDecode:
		return "Failed to read listing response"
	default:
		return "Failed to fetch listing."
	}
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NotFound reports whether the listings API answered 404
func (e *FetchError) NotFound() bool {
	return e.Kind == KindHTTP && e.Status == http.StatusNotFound
}

// Code returns the domain error code for the failure
func (e *FetchError) Code() string {
	switch {
	case e.NotFound():
		return shared.CodeListingNotFound
	case e.Kind == KindHTTP:
		return shared.CodeListingFetchFailed
	case e.Kind == KindDecode:
		return shared.CodeListingDecodeFailed
	default:
		return shared.CodeListingUnavailable
	}
}

// NewHTTPError creates a FetchError for a non-success response
func NewHTTPError(status int) *FetchError {
	return &FetchError{Kind: KindHTTP, Status: status}
}

// NewNetworkError creates a FetchError for a transport failure
func NewNetworkError(cause error) *FetchError {
	return &FetchError{Kind: KindNetwork, Cause: cause}
}

// NewDecodeError creates a FetchError for an unparsable body
func NewDecodeError(cause error) *FetchError {
	return &FetchError{Kind: KindDecode, Cause: cause}
}
