// Package dto holds the request and response shapes of the HTTP interface.
package dto

import (
	"errors"
	"net/http"

	"github.com/garage/invoicer/internal/domain/listing"
	"github.com/garage/invoicer/internal/domain/shared"
	infra "github.com/garage/invoicer/internal/infrastructure/printing"
)

// Interface level error codes
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeNotFound   = "ERR_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,

	shared.CodeInvalidListingURL:   http.StatusBadRequest,
	shared.CodeInvalidInput:        http.StatusBadRequest,
	shared.CodeListingNotFound:     http.StatusNotFound,
	shared.CodeListingFetchFailed:  http.StatusBadGateway,
	shared.CodeListingUnavailable:  http.StatusBadGateway,
	shared.CodeListingDecodeFailed: http.StatusBadGateway,

	infra.ErrCodeRenderFailed:  http.StatusInternalServerError,
	infra.ErrCodeRenderTimeout: http.StatusGatewayTimeout,
	infra.ErrCodeInvalidInput:  http.StatusInternalServerError,
	infra.ErrCodeStorageFailed: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorCode classifies err and returns its code with a user facing message.
// Infrastructure causes are not exposed.
func ErrorCode(err error) (code, message string) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code, domainErr.Message
	}

	var fetchErr *listing.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Code(), fetchErr.Error()
	}

	var renderErr *infra.RenderError
	if errors.As(err, &renderErr) {
		return renderErr.Code, renderErr.Message
	}

	return ErrCodeInternal, "An internal error occurred"
}
