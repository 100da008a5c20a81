package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/garage/invoicer/internal/domain/listing"
	"github.com/garage/invoicer/internal/interfaces/http/dto"
)

// SetupValidator makes validation errors report form, uri or json names
// instead of Go field names, and registers the listing_id tag. It must run
// before any request binds dto.ListingURI.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("listing_id", func(fl validator.FieldLevel) bool {
			return listing.IsListingID(fl.Field().String())
		})
	}
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// tagMessages maps validator tags to client facing messages
var tagMessages = map[string]func(param string) string{
	"required":   func(string) string { return "This field is required" },
	"listing_id": func(string) string { return "Invalid UUID format" },
	"url":        func(string) string { return "Invalid URL format" },
	"max":        func(p string) string { return "Must be at most " + p + " characters" },
}

// FormatValidationErrors builds the 400 response body for a binding error.
// Errors that are not field validation failures yield no details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var fieldErrs validator.ValidationErrors
	errors.As(err, &fieldErrs)

	details := make([]dto.ValidationDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: validationMessage(fe)})
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError aborts with a 400 validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func validationMessage(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg(fe.Param())
	}
	return "Invalid value"
}
