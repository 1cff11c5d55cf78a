package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance for request bodies.
var Validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError is a single field failure, as rendered into 400 bodies.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator.ValidationErrors into a slice
// of field-level messages. Returns nil for anything that is not a
// validation error.
func FormatValidationErrors(err error) []ValidationError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make([]ValidationError, len(ve))
	for i, fe := range ve {
		out[i] = ValidationError{Field: fe.Field(), Tag: fe.Tag()}
		switch fe.Tag() {
		case "required":
			out[i].Message = fmt.Sprintf("%s is required", fe.Field())
		case "email":
			out[i].Message = fmt.Sprintf("%s must be a valid email address", fe.Field())
		case "len":
			out[i].Message = fmt.Sprintf("%s must be exactly %s characters long", fe.Field(), fe.Param())
		case "numeric":
			out[i].Message = fmt.Sprintf("%s must contain digits only", fe.Field())
		case "oneof":
			out[i].Message = fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		default:
			out[i].Message = fmt.Sprintf("validation failed on field %q for tag %q", fe.Field(), fe.Tag())
		}
	}
	return out
}
