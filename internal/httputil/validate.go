package httputil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs the struct's `validate` tags and returns a field -> message
// map, or nil when the payload is valid.
func Validate(payload any) map[string]string {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = fmt.Sprintf("The %s field is required.", fe.Field())
		case "email":
			fields[fe.Field()] = fmt.Sprintf("The %s must be a valid email address.", fe.Field())
		case "min":
			fields[fe.Field()] = fmt.Sprintf("The %s must be at least %s characters.", fe.Field(), fe.Param())
		case "max":
			fields[fe.Field()] = fmt.Sprintf("The %s may not be longer than %s characters.", fe.Field(), fe.Param())
		case "uuid":
			fields[fe.Field()] = fmt.Sprintf("The %s must be a valid id.", fe.Field())
		case "oneof":
			fields[fe.Field()] = fmt.Sprintf("The %s must be one of: %s.", fe.Field(), fe.Param())
		default:
			fields[fe.Field()] = fmt.Sprintf("The %s field is invalid.", fe.Field())
		}
	}

	return fields
}

// IsEmail reports whether s is a well-formed email address, using the same
// rule as the `email` validation tag.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// DecodeAndValidate decodes the JSON body into dst and validates it. On
// failure it writes the 400 response and returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := DecodeJSON(r, dst); err != nil {
		RespondErrorWithCode(w, "invalid request body", CodeInvalidRequestBody, http.StatusBadRequest)
		return false
	}
	if fields := Validate(dst); fields != nil {
		RespondValidationError(w, fields)
		return false
	}
	return true
}
