package web

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// GetErrorMsg translates the first validator field error into a client friendly message.
func GetErrorMsg(ve validator.ValidationErrors) string {
	if len(ve) == 0 {
		return ""
	}

	field := ve[0]

	switch field.Tag() {
	case "required":
		return field.Field() + " field is required"
	case "email":
		return field.Field() + " must be a valid email address"
	case "alphanum":
		return field.Field() + " must contain only letters and numbers"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field.Field(), field.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field.Field(), field.Param())
	case "accounttype":
		return field.Field() + " must be savings or current"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field.Field(), field.Param())
	}

	return field.Field() + " is invalid"
}
