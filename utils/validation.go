package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance for request payloads.
var Validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationMessage turns a validator error into the first human-readable
// violation, e.g. `"quantity" must be 1 or more`.
func ValidationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "Invalid input"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "min":
		return fmt.Sprintf("%q must be %s or more", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%q must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}
