package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs struct-tag validation on a request DTO and returns a
// single field-specific message suitable for a 400 response body.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				return fmt.Errorf("%s is required", field)
			case "email":
				return fmt.Errorf("%s must be a valid email address", field)
			case "min":
				return fmt.Errorf("%s must be at least %s", field, fe.Param())
			case "max":
				return fmt.Errorf("%s must be at most %s", field, fe.Param())
			case "gt":
				return fmt.Errorf("%s must be greater than %s", field, fe.Param())
			case "oneof":
				return fmt.Errorf("%s must be one of: %s", field, fe.Param())
			default:
				return fmt.Errorf("%s is invalid", field)
			}
		}
		return err
	}
	return nil
}
