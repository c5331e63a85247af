package helpers

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct checks the `validate` tags of a request payload.
func ValidateStruct(s any) error {
	return validate.Struct(s)
}
