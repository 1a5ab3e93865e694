package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

func InitValidator() {
	if Validate != nil {
		return
	}
	Validate = validator.New()

	// empty phones fall back to the gateway placeholder, so only non-empty ones are checked
	_ = Validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || phonePattern.MatchString(value)
	})
}
