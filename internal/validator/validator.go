// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("record_type", validateRecordType)
		_ = v.RegisterValidation("username", validateUsername)
	}
}

// validateRecordType accepts the wire values 1 (expense) and 2 (income).
func validateRecordType(fl validator.FieldLevel) bool {
	switch fl.Field().Int() {
	case 1, 2:
		return true
	}
	return false
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}
