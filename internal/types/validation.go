package types

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// RegisterValidators adds the custom tags used by request and catalog
// structs. It is called for gin's binding engine and for standalone
// validators.
func RegisterValidators(v *validator.Validate) error {
	// report json names so error fields match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
}

// NewValidator returns a validator with the custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidators(v); err != nil {
		panic(err)
	}
	return v
}
