package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"blog/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
	passwordPattern = regexp.MustCompile(`^.{3,20}$`)
	emailPattern    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

var fieldMessages = map[string]string{
	"username":  "That's not a valid username.",
	"password":  "That wasn't a valid password.",
	"eqfield":   "Your passwords didn't match.",
	"required":  "This field is required.",
	"max":       "This value is too long.",
	"blogemail": "That's not a valid email.",
}

// newValidator returns a validator that knows the blog's form rules and
// reports fields by their form name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "username", usernamePattern)
	mustRegister(v, "password", passwordPattern)
	mustRegister(v, "blogemail", emailPattern)
	return v
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register %s validation: %v", tag, err))
	}
}

// validateForm runs v over form and converts failures to a
// *models.ValidationError keyed by form field.
func validateForm(v *validator.Validate, form interface{}) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	verr := &models.ValidationError{}
	for _, e := range validationErrors {
		msg, ok := fieldMessages[e.Tag()]
		if !ok {
			msg = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		verr.Add(e.Field(), msg)
	}
	return verr
}
