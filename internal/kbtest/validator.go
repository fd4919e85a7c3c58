package kbtest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidator backs echo's c.Validate for every bound request schema.
// Messages name the wire field from its json tag, not the Go field, since
// they render straight into the error envelope the client displays.
type requestValidator struct {
	v *validator.Validate
}

func newValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, describeField(fe))
	}
	return errors.New(strings.Join(parts, "; "))
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is missing"
	case "email":
		return fe.Field() + " is not a valid email address"
	case "min":
		return fmt.Sprintf("%s is too short (minimum %s)", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s is too long (maximum %s)", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s rule)", fe.Field(), fe.Tag())
}
