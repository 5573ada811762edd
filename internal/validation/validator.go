package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator plugs go-playground/validator into echo.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("pastorpresent", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !t.After(time.Now())
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := &Errors{}
	for _, fe := range ves {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required field"
	case "min":
		return fmt.Sprintf("Must have at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must have at most %s characters", fe.Param())
	case "gt":
		return "Must be a positive value"
	case "email":
		return "Please enter a valid email"
	case "pastorpresent":
		return "Date cannot be in the future"
	default:
		return fmt.Sprintf("Failed on %s", fe.Tag())
	}
}
