package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/solotrip/solotrip-go/internal/model"
)

// ValidationError carries one message per offending JSON field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Validator checks decoded request bodies. Dates are judged against now.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator builds a validator with the notblank and future rules registered.
func NewValidator(now func() time.Time) *Validator {
	v := &Validator{
		validate: validator.New(),
		now:      now,
	}

	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Dates validate as their underlying time so "required" and "future" see a value, not a nested struct.
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(model.Date); ok {
			return d.Time
		}
		return nil
	}, model.Date{})

	must(v.validate.RegisterValidation("notblank", validators.NotBlank))
	must(v.validate.RegisterValidation("future", v.isFuture))

	return v
}

// isFuture accepts calendar dates strictly after today in UTC.
func (v *Validator) isFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return model.NewDate(t).After(model.NewDate(v.now().UTC()))
}

// Struct validates s and returns a *ValidationError listing every failing field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = validationMessage(fe)
		}
	}
	return &ValidationError{Fields: fields}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return "must be positive"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "future":
		return "must be a future date"
	default:
		return "is invalid"
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
