package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
	Kind        reflect.Kind
}

// FieldErrors maps a request field (its json name) to a user-facing message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	return "validation failed"
}

var validate = validator.New()

func init() {
	// Report fields by their json names so messages line up with request bodies.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Money fields are validated as plain numbers (gte=0 and friends).
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range verrs {
			var element ErrorResponse
			element.FailedField = err.Field()
			element.Tag = err.Tag()
			element.Value = err.Param()
			element.Kind = err.Kind()
			errors = append(errors, &element)
		}
	}
	return errors
}

// Validate runs the struct rules and returns FieldErrors, or nil when the
// struct is valid. Only the first failure per field is kept.
func Validate(data interface{}) error {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	fields := make(FieldErrors, len(errs))
	for _, e := range errs {
		if _, seen := fields[e.FailedField]; seen {
			continue
		}
		fields[e.FailedField] = message(e)
	}
	return fields
}

func message(e *ErrorResponse) string {
	isString := e.Kind == reflect.String
	switch e.Tag {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email address"
	case "eqfield":
		return "Passwords must match"
	case "min":
		if isString {
			return fmt.Sprintf("Must be at least %s characters", e.Value)
		}
		return fmt.Sprintf("Must be at least %s", e.Value)
	case "max":
		if isString {
			return fmt.Sprintf("Must be at most %s characters", e.Value)
		}
		return fmt.Sprintf("Must be at most %s", e.Value)
	case "gte":
		return fmt.Sprintf("Must be at least %s", e.Value)
	case "gt":
		return fmt.Sprintf("Must be greater than %s", e.Value)
	case "numeric":
		return "Must be a number"
	default:
		return fmt.Sprintf("Failed on the '%s' rule", e.Tag)
	}
}
