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
}

var validate = validator.New()

func init() {
	// Decimal fields are validated as numbers so gt/gte/lte tags apply to them
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report json names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range validationErrors {
			var element ErrorResponse
			element.FailedField = err.Field()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// Message renders the first failure as a sentence, or "" when errs is empty.
func Message(errs []*ErrorResponse) string {
	if len(errs) == 0 {
		return ""
	}
	e := errs[0]
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.FailedField)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.FailedField, e.Value)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", e.FailedField, e.Value)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.FailedField, e.Value)
	case "email":
		return fmt.Sprintf("%s must be a valid email", e.FailedField)
	default:
		return fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", e.FailedField, e.Tag)
	}
}
