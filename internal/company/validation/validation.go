// Package validation wraps go-playground/validator with the rules shared by the
// companies API and the company form, and turns validator failures into
// contracts.ValidationError values.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gartstein/crm/internal/company/contracts"
	"github.com/go-playground/validator/v10"
)

// New returns a validator that reports fields by their json name and knows the
// notblank and posint rules.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	// registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("posint", positiveInt)
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// positiveInt accepts strings holding a whole number greater than zero.
func positiveInt(fl validator.FieldLevel) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(fl.Field().String()), 10, 64)
	return err == nil && n > 0
}

// Details converts err into validation errors located under prefix. Errors that
// did not come from the validator become a single value_error at prefix.
func Details(err error, prefix ...string) []contracts.ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []contracts.ValidationError{{
			Loc:  append([]string{}, prefix...),
			Msg:  err.Error(),
			Type: "value_error",
		}}
	}

	details := make([]contracts.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		loc := append(append([]string{}, prefix...), fe.Field())
		details = append(details, contracts.ValidationError{
			Loc:  loc,
			Msg:  message(fe),
			Type: errorType(fe),
		})
	}
	return details
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "Field required"
	case "notblank":
		return "String should not be blank"
	case "min":
		if isString {
			return fmt.Sprintf("String should have at least %s characters", fe.Param())
		}
		return fmt.Sprintf("Input should be greater than or equal to %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("String should have at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Input should be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Input should be greater than %s", fe.Param())
	case "url":
		return "Input should be a valid URL"
	case "posint":
		return "Input should be a positive whole number"
	default:
		return fmt.Sprintf("Failed on the '%s' rule", fe.Tag())
	}
}

func errorType(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "missing"
	case "notblank":
		return "string_too_short"
	case "min":
		if isString {
			return "string_too_short"
		}
		return "greater_than_equal"
	case "max":
		if isString {
			return "string_too_long"
		}
		return "less_than_equal"
	case "gt":
		return "greater_than"
	case "url":
		return "url_parsing"
	case "posint":
		return "int_parsing"
	default:
		return "value_error"
	}
}
