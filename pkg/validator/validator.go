package validator

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// Validator is a validator that validates the given struct.
type Validator interface {
	// Validate validates the given struct
	Validate(s any) error
}

type DefaultValidator struct {
	v *validator.Validate
}

// NewDefaultValidator creates a new default validator.
// It returns a new DefaultValidator and an error if the validator registration fails.
//
// Field names in validation errors are taken from the json tag when present,
// and decimal.Decimal fields are validated as float64 so numeric tags such as
// gt or lte apply to them.
func NewDefaultValidator() (*DefaultValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(jsonTagName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("register notblank validator: %w", err)
	}
	if err := v.RegisterValidation("maxscale", maxScale); err != nil {
		return nil, fmt.Errorf("register maxscale validator: %w", err)
	}

	return &DefaultValidator{v: v}, nil
}

func (v DefaultValidator) Validate(s any) error {
	return v.v.Struct(s)
}

// IsValidationError checks if the given error is a validation error
func IsValidationError(err error) bool {
	_, ok := err.(validator.ValidationErrors)
	return ok
}

func ValidationErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "notblank":
		return "must not be blank"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "maxscale":
		return fmt.Sprintf("must have at most %s decimal places", fe.Param())
	default:
		return "is invalid"
	}
}

func jsonTagName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

func decimalValue(field reflect.Value) any {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	return d.InexactFloat64()
}

// maxScale reports whether a number has at most param digits after the
// decimal point. Decimals reach it as float64 through decimalValue, whose
// shortest formatting keeps the digits of the original value.
func maxScale(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("bad maxscale param %q: %s", fl.Param(), err))
	}

	field := fl.Field()
	var s string
	switch field.Kind() {
	case reflect.Float32:
		s = strconv.FormatFloat(field.Float(), 'f', -1, 32)
	case reflect.Float64:
		s = strconv.FormatFloat(field.Float(), 'f', -1, 64)
	case reflect.String:
		s = field.String()
	default:
		return true
	}

	_, frac, _ := strings.Cut(s, ".")
	return len(frac) <= limit
}
