package apierr

import (
	"errors"
	"fmt"
)

// InvalidParamFormatError is returned when a path or query parameter cannot
// be bound to its Go type.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// RequiredParamError is returned when a required parameter is missing.
type RequiredParamError struct {
	ParamName string
}

func (e *RequiredParamError) Error() string {
	return fmt.Sprintf("Query argument %s is required, but not found", e.ParamName)
}

func isParamErr(err error) bool {
	var (
		e1 *InvalidParamFormatError
		e2 *RequiredParamError
	)

	return errors.As(err, &e1) || errors.As(err, &e2)
}
