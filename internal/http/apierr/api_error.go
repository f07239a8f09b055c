package apierr

import (
	"errors"
	"net/http"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
	"github.com/tuanvumaihuynh/product-catalog/pkg/zerror"
)

// FieldError describes why a single request field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error response for the API.
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details *[]FieldError `json:"details,omitempty"`

	// StatusCode is the status code for the error response.
	StatusCode int `json:"-"`
}

// New maps err to the response sent to the client. Errors that carry no
// known kind become a generic internal server error.
func New(err error) ErrorResponse {
	if res, ok := validationErrorResponse(err); ok {
		return res
	}

	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		return ErrorResponse{
			Code:       zErr.Code(),
			Message:    zErr.Msg(),
			StatusCode: ZErrorStatusToHTTPStatus(zErr.Status()),
		}
	}

	if isParamErr(err) {
		return ErrorResponse{
			Code:       apperr.ValidationErrorCode,
			Message:    err.Error(),
			StatusCode: http.StatusBadRequest,
		}
	}

	return InternalServerErr
}

// NewRequestError maps an error raised while reading the request. It is
// always a client error.
func NewRequestError(err error) ErrorResponse {
	res := New(err)
	if res.StatusCode >= http.StatusInternalServerError {
		return ErrorResponse{
			Code:       apperr.ValidationErrorCode,
			Message:    err.Error(),
			StatusCode: http.StatusBadRequest,
		}
	}
	return res
}

var InternalServerErr = ErrorResponse{
	Code:       "INTERNAL_SERVER_ERROR",
	Message:    "an unknown error occurred",
	StatusCode: http.StatusInternalServerError,
}

func validationErrorResponse(err error) (ErrorResponse, bool) {
	var validationErrs govalidator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return ErrorResponse{}, false
	}

	details := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		details[i] = FieldError{
			Field:   fe.Field(),
			Message: validator.ValidationErrorMessage(fe),
		}
	}

	return ErrorResponse{
		Code:       apperr.ValidationErrorCode,
		Message:    "validation error",
		Details:    &details,
		StatusCode: http.StatusBadRequest,
	}, true
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusBadRequest, zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	case zerror.StatusUnknown, zerror.StatusInternalServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
