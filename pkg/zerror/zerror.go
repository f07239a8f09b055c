package zerror

import (
	"errors"
	"fmt"
)

// ZError is an error that carries a transport independent status, a stable
// machine readable code and a human readable message.
type ZError struct {
	parent error
	status Status
	code   string
	msg    string
}

// NewZError initializes a ZError instance.
//
// code example: PRODUCT_NOT_FOUND
func NewZError(parent error, status Status, code, msg string) ZError {
	return ZError{
		parent: parent,
		status: status,
		code:   code,
		msg:    msg,
	}
}

func (e ZError) Error() string {
	if e.parent != nil {
		return fmt.Sprintf("Code=%s, Msg=%s, Parent=(%v)", e.code, e.msg, e.parent)
	}
	return fmt.Sprintf("Code=%s, Msg=%s", e.code, e.msg)
}

// WrapParent attaches an underlying error to an existing predefined ZError.
func (e ZError) WrapParent(parent error) ZError {
	if parent == nil {
		return e
	}
	e.parent = parent
	return e
}

// WithMsgf returns a copy of e with a formatted message, keeping status and code.
func (e ZError) WithMsgf(format string, args ...any) ZError {
	e.msg = fmt.Sprintf(format, args...)
	return e
}

func (e ZError) Unwrap() error {
	return e.parent
}

// Is reports whether target is a ZError with the same status and code, so
// predefined errors can be matched with errors.Is regardless of message.
func (e ZError) Is(target error) bool {
	var t ZError
	if !errors.As(target, &t) {
		return false
	}
	return e.status == t.status && e.code == t.code
}

func (e ZError) Status() Status {
	return e.status
}

func (e ZError) Code() string {
	return e.code
}

func (e ZError) Msg() string {
	return e.msg
}

func (e ZError) Parent() error {
	return e.parent
}

// StatusOf returns the status of the first ZError in err's chain, or
// StatusUnknown when there is none.
func StatusOf(err error) Status {
	var zErr ZError
	if errors.As(err, &zErr) {
		return zErr.status
	}
	return StatusUnknown
}

func NewNotFound(code, msg string) ZError {
	return NewZError(nil, StatusNotFound, code, msg)
}

func NewConflict(code, msg string) ZError {
	return NewZError(nil, StatusConflict, code, msg)
}

func NewBadRequest(code, msg string) ZError {
	return NewZError(nil, StatusBadRequest, code, msg)
}

func NewValidationFailed(code, msg string) ZError {
	return NewZError(nil, StatusValidationFailed, code, msg)
}

func NewInternalServerError(code, msg string) ZError {
	return NewZError(nil, StatusInternalServerError, code, msg)
}

func NewServiceUnavailable(code, msg string) ZError {
	return NewZError(nil, StatusServiceUnavailable, code, msg)
}
