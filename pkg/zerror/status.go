package zerror

// Status is the kind of a ZError. Transports map it to their own codes.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusBadRequest
	StatusValidationFailed
	StatusNotFound
	StatusConflict
	StatusInternalServerError
	StatusServiceUnavailable
)

var statusNames = [...]string{
	StatusUnknown:             "UNKNOWN",
	StatusBadRequest:          "BAD_REQUEST",
	StatusValidationFailed:    "VALIDATION_FAILED",
	StatusNotFound:            "NOT_FOUND",
	StatusConflict:            "CONFLICT",
	StatusInternalServerError: "INTERNAL_SERVER_ERROR",
	StatusServiceUnavailable:  "SERVICE_UNAVAILABLE",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return statusNames[StatusUnknown]
}
