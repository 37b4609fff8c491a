package serr

import (
	"fmt"
	"runtime/debug"
)

// Machine-readable reason codes surfaced in the error envelope.
const (
	CodeQueryTooLong         = "QUERY_TOO_LONG"
	CodeTooManyFilterOptions = "TOO_MANY_FILTER_OPTIONS"
	CodeInvalidPagination    = "INVALID_PAGINATION"
	CodeRateLimited          = "RATE_LIMITED"
	CodeNotFound             = "NOT_FOUND"
	CodeInternal             = "INTERNAL"
)

// ServiceError carries an HTTP status, a reason code and a client-safe message
// for failures that should reach the caller. Anything else is reported as a
// plain internal error with no detail.
type ServiceError struct {
	Err        error
	Code       string
	Msg        string
	StackTrace string
	StatusCode int
	Env        map[string]string
}

func NewServiceError(err error, statusCode int, code string, msg string, args ...any) *ServiceError {
	return &ServiceError{
		Err:        err,
		Code:       code,
		Msg:        fmt.Sprintf(msg, args...),
		StatusCode: statusCode,
		StackTrace: string(debug.Stack()),
		Env:        make(map[string]string),
	}
}

func (e *ServiceError) Error() string {
	return e.Msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
