package serr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ServiceError is an error that knows which HTTP status it maps to. Env holds
// request details that are logged but never sent to the client.
type ServiceError struct {
	Err        error
	Msg        string
	StackTrace string
	StatusCode int
	Env        map[string]string
}

func NewServiceError(err error, statusCode int, msg string, args ...any) *ServiceError {
	return &ServiceError{
		Err:        err,
		Msg:        fmt.Sprintf(msg, args...),
		StatusCode: statusCode,
		StackTrace: string(debug.Stack()),
		Env:        make(map[string]string),
	}
}

// With adds a key to Env and returns the same error for chaining.
func (e *ServiceError) With(key, value string) *ServiceError {
	e.Env[key] = value
	return e
}

func (e *ServiceError) Error() string {
	return e.Msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// StatusCode returns the status of the first ServiceError in err's chain, or def.
func StatusCode(err error, def int) int {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.StatusCode
	}

	return def
}
