// Package apperr defines the error taxonomy shared by every entry point.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	InvalidArgument  Code = "invalid-argument"
	Unauthenticated  Code = "unauthenticated"
	PermissionDenied Code = "permission-denied"
	NotFound         Code = "not-found"
	Internal         Code = "internal"
)

// ErrNotFound is returned by stores when a document or object does not exist.
var ErrNotFound = errors.New("not found")

// Error carries a taxonomy code, a caller-facing message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that keeps err as its cause.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf reports the taxonomy code of err. Errors outside the taxonomy are Internal.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	if errors.Is(err, ErrNotFound) {
		return NotFound
	}
	return Internal
}

// HTTPStatus maps a code to the status used by the HTTP surface.
func HTTPStatus(code Code) int {
	switch code {
	case InvalidArgument:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case PermissionDenied:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
