package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the domain failure taxonomy. Services wrap these with
// fmt.Errorf("...: %w", ...) so callers can match with errors.Is while the
// message keeps the offending plate/box/yard context.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrDuplicated          = errors.New("duplicated")
	ErrResourceInUse       = errors.New("resource in use")
	ErrOperationNotAllowed = errors.New("operation not allowed")
)

// InvalidInput wraps ErrInvalidInput with a formatted message
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}

// NotFound wraps ErrNotFound with a formatted message
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Duplicated wraps ErrDuplicated with a formatted message
func Duplicated(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrDuplicated)...)
}

// ResourceInUse wraps ErrResourceInUse with a formatted message
func ResourceInUse(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrResourceInUse)...)
}

// OperationNotAllowed wraps ErrOperationNotAllowed with a formatted message
func OperationNotAllowed(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrOperationNotAllowed)...)
}

// HTTPStatus maps a domain error to the HTTP status code the API returns
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicated), errors.Is(err, ErrResourceInUse):
		return http.StatusConflict
	case errors.Is(err, ErrOperationNotAllowed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
