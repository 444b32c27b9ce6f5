package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream failure")
	ErrInternal     = errors.New("internal error")
)

// AppError carries the status code and client-facing message for a failed request.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(message string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// Validation covers malformed bodies, missing required fields and domain
// rejections such as a duplicate review.
func Validation(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrValidation,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Upstream reports a failure of the media store. The cause is kept for logs
// but never shown to the client.
func Upstream(message string, err error) *AppError {
	return &AppError{
		Code:    "UPSTREAM",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     errors.Join(ErrUpstream, err),
	}
}

func Internal(err error) *AppError {
	msg := "an internal error occurred"
	if err != nil {
		msg = err.Error()
	}
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: msg,
		Status:  http.StatusInternalServerError,
		Err:     errors.Join(ErrInternal, err),
	}
}

// HTTPStatus returns the status code the error should be reported with.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
