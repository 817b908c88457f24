package apperror

import (
	"errors"
	"net/http"
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}

// ErrEmailExists marks the duplicate-account rejection from the backend.
// The submission flow attaches it to the email field instead of surfacing
// a generic failure.
var ErrEmailExists = errors.New("EMAIL_EXISTS")

func EmailExists(message string) *AppError {
	return New(http.StatusConflict, message, ErrEmailExists)
}

func IsEmailExists(err error) bool {
	return errors.Is(err, ErrEmailExists)
}

// StatusCode extracts the HTTP status carried by err, or 0 when err is not
// an *AppError.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}
