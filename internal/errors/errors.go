package errors

import (
	"fmt"
	"net/http"
)

// AppError is a domain failure that already knows its HTTP status.
// Services declare package-level AppErrors as sentinels and compare with errors.Is.
type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func New(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func BadRequest(code, message string) *AppError {
	return New(http.StatusBadRequest, code, message)
}

func Unauthenticated(code, message string) *AppError {
	return New(http.StatusUnauthorized, code, message)
}

func Forbidden(code, message string) *AppError {
	return New(http.StatusForbidden, code, message)
}

func NotFound(code, message string) *AppError {
	return New(http.StatusNotFound, code, message)
}

func Internal() *AppError {
	return New(http.StatusInternalServerError, InternalServerError, "Something went wrong")
}

// InvalidIDError reports an identifier that could not be parsed
type InvalidIDError struct {
	Field string
	Value string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("Invalid %s: %q", e.Field, e.Value)
}
