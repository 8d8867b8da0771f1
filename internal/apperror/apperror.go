package apperror

import (
	"fmt"
	"net/http"
)

// Code is the machine-readable error code clients branch on.
type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeNotFound           Code = "NOT_FOUND"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeInternal           Code = "INTERNAL_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeDatabase           Code = "DATABASE_ERROR"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"
	CodeThirdPartyAPI      Code = "THIRD_PARTY_API_ERROR"
)

// AppError is the single typed application error. It is built once where the
// failure is detected and consumed once by the terminal response writer;
// never mutated in between.
//
// Operational marks expected failures (bad input, missing rows) as opposed to
// programming-error-class ones; it only selects the log severity, the
// response shape is identical.
type AppError struct {
	StatusCode  int
	Code        Code
	Message     string
	Details     map[string]any
	Operational bool
	cause       error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.cause }

// WithDetails attaches a diagnostics bag; returns the same error for chaining
// at construction sites only.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// WithCause records the underlying error for logs; it is never serialized to
// clients.
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

func BadRequest(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: CodeBadRequest, Message: message, Operational: true}
}

func Validation(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: CodeValidation, Message: message, Operational: true}
}

func Unauthorized(message string) *AppError {
	return &AppError{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message, Operational: true}
}

func Forbidden(message string) *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Code: CodeForbidden, Message: message, Operational: true}
}

func NotFound(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Code: CodeNotFound, Message: message, Operational: true}
}

func RateLimitExceeded(message string) *AppError {
	return &AppError{StatusCode: http.StatusTooManyRequests, Code: CodeRateLimitExceeded, Message: message, Operational: true}
}

func Internal(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Code: CodeInternal, Message: message}
}

func ServiceUnavailable(message string) *AppError {
	return &AppError{StatusCode: http.StatusServiceUnavailable, Code: CodeServiceUnavailable, Message: message, Operational: true}
}

func Database(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Code: CodeDatabase, Message: message, Operational: true}
}

func ThirdPartyAPI(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadGateway, Code: CodeThirdPartyAPI, Message: message, Operational: true}
}

// Is reports whether err is an *AppError with the given code.
func Is(err error, code Code) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
