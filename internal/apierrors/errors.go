package apierrors

import (
	"fmt"
	"net/http"
)

// Error codes returned to API clients
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeMissingEmail        = "MISSING_EMAIL"
	CodeInvalidEmail        = "INVALID_EMAIL"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeUnsupportedCurrency = "UNSUPPORTED_CURRENCY"
	CodePreconditionFailed  = "PRECONDITION_FAILED"
	CodeProviderError       = "PROVIDER_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// APIError carries the HTTP status, a machine-readable code and a
// human-readable message for a failed request. StatusCode classifies the
// failure as client-caused (4xx) or server/provider-caused (5xx).
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// BadRequest builds a 400 error for bad or missing caller input
func BadRequest(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

// Unauthorized builds a 401 error
func Unauthorized(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

// UnprocessableEntity builds a 422 error for failed local preconditions
func UnprocessableEntity(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusUnprocessableEntity, Code: code, Message: message}
}

// BadGateway builds a 502 error for upstream provider failures, preserving
// the provider's message for diagnostics
func BadGateway(code string, err error) *APIError {
	return &APIError{StatusCode: http.StatusBadGateway, Code: code, Message: err.Error(), Err: err}
}

// InternalError builds a sanitized 500 error - never exposes internal details
func InternalError(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    "An internal error occurred. Please try again later.",
		Err:        err,
	}
}
