package constants

import "net/http"

// APIError represents a standardized API error with code, message, and HTTP status.
// Use these predefined errors for consistent API responses across the application.
type APIError struct {
	Code    string
	Message string
	Status  int
}

// WithMessage returns a copy of the APIError with a custom message.
// Useful for validation errors or other dynamic messages.
func (e APIError) WithMessage(message string) APIError {
	return APIError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
	}
}

// Common errors - shared across multiple modules
var (
	ErrInvalidRequestBody = APIError{
		Code:    CodeInvalidRequest,
		Message: MsgInvalidRequestBody,
		Status:  http.StatusBadRequest,
	}
	ErrInternalError = APIError{
		Code:    CodeInternalError,
		Message: MsgInternalError,
		Status:  http.StatusInternalServerError,
	}
	ErrUnauthorized = APIError{
		Code:    CodeUnauthorized,
		Message: MsgUnauthorized,
		Status:  http.StatusUnauthorized,
	}
	ErrForbidden = APIError{
		Code:    CodeForbidden,
		Message: MsgForbidden,
		Status:  http.StatusForbidden,
	}
	ErrRateLimited = APIError{
		Code:    CodeRateLimited,
		Message: MsgRateLimited,
		Status:  http.StatusTooManyRequests,
	}
)

// Share-specific errors, one per terminal state of the share access flow.
var (
	ErrShareNotFound = APIError{
		Code:    CodeShareNotFound,
		Message: MsgShareNotFound,
		Status:  http.StatusNotFound,
	}
	ErrShareExpired = APIError{
		Code:    CodeShareExpired,
		Message: MsgShareExpired,
		Status:  http.StatusGone,
	}
	ErrSharePrivate = APIError{
		Code:    CodeSharePrivate,
		Message: MsgSharePrivate,
		Status:  http.StatusForbidden,
	}
	ErrOwnerNotFound = APIError{
		Code:    CodeOwnerNotFound,
		Message: MsgOwnerNotFound,
		Status:  http.StatusNotFound,
	}
	ErrTokenMissing = APIError{
		Code:    CodeTokenMissing,
		Message: MsgTokenMissing,
		Status:  http.StatusUnauthorized,
	}
	ErrUpstreamFailed = APIError{
		Code:    CodeUpstreamFailed,
		Message: MsgUpstreamFailed,
		Status:  http.StatusInternalServerError,
	}
	ErrInvalidShareType = APIError{
		Code:    CodeInvalidType,
		Message: MsgInvalidType,
		Status:  http.StatusBadRequest,
	}
)
