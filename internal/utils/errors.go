package utils

import "fmt"

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrConflict     = "CONFLICT"
	ErrInvalidInput = "VALIDATION_ERROR"

	// Authentication/Authorization errors
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN" // Viewer is authenticated but doesn't have permission
	ErrInvalidToken = "INVALID_TOKEN"

	// Backend/network failure; surfaced to the caller, never retried here
	ErrTransientIO = "TRANSIENT_IO"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// Specific error creators for common cases
func NewPostNotFoundError(postID string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: "Post not found: " + postID,
	}
}

func NewCommentNotFoundError(commentID string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: "Comment not found: " + commentID,
	}
}

func NewForbiddenError(reason string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: "Forbidden: " + reason,
	}
}

func NewValidationError(reason string) *AppError {
	return &AppError{
		Code:    ErrInvalidInput,
		Message: reason,
	}
}

func NewTransientIOError(operation string, originalErr error) *AppError {
	return &AppError{
		Code:    ErrTransientIO,
		Message: fmt.Sprintf("Backend failure during %s", operation),
		Origin:  originalErr,
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound:
		return 404 // http.StatusNotFound
	case ErrInvalidInput:
		return 400 // http.StatusBadRequest
	case ErrUnauthorized, ErrInvalidToken:
		return 401 // http.StatusUnauthorized
	case ErrForbidden:
		return 403 // http.StatusForbidden
	case ErrConflict:
		return 409 // http.StatusConflict
	case ErrTransientIO:
		return 502 // http.StatusBadGateway
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
