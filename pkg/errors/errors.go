package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	// Terminal profile-level errors, never retried.
	ErrorTypeNotFound  ErrorType = "not_found"
	ErrorTypeForbidden ErrorType = "forbidden"

	// ErrorTypeItem marks a single malformed or unfetchable post. Recovered
	// locally: the item is skipped and ingestion continues.
	ErrorTypeItem ErrorType = "item"

	// ErrorTypeStream marks a pagination/enumeration failure. The profile
	// degrades to a partial result if any posts were already collected.
	ErrorTypeStream ErrorType = "stream"

	// ErrorTypeSink marks a persistence failure, surfaced to the caller.
	ErrorTypeSink ErrorType = "sink"

	// Transport-level error types.
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a classified ingestion error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a classified error without an HTTP code
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Newf creates a classified error with a formatted message
func Newf(errorType ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: errorType, Message: fmt.Sprintf(format, args...)}
}

// TypeOf returns the error type of err, or ErrorTypeUnknown if err is not a
// classified error.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsNotFound reports whether err is a profile-absent error
func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// IsForbidden reports whether err is a private/inaccessible-profile error
func IsForbidden(err error) bool {
	return TypeOf(err) == ErrorTypeForbidden
}

// IsItem reports whether err is isolated to a single post
func IsItem(err error) bool {
	return TypeOf(err) == ErrorTypeItem
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500
	}
}
