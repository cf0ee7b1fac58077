package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an application error for HTTP mapping.
type Kind string

// Error kinds recognised by the central error handler.
const (
	KindUnauthenticated  Kind = "unauthenticated"
	KindForbidden        Kind = "forbidden"
	KindNotFound         Kind = "not_found"
	KindRateLimited      Kind = "rate_limited"
	KindValidationFailed Kind = "validation_failed"
	KindInternal         Kind = "internal"
)

// Error is a structured application error carrying a kind and an optional
// retry hint for rate-limited responses.
type Error struct {
	Kind       Kind
	Message    string
	RetryAfter int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindRateLimited:
		return fiber.StatusTooManyRequests
	case KindValidationFailed:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Unauthenticated builds a 401 error.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// Forbidden builds a 403 error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// RateLimited builds a 429 error with a retry hint in seconds.
func RateLimited(message string, retryAfter int) *Error {
	return &Error{Kind: KindRateLimited, Message: message, RetryAfter: retryAfter}
}

// From extracts an *Error from an error chain, or nil when absent.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
