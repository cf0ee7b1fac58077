package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pagination captures pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ErrorBody carries error details inside the response envelope.
type ErrorBody struct {
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// APIResponse is the uniform envelope every endpoint returns.
type APIResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
	Message    string      `json:"message"`
	Timestamp  time.Time   `json:"timestamp"`
	RequestID  string      `json:"request_id,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// NewPagination derives pagination metadata from page, limit and total counts.
func NewPagination(page, limit int, total int64) Pagination {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 1
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success payload using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC(),
		RequestID: requestID(c),
	})
}

// SendPage sends a successful paginated list response.
func SendPage(c *fiber.Ctx, message string, data interface{}, pagination Pagination) error {
	if message == "" {
		message = "success"
	}

	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success:    true,
		Data:       data,
		Message:    message,
		Timestamp:  time.Now().UTC(),
		RequestID:  requestID(c),
		Pagination: &pagination,
	})
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	return SendErrorWithDetails(c, status, message, "", nil)
}

// SendErrorWithDetails sends an error response carrying a machine-readable
// code and optional details payload.
func SendErrorWithDetails(c *fiber.Ctx, status int, message, code string, details interface{}) error {
	if message == "" {
		message = "error"
	}
	if code == "" {
		code = defaultErrorCode(status)
	}

	return c.Status(status).JSON(APIResponse{
		Success:   false,
		Error:     &ErrorBody{Code: code, Details: details},
		Message:   message,
		Timestamp: time.Now().UTC(),
		RequestID: requestID(c),
	})
}

func requestID(c *fiber.Ctx) string {
	if v := c.Locals("correlation_id"); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func defaultErrorCode(status int) string {
	switch status {
	case fiber.StatusUnauthorized:
		return "unauthenticated"
	case fiber.StatusForbidden:
		return "forbidden"
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusTooManyRequests:
		return "rate_limited"
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "validation_failed"
	default:
		return "internal"
	}
}
