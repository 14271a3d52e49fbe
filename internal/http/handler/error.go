package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"docmarket/internal/http/middleware"
	"docmarket/internal/model"
	"docmarket/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Price   *model.Money `json:"price,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

func writePaymentRequired(c *fiber.Ctx, price model.Money) error {
	return c.Status(fiber.StatusPaymentRequired).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    "PAYMENT_REQUIRED",
			Message: "payment required to read this document",
			Price:   &price,
		},
	})
}

// serviceErrors maps the service taxonomy onto status and code. Validation messages are
// safe to show; every other message is fixed.
var serviceErrors = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{service.ErrValidation, fiber.StatusBadRequest, "VALIDATION_FAILED", ""},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "resource not found"},
	{service.ErrDuplicateReference, fiber.StatusBadRequest, "DUPLICATE_REFERENCE", "transaction reference already submitted"},
	{service.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION", "claim is already in a terminal state"},
	{service.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required"},
	{service.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "not allowed"},
	{service.ErrNotPayable, fiber.StatusBadRequest, "NOT_PAYABLE", "document is free"},
	{service.ErrAlreadyEntitled, fiber.StatusConflict, "ALREADY_ENTITLED", "you already have access to this document"},
}

// writeServiceError renders an error returned by a service. Unknown errors are logged through
// the default slog logger and reported as INTERNAL_ERROR.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, m := range serviceErrors {
		if !errors.Is(err, m.err) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		return writeError(c, m.status, m.code, msg)
	}
	slog.Error("request failed",
		"request_id", requestIDFromCtx(c),
		"path", c.Path(),
		"error", err.Error(),
	)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", fe.Message)
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", fe.Message)
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
