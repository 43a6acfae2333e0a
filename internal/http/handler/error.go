package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"stickynote/internal/apperr"
	"stickynote/internal/http/middleware"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// respond writes a success envelope.
func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(envelope{
		Success:   true,
		Message:   message,
		RequestID: middleware.RequestIDFrom(c),
		Data:      data,
	})
}

// writeError writes a failure envelope. message must be safe for clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(envelope{
		Success:   false,
		Message:   message,
		Code:      code,
		RequestID: middleware.RequestIDFrom(c),
	})
}

// ErrorHandler renders every error returned by a handler or middleware as an
// envelope. Unclassified errors are logged and reported as a generic 500.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			switch fe.Code {
			case fiber.StatusBadRequest:
				return writeError(c, fe.Code, "BAD_REQUEST", "bad request")
			case fiber.StatusNotFound:
				return writeError(c, fe.Code, "NOT_FOUND", "resource not found")
			case fiber.StatusMethodNotAllowed:
				return writeError(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
			case fiber.StatusRequestEntityTooLarge:
				return writeError(c, fe.Code, "PAYLOAD_TOO_LARGE", "request body too large")
			default:
				return writeError(c, fe.Code, "INTERNAL_ERROR", "internal server error")
			}
		}

		kind := apperr.KindOf(err)
		if kind == apperr.KindInternal {
			log.ErrorContext(c.UserContext(), "request_failed",
				"request_id", middleware.RequestIDFrom(c),
				"method", c.Method(),
				"path", c.Path(),
				"error", err.Error(),
			)
			return writeError(c, fiber.StatusInternalServerError, kind.String(), "internal server error")
		}
		if kind == apperr.KindUnavailable {
			log.WarnContext(c.UserContext(), "dependency_unavailable",
				"request_id", middleware.RequestIDFrom(c),
				"error", err.Error(),
			)
		}
		return writeError(c, middleware.StatusOf(err), kind.String(), apperr.MessageOf(err, "internal server error"))
	}
}
