package middleware

import (
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"

	"stickynote/internal/logging"
)

// Logger writes one access log line per request with request_id, method,
// path, status and latency in milliseconds. trace_id is added when the request
// carries a sampled span.
func Logger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		attrs := []any{
			"request_id", RequestIDFrom(c),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", float64(time.Since(start).Microseconds()) / 1000,
		}
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			attrs = append(attrs, "trace_id", sc.TraceID().String())
		}
		if principal := PrincipalID(c); principal != "" {
			attrs = append(attrs, "principal_id", principal)
		}

		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		log.Log(c.UserContext(), level, "http_request", attrs...)
		return err
	}
}

// LoggerWithWriter is Logger with a JSON logger on w, timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logging.New(w, loc, slog.LevelInfo))
}
