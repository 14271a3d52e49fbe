package middleware

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"docmarket/internal/logger"
)

// Logger logs each HTTP request as one JSON line with request_id, method, path, status and
// latency (milliseconds). request_id comes from the RequestID middleware.
func Logger(l *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		l.Info("http_request",
			"request_id", rid,
			"method", c.Method(),
			"path", c.Path(),
			"status", responseStatus(c, err),
			"latency", float64(time.Since(start).Microseconds())/1000,
		)
		return err
	}
}

// LoggerWithWriter is Logger writing to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logger.New(w, loc))
}

// responseStatus is the status the client will see. The global error handler has not run yet
// when middleware regains control, so a returned error decides it.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
