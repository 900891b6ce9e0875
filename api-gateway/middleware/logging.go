package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/retail-settlement/pkg/logger"
)

// StructuredLoggingMiddleware logs one entry per gateway request
func StructuredLoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		traceID := ""
		if span := trace.SpanFromContext(c.UserContext()); span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		}

		event := logger.WithContext(c.UserContext()).Info()
		if status >= 500 {
			event = logger.WithContext(c.UserContext()).Error()
		} else if status >= 400 {
			event = logger.WithContext(c.UserContext()).Warn()
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", duration).
			Str("ip", c.IP()).
			Str("trace_id", traceID).
			Str("request_id", c.Get("X-Request-Id")).
			Msg("Gateway request")

		if err != nil {
			logger.Error(c.UserContext()).
				Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("Gateway request error")
		}

		return err
	}
}
