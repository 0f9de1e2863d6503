package logger

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	RequestIDKey = "X-Request-ID"
	localsKey    = "logger"
)

// WithContext stores a request scoped logger in the fiber context
func WithContext(c *fiber.Ctx, l *zap.Logger) {
	c.Locals(localsKey, l)
}

// FromContext retrieves the logger from fiber.Ctx with the request ID
func FromContext(c *fiber.Ctx) *zap.Logger {
	if l, ok := c.Locals(localsKey).(*zap.Logger); ok {
		return l
	}

	requestID := c.Get(RequestIDKey)
	if requestID == "" {
		requestID = "unknown"
	}
	return GetLogger().With(zap.String("request_id", requestID))
}
