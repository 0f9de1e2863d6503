package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/localnerve/campus-market/internal/logger"
	"go.uber.org/zap"
)

// RequestID tags each request with an X-Request-ID, reusing the caller's
// when present, and stores a logger carrying it in the request context
func RequestID(base *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(logger.RequestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(logger.RequestIDKey, id)
		c.Locals("requestid", id)
		logger.WithContext(c, base.With(zap.String("request_id", id)))
		return c.Next()
	}
}
