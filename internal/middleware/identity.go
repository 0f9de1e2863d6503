package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/campus-market/internal/logger"
	"github.com/localnerve/campus-market/internal/services"
	"github.com/localnerve/campus-market/internal/types"
	"go.uber.org/zap"
)

// PrincipalKey is the fiber locals key holding the authenticated email
const PrincipalKey = "principal"

// RequireIdentity rejects requests without valid credentials
func RequireIdentity(auth services.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return identify(c, auth, true)
	}
}

// OptionalIdentity records the principal when the request carries valid
// credentials and passes anonymous requests through
func OptionalIdentity(auth services.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return identify(c, auth, false)
	}
}

// Principal returns the authenticated email, or "" for anonymous requests
func Principal(c *fiber.Ctx) string {
	email, _ := c.Locals(PrincipalKey).(string)
	return email
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// identify performs the authentication check
func identify(c *fiber.Ctx, auth services.Authenticator, required bool) error {
	creds := services.Credentials{
		Bearer:  bearerToken(c),
		Session: c.Cookies("cookie_session"),
	}

	if creds.Bearer == "" && creds.Session == "" {
		if required {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Bearer token or authorizer cookie \"cookie_session\" required",
				Type:    "identity.required",
			}
		}
		return c.Next()
	}

	email, err := auth.Authenticate(c.UserContext(), creds)
	if err != nil {
		log := logger.FromContext(c)
		if !required {
			log.Debug("Ignoring invalid credentials on optional route", zap.Error(err))
			return c.Next()
		}

		code := fiber.StatusUnauthorized
		if !errors.Is(err, types.ErrUnauthorized) {
			// the identity provider itself failed
			code = fiber.StatusServiceUnavailable
			log.Error("Identity provider unavailable", zap.Error(err))
		}
		return &types.CustomError{
			Code:    code,
			Message: "Invalid credentials: " + err.Error(),
			Type:    "identity.invalid",
		}
	}

	c.Locals(PrincipalKey, email)
	logger.WithContext(c, logger.FromContext(c).With(zap.String("principal", email)))
	return c.Next()
}
