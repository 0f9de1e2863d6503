package middleware_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/campus-market/internal/middleware"
	"github.com/localnerve/campus-market/internal/services"
	"github.com/localnerve/campus-market/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "middleware-secret"

func errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*types.CustomError); ok {
		return c.Status(e.Code).SendString(e.Type)
	}
	return fiber.DefaultErrorHandler(c, err)
}

func setupApp(required bool) *fiber.App {
	auth := services.NewJWTAuthenticator(secret)
	identity := middleware.OptionalIdentity(auth)
	if required {
		identity = middleware.RequireIdentity(auth)
	}

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Use(middleware.RequestID(zap.NewNop()))
	app.Get("/who", identity, func(c *fiber.Ctx) error {
		return c.SendString(middleware.Principal(c))
	})
	return app
}

func body(t *testing.T, app *fiber.App, token string) (int, string) {
	req := httptest.NewRequest("GET", "/who", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestRequireIdentity(t *testing.T) {
	app := setupApp(true)
	token, err := services.NewJWTAuthenticator(secret).IssueToken("a@campus.edu", time.Hour)
	require.NoError(t, err)

	status, text := body(t, app, token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "a@campus.edu", text)

	status, text = body(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "identity.required", text)

	status, text = body(t, app, "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "identity.invalid", text)
}

func TestOptionalIdentity(t *testing.T) {
	app := setupApp(false)
	token, err := services.NewJWTAuthenticator(secret).IssueToken("b@campus.edu", time.Hour)
	require.NoError(t, err)

	status, text := body(t, app, token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "b@campus.edu", text)

	status, text = body(t, app, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, text)

	status, text = body(t, app, "not-a-token")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, text)
}

func TestRequestID(t *testing.T) {
	app := setupApp(false)

	resp, err := app.Test(httptest.NewRequest("GET", "/who", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get("X-Request-ID"), 36)

	req := httptest.NewRequest("GET", "/who", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "caller-id", resp.Header.Get("X-Request-ID"))
}
