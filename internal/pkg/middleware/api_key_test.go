package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedApp() *fiber.App {
	app := fiber.New()
	app.Post("/pricing", AdminAPIKeyMiddleware(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestAdminAPIKeyMiddlewareDisabledWithoutKey(t *testing.T) {
	t.Setenv("ADMIN_API_KEY", "")
	app := newGuardedApp()

	req := httptest.NewRequest(http.MethodPost, "/pricing", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestAdminAPIKeyMiddlewareRejectsMissingKey(t *testing.T) {
	t.Setenv("ADMIN_API_KEY", "secret-key")
	app := newGuardedApp()

	req := httptest.NewRequest(http.MethodPost, "/pricing", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminAPIKeyMiddlewareRejectsWrongKey(t *testing.T) {
	t.Setenv("ADMIN_API_KEY", "secret-key")
	app := newGuardedApp()

	req := httptest.NewRequest(http.MethodPost, "/pricing", nil)
	req.Header.Set("X-API-Key", "wrong-key")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminAPIKeyMiddlewareAcceptsHeaderAndBearer(t *testing.T) {
	t.Setenv("ADMIN_API_KEY", "secret-key")
	app := newGuardedApp()

	req := httptest.NewRequest(http.MethodPost, "/pricing", nil)
	req.Header.Set("X-API-Key", "secret-key")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/pricing", nil)
	req.Header.Set("Authorization", "Bearer secret-key")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
