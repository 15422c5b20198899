package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fixlocal/fixlocal/internal/pkg/env"
	"github.com/fixlocal/fixlocal/internal/pkg/logging"
)

// AdminAPIKeyMiddleware guards the pricing write endpoints. The expected key
// comes from ADMIN_API_KEY; when unset the guard is disabled so local
// development works without configuration.
func AdminAPIKeyMiddleware() fiber.Handler {
	expected := strings.TrimSpace(env.GetEnv("ADMIN_API_KEY", ""))
	if expected == "" {
		logging.Module("middleware").Warn("ADMIN_API_KEY not set, pricing write endpoints are unprotected")
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}
	expectedHash := sha256.Sum256([]byte(expected))

	return func(c *fiber.Ctx) error {
		apiKey := extractAPIKeyFromHeader(c)
		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing API key"})
		}

		gotHash := sha256.Sum256([]byte(apiKey))
		if subtle.ConstantTimeCompare(expectedHash[:], gotHash[:]) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid API key"})
		}

		return c.Next()
	}
}

func extractAPIKeyFromHeader(c *fiber.Ctx) string {
	apiKey := strings.TrimSpace(c.Get("X-API-Key"))
	if apiKey != "" {
		return apiKey
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
