package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// DefaultHeader is the request header carrying the API key.
const DefaultHeader = "X-API-KEY"

// Config holds the settings of the API key middleware.
type Config struct {
	// ApiKey is the expected key. An empty key rejects every request.
	ApiKey string
	// Header overrides DefaultHeader.
	Header string
}

// New returns a middleware that rejects requests without the configured API key.
// Rejections carry {"error":"Unauthorized"} and status 401.
func New(cfg Config) fiber.Handler {
	header := cfg.Header
	if header == "" {
		header = DefaultHeader
	}
	expected := []byte(cfg.ApiKey)

	return func(c *fiber.Ctx) error {
		provided := c.Get(header)
		if len(expected) == 0 || provided == "" ||
			subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Next()
	}
}
