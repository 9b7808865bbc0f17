package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scrivehq/scrive/internal/pkg/usercontext"
)

// RequireAPISessionAuth ensures a logged-in session for API routes and
// answers with JSON 401 instead of a redirect.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	v := c.Locals(usercontext.KeyFromProtected)
	loggedIn := false
	if b, ok := v.(bool); ok {
		loggedIn = b
	}
	if !loggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}
