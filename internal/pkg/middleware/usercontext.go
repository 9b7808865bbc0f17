package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/scrivehq/scrive/internal/pkg/session"
	"github.com/scrivehq/scrive/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session into a UserContext local for
// every request so controllers never touch the session store directly.
func UserContextMiddleware(c *fiber.Ctx) error {
	// Goth uses its own fiber session store and relies on per-request
	// locals. Skip our app session on /auth/* to prevent cross-store
	// collisions.
	if strings.HasPrefix(c.Path(), "/auth/") {
		return c.Next()
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{IsLoggedIn: false})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{IsLoggedIn: false})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	email := session.GetSessionValue(c, usercontext.KeyUserEmail)
	name := session.GetSessionValue(c, usercontext.KeyUserName)

	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		UserID:     userID.(uint),
		Email:      email,
		Name:       name,
		IsLoggedIn: true,
	})
	c.Locals(usercontext.KeyFromProtected, true)

	return c.Next()
}
