package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/session"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request
func UserContextMiddleware(c *fiber.Ctx) error {
	// Goth keeps its own fiber session on /auth/*.
	if strings.HasPrefix(c.Path(), "/auth/") {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	sess, ok := session.GetSession(c)
	if !ok {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	userCtx := usercontext.UserContext{
		IsLoggedIn:  true,
		AccessToken: sess.Tokens.Access,
	}
	if sess.User != nil {
		userCtx.UserID = sess.User.ID
		userCtx.Username = sess.User.DisplayName()
		userCtx.Email = sess.User.Email
	}

	c.Locals(usercontext.KeyUserContext, userCtx)
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUsername, userCtx.Username)

	return c.Next()
}
