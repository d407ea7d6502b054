package middleware

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/constants"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/security"
	icuser "github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/usercontext"
)

// ResumeTTL bounds how long a login detour may take.
const ResumeTTL = 30 * time.Minute

// RequireAuth ensures a logged-in web session; redirects to /login if missing.
// GET requests come back to the same URL after login.
func RequireAuth(c *fiber.Ctx) error {
	if icuser.IsLoggedIn(c) {
		return c.Next()
	}

	if c.Method() != fiber.MethodGet {
		return c.Redirect(constants.RouteLogin, fiber.StatusSeeOther)
	}
	return c.Redirect(LoginURL(security.ResumeClaims{Return: c.OriginalURL()}), fiber.StatusSeeOther)
}

// RequireGuest sends logged-in users away from the auth pages.
func RequireGuest(c *fiber.Ctx) error {
	if icuser.IsLoggedIn(c) && c.Query("resume") == "" {
		return c.Redirect(constants.RouteProfile, fiber.StatusSeeOther)
	}
	return c.Next()
}

// LoginURL builds /login?resume=... for a flow that should continue after login.
func LoginURL(claims security.ResumeClaims) string {
	token, err := security.GenerateResumeToken(claims, ResumeTTL, security.ResumeSecret())
	if err != nil {
		log.Warnf("[Auth] could not sign resume token: %v", err)
		return constants.RouteLogin
	}
	return constants.RouteLogin + "?resume=" + url.QueryEscape(token)
}
