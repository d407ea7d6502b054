package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/backend"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/constants"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/env"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/middleware"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/security"
)

// resumeCookie carries a resume token across the provider round trip.
const resumeCookie = "pp_resume"

// HandleOAuthBegin remembers a pending resume token, then hands over to goth.
func HandleOAuthBegin(c *fiber.Ctx) error {
	if resume := c.Query("resume"); resume != "" {
		if _, err := security.VerifyResumeToken(resume, security.ResumeSecret()); err == nil {
			c.Cookie(&fiber.Cookie{
				Name:     resumeCookie,
				Value:    resume,
				Path:     "/auth",
				Expires:  time.Now().Add(middleware.ResumeTTL),
				HTTPOnly: true,
				Secure:   !env.IsDev(),
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
	}
	return gothfiber.BeginAuthHandler(c)
}

// HandleOAuthCallback exchanges the provider ID token for backend tokens
// and logs the user in.
func HandleOAuthCallback(c *fiber.Ctx) error {
	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		log.Warnf("[OAuth] completing %s failed: %v", c.Params("provider"), err)
		return flashError(c, "Sign in with Google failed. Please try again.", constants.RouteLogin)
	}
	if u.IDToken == "" {
		log.Warnf("[OAuth] provider %s returned no id token", u.Provider)
		return flashError(c, "Sign in with Google failed. Please try again.", constants.RouteLogin)
	}

	auth, err := api.GoogleAuth(c.UserContext(), u.IDToken)
	if err != nil {
		log.Warnf("[OAuth] backend exchange failed: %v", err)
		return flashError(c, backend.Message(err), constants.RouteLogin)
	}

	resume := c.Cookies(resumeCookie)
	if resume != "" {
		c.Cookie(&fiber.Cookie{
			Name:     resumeCookie,
			Path:     "/auth",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
		})
	}

	return afterLogin(c, auth, resume)
}
