package oauth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/cache"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/env"
)

// Setup registers the Google provider and keeps OAuth state in Redis.
// It is safe to call multiple times; providers will just be re-registered.
func Setup() {
	setupProviders()

	gothfiber.SessionStore = session.New(session.Config{
		Storage:        cache.NewStorage(cache.DBOAuth),
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     1 * time.Hour,
	})
}

// SetupMemory is Setup without Redis, for tests and local runs.
func SetupMemory() {
	setupProviders()

	gothfiber.SessionStore = session.New(session.Config{
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
	})
}

func setupProviders() {
	goth.UseProviders(
		google.New(
			env.GetEnv("GOOGLE_KEY", ""),
			env.GetEnv("GOOGLE_SECRET", ""),
			CallbackBase()+"/auth/google/callback",
			"openid", "email", "profile",
		),
	)
}

// CallbackBase is the public origin the browser comes back to.
func CallbackBase() string {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "4000")
	}
	return base
}
