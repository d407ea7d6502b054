package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/security"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/session"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/usercontext"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("RESUME_TOKEN_SECRET", "middleware-secret")
	session.NewMemorySessionStore()

	app := fiber.New()
	app.Use(UserContextMiddleware)
	app.Get("/test/login", func(c *fiber.Ctx) error {
		return session.SetSession(c, session.Tokens{Access: "acc"}, &models.User{ID: 3, Username: "sam"})
	})
	app.Get("/private", RequireAuth, func(c *fiber.Ctx) error {
		return c.SendString(usercontext.GetUsername(c))
	})
	app.Post("/private", RequireAuth, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/login", RequireGuest, func(c *fiber.Ctx) error {
		return c.SendString("login")
	})
	return app
}

func request(t *testing.T, app *fiber.App, method, target, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := request(t, app, fiber.MethodGet, "/test/login", "")
	for _, ck := range resp.Cookies() {
		if ck.Name == "session_id" {
			return ck.Value
		}
	}
	t.Fatal("no session cookie")
	return ""
}

func TestRequireAuthCarriesReturnPath(t *testing.T) {
	app := newTestApp(t)

	resp := request(t, app, fiber.MethodGet, "/private?tab=reviews", "")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/login", loc.Path)

	claims, err := security.VerifyResumeToken(loc.Query().Get("resume"), security.ResumeSecret())
	require.NoError(t, err)
	assert.Equal(t, "/private?tab=reviews", claims.Return)
	assert.Empty(t, claims.Plan)
}

func TestRequireAuthPostGoesToPlainLogin(t *testing.T) {
	app := newTestApp(t)

	resp := request(t, app, fiber.MethodPost, "/private", "")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRequireAuthLetsSessionThrough(t *testing.T) {
	app := newTestApp(t)
	cookie := login(t, app)

	resp := request(t, app, fiber.MethodGet, "/private", cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = request(t, app, fiber.MethodGet, "/login", cookie)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/profile", resp.Header.Get("Location"))

	resp = request(t, app, fiber.MethodGet, "/login?resume=abc", cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
