package session

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	NewMemorySessionStore()

	app := fiber.New()
	app.Get("/login", func(c *fiber.Ctx) error {
		return SetSession(c, Tokens{Access: "acc", Refresh: "ref"}, &models.User{ID: 9, Email: "jane@example.com"})
	})
	app.Get("/intent", func(c *fiber.Ctx) error {
		if err := Intents(c).Save(&models.SubscriptionIntent{
			ID:        "i-1",
			Tier:      entitlements.TierPremium,
			Provider:  models.ProviderGCash,
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		return SetComposerTier(c, entitlements.TierStandard)
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		return ClearSession(c)
	})
	app.Get("/keys", func(c *fiber.Ctx) error {
		var present []string
		for _, k := range []string{KeyAccessToken, KeyRefreshToken, KeyUser, KeyPendingIntent, KeyComposerTier} {
			if GetSessionValue(c, k) != "" {
				present = append(present, k)
			}
		}
		return c.JSON(present)
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		s, ok := GetSession(c)
		if !ok {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(fiber.Map{"access": s.Tokens.Access, "email": s.User.Email})
	})
	return app
}

func sessionCookie(t *testing.T, resp *http.Response, current string) string {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name == "session_id" {
			return ck.Value
		}
	}
	return current
}

func do(t *testing.T, app *fiber.App, path, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestGetSessionRoundTrip(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, "/whoami", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = do(t, app, "/login", "")
	cookie := sessionCookie(t, resp, "")
	require.NotEmpty(t, cookie)

	resp = do(t, app, "/whoami", cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"access":"acc","email":"jane@example.com"}`, readBody(t, resp))
}

func TestClearSessionRemovesEveryKey(t *testing.T) {
	app := newTestApp(t)

	cookie := sessionCookie(t, do(t, app, "/login", ""), "")
	cookie = sessionCookie(t, do(t, app, "/intent", cookie), cookie)

	resp := do(t, app, "/keys", cookie)
	assert.JSONEq(t, `["access_token","refresh_token","user","pending_intent","composer_tier"]`, readBody(t, resp))

	do(t, app, "/logout", cookie)

	resp = do(t, app, "/keys", cookie)
	assert.Equal(t, "null", readBody(t, resp))

	resp = do(t, app, "/whoami", cookie)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIntentLifecycle(t *testing.T) {
	NewMemorySessionStore()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		intents := Intents(c)

		got, err := intents.Load()
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, intents.Save(&models.SubscriptionIntent{ID: "x", Tier: entitlements.TierStandard, Provider: models.ProviderStripe, ProviderRef: "cs_1"}))
		got, err = intents.Load()
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "cs_1", got.ProviderRef)
		assert.Equal(t, entitlements.TierStandard, got.Tier)

		require.NoError(t, intents.Clear())
		require.NoError(t, intents.Clear())
		got, err = intents.Load()
		require.NoError(t, err)
		assert.Nil(t, got)

		assert.Equal(t, entitlements.TierFree, ComposerTier(c))
		_, ok := ConfirmedComposerTier(c)
		assert.False(t, ok)

		require.NoError(t, SetComposerTier(c, entitlements.TierPremium))
		tier, ok := ConfirmedComposerTier(c)
		assert.True(t, ok)
		assert.Equal(t, entitlements.TierPremium, tier)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestSetSessionRotatesExistingRecord(t *testing.T) {
	app := newTestApp(t)
	app.Get("/login-and-intent", func(c *fiber.Ctx) error {
		if err := SetSession(c, Tokens{Access: "acc", Refresh: "ref"}, &models.User{ID: 9, Email: "jane@example.com"}); err != nil {
			return err
		}
		return Intents(c).Save(&models.SubscriptionIntent{ID: "i-2", Tier: entitlements.TierStandard, Provider: models.ProviderStripe})
	})

	before := sessionCookie(t, do(t, app, "/intent", ""), "")
	require.NotEmpty(t, before)

	after := sessionCookie(t, do(t, app, "/login", before), before)
	assert.NotEqual(t, before, after)

	resp := do(t, app, "/keys", after)
	assert.JSONEq(t, `["access_token","refresh_token","user","pending_intent","composer_tier"]`, readBody(t, resp))

	resp = do(t, app, "/whoami", before)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// writes after login in the same request land on the new record
	again := sessionCookie(t, do(t, app, "/login-and-intent", after), after)
	assert.NotEqual(t, after, again)
	resp = do(t, app, "/keys", again)
	assert.JSONEq(t, `["access_token","refresh_token","user","pending_intent","composer_tier"]`, readBody(t, resp))
}
