package controllers

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedApp(cfg fiber.Config) *fiber.App {
	app := fiber.New(cfg)
	app.Post("/review", limiter.New(limiter.Config{
		Max:          2,
		Expiration:   time.Hour,
		KeyGenerator: ClientKey,
	}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func postWithForwardedFor(t *testing.T, app *fiber.App, xff string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/review", nil)
	req.Header.Set(fiber.HeaderXForwardedFor, xff)
	req.Header.Set("CF-Connecting-IP", xff)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestClientKeyIgnoresForwardingHeadersFromUntrustedPeer(t *testing.T) {
	app := newLimitedApp(fiber.Config{
		EnableTrustedProxyCheck: true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
	})

	accepted := 0
	for i := 0; i < 10; i++ {
		if postWithForwardedFor(t, app, fmt.Sprintf("203.0.113.%d", i+1)) == fiber.StatusNoContent {
			accepted++
		}
	}
	assert.Equal(t, 2, accepted)
}

func TestClientKeyIgnoresForwardingHeadersWithoutProxyCheck(t *testing.T) {
	app := newLimitedApp(fiber.Config{})

	accepted := 0
	for i := 0; i < 5; i++ {
		if postWithForwardedFor(t, app, fmt.Sprintf("198.51.100.%d", i+1)) == fiber.StatusNoContent {
			accepted++
		}
	}
	assert.Equal(t, 2, accepted)
}

func TestClientKeyUsesForwardingHeadersFromTrustedProxy(t *testing.T) {
	app := newLimitedApp(fiber.Config{
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0"},
		ProxyHeader:             fiber.HeaderXForwardedFor,
	})

	assert.Equal(t, fiber.StatusNoContent, postWithForwardedFor(t, app, "203.0.113.1"))
	assert.Equal(t, fiber.StatusNoContent, postWithForwardedFor(t, app, "203.0.113.1"))
	assert.Equal(t, fiber.StatusTooManyRequests, postWithForwardedFor(t, app, "203.0.113.1"))

	// a different client behind the same proxy has its own bucket
	assert.Equal(t, fiber.StatusNoContent, postWithForwardedFor(t, app, "203.0.113.2"))
}
