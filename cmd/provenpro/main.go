package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/cache"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/env"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/router"
	"github.com/SuriyaPasupathi/proven-pro-frontend/views"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	cache.SetupCache()

	// init fiber app
	app := fiber.New(fiber.Config{
		Views:     views.NewEngine(),
		BodyLimit: 64 << 20, // profile video plus form fields

		// forwarding headers count only from these peers
		EnableTrustedProxyCheck: true,
		TrustedProxies:          env.GetList("TRUSTED_PROXIES"),
		ProxyHeader:             env.GetEnv("PROXY_HEADER", fiber.HeaderXForwardedFor),
		EnableIPValidation:      true,
	})

	// ignore favicon
	app.Use(favicon.New())

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "change-me"),
		},
	}), monitor.New(monitor.Config{Title: "ProvenPro Metrics"}))

	// ROUTER
	router.InstallRouter(app)

	return app
}
