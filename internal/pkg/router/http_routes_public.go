package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/controllers"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/constants"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Google OAuth
	app.Get("/auth/:provider", controllers.HandleOAuthBegin)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)

	// Payment provider returns. Providers redirect with GET and no CSRF token.
	for _, path := range constants.PaymentReturnRoutes {
		app.Get(path, middleware.RequireAuth, controllers.HandlePaymentReturn)
	}
}
