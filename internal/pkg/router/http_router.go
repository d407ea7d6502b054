package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/controllers"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/backend"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/billing"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/cache"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/env"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/middleware"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/oauth"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// backend client and payment ledger
	controllers.Initialize(
		backend.NewClientFromEnv(),
		billing.NewRedisLedger(cache.GetClient(), env.GetDuration("PAYMENT_LEDGER_TTL", billing.DefaultLedgerTTL)),
		oauth.CallbackBase(),
	)

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
