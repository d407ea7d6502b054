package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/controllers"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/cache"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/constants"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/env"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
	}

	reviewLimiter := limiter.New(limiter.Config{
		Max:          env.GetInt("REVIEW_RATE_LIMIT", 5),
		Expiration:   1 * time.Hour,
		KeyGenerator: controllers.ClientKey,
		LimitReached: controllers.HandleReviewRateLimit,
		Storage:      cache.NewStorage(cache.DBLimiter),
	})

	group := app.Group("", cors.New(), csrf.New(csrfConf))

	// Auth
	group.Get(constants.PublicRoute, middleware.RequireGuest, controllers.HandleAuthRegister)
	group.Get(constants.RouteRegister, middleware.RequireGuest, controllers.HandleAuthRegister)
	group.Post(constants.RouteRegister, middleware.RequireGuest, controllers.HandleAuthRegister)
	group.Get(constants.RouteLogin, middleware.RequireGuest, controllers.HandleAuthLogin)
	group.Post(constants.RouteLogin, controllers.HandleAuthLogin)
	group.Post(constants.RouteLogout, middleware.RequireAuth, controllers.HandleAuthLogout)
	group.Get(constants.RouteForgot, controllers.HandleForgotPassword)
	group.Post(constants.RouteForgot, controllers.HandleForgotPassword)
	group.Get(constants.RouteReset, controllers.HandleResetPassword)
	group.Get(constants.RouteReset+"/:uid/:token", controllers.HandleResetPassword)
	group.Post(constants.RouteReset, controllers.HandleResetPassword)

	// Plans. Selecting without a session detours through login.
	group.Get(constants.RouteSubscription, controllers.HandleSubscriptionPage)
	group.Post(constants.RouteSubscription, controllers.HandleSubscriptionSelect)

	// Profile
	group.Get(constants.RouteProfile, middleware.RequireAuth, controllers.HandleProfileView)
	group.Get(constants.RouteProfileCreate, middleware.RequireAuth, controllers.HandleProfileCreate)
	group.Post(constants.RouteProfileCreate, middleware.RequireAuth, controllers.HandleProfileCreate)
	group.Get(constants.RouteProfileEdit, middleware.RequireAuth, controllers.HandleProfileEdit)
	group.Post(constants.RouteProfileEdit, middleware.RequireAuth, controllers.HandleProfileEdit)

	// Sharing
	group.Get(constants.RouteShare, middleware.RequireAuth, controllers.HandleShareRequest)
	group.Post(constants.RouteShare, middleware.RequireAuth, controllers.HandleShareRequest)
	group.Get(constants.RouteVerifyProfile, controllers.HandleVerifyProfile)
	group.Get(constants.RouteVerifyProfile+"/:token", controllers.HandleVerifyProfile)
	group.Post(constants.RouteVerifyProfile+"/:token/review", reviewLimiter, controllers.HandleSubmitReview)
}
