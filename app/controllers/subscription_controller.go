package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/billing"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/constants"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/middleware"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/security"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/session"
)

func HandleSubscriptionPage(c *fiber.Ctx) error {
	data := fiber.Map{
		"Plans":           billing.Plans,
		"DefaultProvider": defaultProvider,
	}
	if isLoggedIn(c) {
		if tier, ok := session.ConfirmedComposerTier(c); ok {
			data["Current"] = tier
		}
	}
	return render(c, "subscription/plans", "Plans", data)
}

// HandleSubscriptionSelect starts the purchase of a plan. Without a session
// the selection is carried through login and resumed there.
func HandleSubscriptionSelect(c *fiber.Ctx) error {
	plan := c.FormValue("plan")
	provider := c.FormValue("provider")

	sel, err := billing.ParseSelection(plan, provider, defaultProvider)
	if err != nil {
		return flashError(c, "Please choose one of the available plans.", constants.RouteSubscription)
	}

	if !isLoggedIn(c) {
		return flashError(c, "Please log in to continue with your plan.", middleware.LoginURL(security.ResumeClaims{
			Plan:     string(sel.Tier),
			Provider: string(sel.Provider),
		}))
	}

	return startSelection(c, accessToken(c), string(sel.Tier), string(sel.Provider))
}
