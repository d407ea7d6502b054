package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/backend"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/billing"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/constants"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/env"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/security"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/session"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/usercontext"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/viewmodel"
	payment_views "github.com/SuriyaPasupathi/proven-pro-frontend/views/payment"
)

// HandlePaymentReturn serves every URL a payment provider redirects back to.
func HandlePaymentReturn(c *fiber.Ctx) error {
	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		q = url.Values{}
	}

	out := resolver.Resolve(c.UserContext(), accessToken(c), ledgerUser(c), q, session.Intents(c))
	log.Infof("[Payment] %s resolved: %v", c.Path(), out.Trace)

	switch out.State {
	case billing.StateDone:
		if err := session.SetComposerTier(c, out.Tier); err != nil {
			log.Warnf("[Payment] could not store composer tier: %v", err)
		}
		msg := "Your " + out.Tier.Label() + " plan is active."
		if out.Destination == constants.RouteProfileCreate {
			msg += " Now create your profile."
		}
		return flashSuccess(c, msg, out.Destination)

	case billing.StateFailed:
		msg := "Your payment was not completed. No charge was confirmed."
		if out.Retryable {
			msg = "Your payment was not completed. You can try again with the same plan."
		}
		return renderPaymentStatus(c, http.StatusPaymentRequired, viewmodel.PaymentStatus{
			Title:    "Payment not completed",
			Message:  msg,
			RetryURL: out.Destination,
		})

	default:
		if errors.Is(out.Err, backend.ErrUnauthorized) {
			return handleAuthRejection(c, security.ResumeClaims{Return: c.OriginalURL()})
		}
		code := http.StatusBadGateway
		if errors.Is(out.Err, billing.ErrUnrecognizedReturn) {
			code = http.StatusBadRequest
		}
		return renderPaymentStatus(c, code, viewmodel.PaymentStatus{
			Title:        "We could not confirm your payment",
			Message:      "Something went wrong while activating your plan. If you were charged, contact us and we will sort it out.",
			RetryURL:     out.Destination,
			SupportEmail: env.GetEnv("SUPPORT_EMAIL", "support@provenpro.com"),
			ShowSupport:  true,
		})
	}
}

func renderPaymentStatus(c *fiber.Ctx, code int, status viewmodel.PaymentStatus) error {
	uc := usercontext.GetUserContext(c)
	layout := viewmodel.Layout{
		Page:     "payment",
		Title:    status.Title,
		LoggedIn: uc.IsLoggedIn,
		Username: uc.Username,
	}

	handler := adaptor.HTTPHandler(templ.Handler(payment_views.Status(layout, status), templ.WithStatus(code)))
	return handler(c)
}
