package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/backend"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/billing"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/constants"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/env"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/middleware"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/security"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/session"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/usercontext"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/viewmodel"
	"github.com/SuriyaPasupathi/proven-pro-frontend/views"
)

var (
	api             *backend.Client
	selector        *billing.Selector
	resolver        *billing.Resolver
	defaultProvider models.Provider
)

// Initialize wires the controllers to the backend. publicBase is the origin
// payment providers redirect back to.
func Initialize(client *backend.Client, ledger billing.Ledger, publicBase string) {
	api = client
	selector = billing.NewSelector(client, publicBase)
	resolver = billing.NewResolver(client, ledger)

	p, err := models.ParseProvider(env.GetEnv("PAYMENT_PROVIDER", string(models.ProviderGCash)))
	if err != nil {
		log.Warnf("[Controllers] unknown PAYMENT_PROVIDER, using gcash: %v", err)
		p = models.ProviderGCash
	}
	defaultProvider = p
}

func isLoggedIn(c *fiber.Ctx) bool {
	return usercontext.IsLoggedIn(c)
}

func accessToken(c *fiber.Ctx) string {
	return usercontext.GetUserContext(c).AccessToken
}

func csrfToken(c *fiber.Ctx) string {
	if token, ok := c.Locals("csrf").(string); ok {
		return token
	}
	return ""
}

// render wraps a page in the main layout.
func render(c *fiber.Ctx, page, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	uc := usercontext.GetUserContext(c)
	data["Layout"] = viewmodel.Layout{
		Page:     page,
		Title:    title,
		LoggedIn: uc.IsLoggedIn,
		Username: uc.Username,
		Msg:      flash.Get(c),
		CSRF:     csrfToken(c),
	}
	return c.Render(page, data, views.Layout)
}

func flashError(c *fiber.Ctx, message, location string) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message,
	}
	return flash.WithError(c, fm).Redirect(location)
}

func flashSuccess(c *fiber.Ctx, message, location string) error {
	fm := fiber.Map{
		"type":    "success",
		"message": message,
	}
	return flash.WithSuccess(c, fm).Redirect(location)
}

// handleAuthRejection ends the session after the backend refused the token
// and sends the browser to login, carrying whatever the flow needs to resume.
func handleAuthRejection(c *fiber.Ctx, claims security.ResumeClaims) error {
	if err := session.ClearSession(c); err != nil {
		log.Warnf("[Auth] could not clear rejected session: %v", err)
	}
	return flashError(c, "Your session has expired. Please log in again.", middleware.LoginURL(claims))
}

// ledgerUser scopes the payment ledger to one account.
func ledgerUser(c *fiber.Ctx) string {
	uc := usercontext.GetUserContext(c)
	if uc.UserID != 0 {
		return fmt.Sprintf("user:%d", uc.UserID)
	}
	sum := sha256.Sum256([]byte(uc.AccessToken))
	return "token:" + hex.EncodeToString(sum[:8])
}

// afterLogin stores the new session and picks the next page: a resumed
// flow first, then the profile or the plan page.
func afterLogin(c *fiber.Ctx, auth *backend.AuthResponse, resume string) error {
	if err := session.SetSession(c, session.Tokens{Access: auth.Access, Refresh: auth.Refresh}, auth.User); err != nil {
		log.Errorf("[Auth] could not store session: %v", err)
		return flashError(c, "Login failed. Please try again.", constants.RouteLogin)
	}

	if resume != "" {
		claims, err := security.VerifyResumeToken(resume, security.ResumeSecret())
		if err != nil {
			log.Infof("[Auth] ignoring resume token: %v", err)
		} else if claims.Plan != "" {
			return startSelection(c, auth.Access, claims.Plan, claims.Provider)
		} else if claims.Return != "" {
			return c.Redirect(claims.Return, fiber.StatusSeeOther)
		}
	}

	hasProfile := false
	if auth.HasProfile != nil {
		hasProfile = *auth.HasProfile
	} else if status, err := api.ProfileStatus(c.UserContext(), auth.Access); err != nil {
		log.Warnf("[Auth] profile status after login failed: %v", err)
	} else {
		hasProfile = status.HasProfile
	}

	if hasProfile {
		return c.Redirect(constants.RouteProfile, fiber.StatusSeeOther)
	}
	return c.Redirect(constants.RouteSubscription, fiber.StatusSeeOther)
}

// startSelection runs the selector for plan and provider and redirects to
// its outcome.
func startSelection(c *fiber.Ctx, token, plan, provider string) error {
	sel, err := billing.ParseSelection(plan, provider, defaultProvider)
	if err != nil {
		return flashError(c, "Please choose one of the available plans.", constants.RouteSubscription)
	}

	res, err := selector.Select(c.UserContext(), token, sel, session.Intents(c))
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return handleAuthRejection(c, security.ResumeClaims{Plan: string(sel.Tier), Provider: string(sel.Provider)})
		}
		log.Errorf("[Subscription] selecting %s failed: %v", sel.Tier, err)
		return flashError(c, backend.Message(err), constants.RouteSubscription)
	}

	if !sel.Tier.Paid() {
		if err := session.SetComposerTier(c, res.Tier); err != nil {
			log.Warnf("[Subscription] could not store composer tier: %v", err)
		}
	}
	return c.Redirect(res.RedirectURL, fiber.StatusSeeOther)
}

// GetClientIP determines the client IP. Cloudflare and forwarding headers
// are read only when the request comes from a trusted proxy.
// Returns the IPv4 and IPv6 address when available.
func GetClientIP(c *fiber.Ctx) (string, string) {
	ipv4, ipv6 := "", ""

	if trustsProxyHeaders(c) {
		assignIP(strings.TrimSpace(c.Get("CF-Connecting-IP")), &ipv4, &ipv6)
		for _, ip := range strings.Split(c.Get(fiber.HeaderXForwardedFor), ",") {
			assignIP(strings.TrimSpace(ip), &ipv4, &ipv6)
		}
		assignIP(strings.TrimSpace(c.Get("X-Real-IP")), &ipv4, &ipv6)
		if ipv4 != "" || ipv6 != "" {
			return ipv4, ipv6
		}
	}

	ipAddr := c.Context().RemoteIP().String()
	if strings.HasPrefix(ipAddr, "::ffff:") && strings.Contains(ipAddr, ".") {
		// IPv4 mapped into IPv6
		ipAddr = strings.TrimPrefix(ipAddr, "::ffff:")
	}
	assignIP(ipAddr, &ipv4, &ipv6)

	return ipv4, ipv6
}

// trustsProxyHeaders holds only with the trusted proxy check on and the
// peer on the TRUSTED_PROXIES list.
func trustsProxyHeaders(c *fiber.Ctx) bool {
	return c.App().Config().EnableTrustedProxyCheck && c.IsProxyTrusted()
}

// ClientKey is the rate limit key for a request.
func ClientKey(c *fiber.Ctx) string {
	ipv4, ipv6 := GetClientIP(c)
	if ipv4 != "" {
		return ipv4
	}
	if ipv6 != "" {
		return ipv6
	}
	return c.Context().RemoteIP().String()
}

// assignIP fills the first empty slot matching the address family.
func assignIP(ip string, ipv4, ipv6 *string) {
	if ip == "" {
		return
	}
	if strings.Contains(ip, ":") {
		if *ipv6 == "" {
			*ipv6 = ip
		}
		return
	}
	if *ipv4 == "" {
		*ipv4 = ip
	}
}
