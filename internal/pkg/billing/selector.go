package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/backend"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/constants"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
)

// Selection is a chosen plan and, for paid plans, the provider to pay with.
type Selection struct {
	Tier     entitlements.Tier
	Provider models.Provider
}

// ParseSelection validates raw form input. Free plans ignore the provider;
// paid plans fall back to defaultProvider when none was picked.
func ParseSelection(plan, provider string, defaultProvider models.Provider) (Selection, error) {
	tier, err := entitlements.ParseTier(plan)
	if err != nil {
		return Selection{}, fmt.Errorf("%w: %q", ErrUnknownTier, plan)
	}
	if !tier.Paid() {
		return Selection{Tier: tier, Provider: models.ProviderNone}, nil
	}

	p, err := models.ParseProvider(provider)
	if err != nil {
		return Selection{}, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	if p == models.ProviderNone {
		p = defaultProvider
	}
	if p == models.ProviderNone {
		return Selection{}, fmt.Errorf("%w: a paid plan needs a provider", ErrUnknownProvider)
	}
	return Selection{Tier: tier, Provider: p}, nil
}

// SelectResult tells the caller where the browser goes next. For paid
// plans RedirectURL is the provider's hosted checkout.
type SelectResult struct {
	RedirectURL string
	Tier        entitlements.Tier
	Intent      *models.SubscriptionIntent
}

type Selector struct {
	api        API
	returnBase string
	now        func() time.Time
}

// NewSelector creates a selector. returnBase is the public origin the
// provider redirects back to.
func NewSelector(api API, returnBase string) *Selector {
	return &Selector{
		api:        api,
		returnBase: strings.TrimRight(returnBase, "/"),
		now:        time.Now,
	}
}

// Select starts the flow for a plan. Backend auth failures come back
// wrapped around backend.ErrUnauthorized.
func (s *Selector) Select(ctx context.Context, token string, sel Selection, intents IntentStore) (*SelectResult, error) {
	if _, ok := PlanFor(sel.Tier); !ok {
		return nil, ErrUnknownTier
	}

	if !sel.Tier.Paid() {
		return s.selectFree(ctx, token)
	}
	return s.selectPaid(ctx, token, sel, intents)
}

func (s *Selector) selectFree(ctx context.Context, token string) (*SelectResult, error) {
	if err := s.api.UpdateSubscription(ctx, token, entitlements.TierFree); err != nil {
		return nil, fmt.Errorf("activate free plan: %w", err)
	}

	status, err := s.api.ProfileStatus(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("profile status: %w", err)
	}

	res := &SelectResult{Tier: entitlements.TierFree, RedirectURL: constants.RouteProfileCreate}
	if status.HasProfile {
		res.RedirectURL = constants.RouteProfile
	}
	log.Infof("[Billing] free plan activated, next=%s", res.RedirectURL)
	return res, nil
}

func (s *Selector) selectPaid(ctx context.Context, token string, sel Selection, intents IntentStore) (*SelectResult, error) {
	intent := &models.SubscriptionIntent{
		ID:        uuid.NewString(),
		Tier:      sel.Tier,
		Provider:  sel.Provider,
		CreatedAt: s.now(),
	}

	req := backend.CheckoutRequest{
		SubscriptionType: sel.Tier,
		SuccessURL:       s.returnBase + constants.RoutePaymentReturn,
		CancelURL:        s.returnBase + constants.RouteSubscription,
	}
	if sel.Provider == models.ProviderStripe {
		req.SuccessURL += "?session_id={CHECKOUT_SESSION_ID}"
	}

	checkout, err := s.api.CreateCheckout(ctx, token, sel.Provider, req)
	if err != nil {
		return nil, fmt.Errorf("create %s checkout: %w", sel.Provider, err)
	}
	intent.ProviderRef = checkout.Ref

	// the intent must be stored before the browser leaves
	if err := intents.Save(intent); err != nil {
		return nil, fmt.Errorf("persist subscription intent: %w", err)
	}

	log.Infof("[Billing] intent %s created: tier=%s provider=%s ref=%s", intent.ID, intent.Tier, intent.Provider, intent.ProviderRef)
	return &SelectResult{RedirectURL: checkout.URL, Tier: sel.Tier, Intent: intent}, nil
}
