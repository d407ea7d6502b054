package billing

import (
	"context"
	"errors"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/backend"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
)

var (
	ErrUnknownTier         = errors.New("unknown subscription plan")
	ErrUnknownProvider     = errors.New("unknown payment provider")
	ErrUnrecognizedReturn  = errors.New("payment return carries no recognizable reference")
	ErrContractViolation   = errors.New("backend confirmed payment without a valid subscription type")
	ErrPaymentNotConfirmed = errors.New("payment was not confirmed")
)

// API is the part of the backend the billing flows use.
type API interface {
	UpdateSubscription(ctx context.Context, token string, tier entitlements.Tier) error
	ProfileStatus(ctx context.Context, token string) (*models.ProfileStatus, error)
	CreateCheckout(ctx context.Context, token string, provider models.Provider, in backend.CheckoutRequest) (*backend.Checkout, error)
	VerifyPayment(ctx context.Context, token string, in backend.VerifyRequest) (*backend.VerifyResponse, error)
}

// IntentStore holds the single pending subscription intent of a browser.
// Load returns nil, nil when nothing is pending and Clear is idempotent.
type IntentStore interface {
	Save(intent *models.SubscriptionIntent) error
	Load() (*models.SubscriptionIntent, error)
	Clear() error
}
