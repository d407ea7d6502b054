package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
)

type CheckoutRequest struct {
	SubscriptionType entitlements.Tier `json:"subscription_type"`
	SuccessURL       string            `json:"success_url,omitempty"`
	CancelURL        string            `json:"cancel_url,omitempty"`
}

// Checkout is a hosted payment page plus the provider reference that the
// return redirect will carry.
type Checkout struct {
	URL string
	Ref string
}

// the card and e-wallet endpoints disagree on naming
type checkoutResponse struct {
	CheckoutURL      string `json:"checkout_url"`
	CheckoutURLCamel string `json:"checkoutUrl"`
	URL              string `json:"url"`
	SessionID        string `json:"session_id"`
	SessionIDCamel   string `json:"sessionId"`
	SourceID         string `json:"source_id"`
	SourceIDCamel    string `json:"sourceId"`
	ID               string `json:"id"`
}

func (r checkoutResponse) checkout() (*Checkout, error) {
	out := &Checkout{
		URL: firstNonEmpty(r.CheckoutURL, r.CheckoutURLCamel, r.URL),
		Ref: firstNonEmpty(r.SessionID, r.SessionIDCamel, r.SourceID, r.SourceIDCamel, r.ID),
	}
	if out.URL == "" {
		return nil, errors.New("backend returned no checkout url")
	}
	return out, nil
}

func (c *Client) CreateCheckout(ctx context.Context, token string, provider models.Provider, in CheckoutRequest) (*Checkout, error) {
	var path string
	switch provider {
	case models.ProviderStripe:
		path = "/create-payment-intent/"
	case models.ProviderGCash:
		path = "/create-gcash-payment/"
	default:
		return nil, fmt.Errorf("no checkout for provider %q", provider)
	}

	var out checkoutResponse
	if err := c.doJSON(ctx, http.MethodPost, path, token, in, &out); err != nil {
		return nil, err
	}
	return out.checkout()
}

type VerifyRequest struct {
	SessionID        string            `json:"session_id,omitempty"`
	SourceID         string            `json:"source_id,omitempty"`
	SubscriptionType entitlements.Tier `json:"subscription_type,omitempty"`
}

type VerifyResponse struct {
	Success          bool   `json:"success"`
	SubscriptionType string `json:"subscription_type"`
	HasProfile       bool   `json:"has_profile"`
	Retryable        bool   `json:"retryable"`
	Message          string `json:"message"`
}

// VerifyPayment is idempotent on the backend: the same reference always
// yields the same answer and never activates twice.
func (c *Client) VerifyPayment(ctx context.Context, token string, in VerifyRequest) (*VerifyResponse, error) {
	var out VerifyResponse
	if err := c.doJSON(ctx, http.MethodPost, "/verify-payment/", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSubscription(ctx context.Context, token string, tier entitlements.Tier) error {
	in := map[string]string{"subscription_type": string(tier)}
	return c.doJSON(ctx, http.MethodPost, "/update-subscription/", token, in, nil)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
