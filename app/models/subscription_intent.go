package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
)

type Provider string

const (
	ProviderNone   Provider = "none"
	ProviderStripe Provider = "stripe"
	ProviderGCash  Provider = "gcash"
)

func ParseProvider(raw string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(ProviderNone):
		return ProviderNone, nil
	case string(ProviderStripe), "card":
		return ProviderStripe, nil
	case string(ProviderGCash), "paymongo":
		return ProviderGCash, nil
	default:
		return "", fmt.Errorf("unknown payment provider %q", raw)
	}
}

// SubscriptionIntent is a plan selection waiting for the payment provider.
// It lives in the session and is consumed once by the payment resolver.
type SubscriptionIntent struct {
	ID          string            `json:"id"`
	Tier        entitlements.Tier `json:"tier"`
	Provider    Provider          `json:"provider"`
	ProviderRef string            `json:"provider_ref,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
