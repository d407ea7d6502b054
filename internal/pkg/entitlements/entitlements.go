package entitlements

import (
	"fmt"
	"strings"
)

type Tier string

const (
	TierFree     Tier = "free"
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

// Tiers lists every tier in ascending order.
var Tiers = []Tier{TierFree, TierStandard, TierPremium}

// ParseTier accepts the spellings the backend has been seen to return
// ("PREMIUM", "basic") and rejects anything else.
func ParseTier(raw string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(TierFree), "basic":
		return TierFree, nil
	case string(TierStandard):
		return TierStandard, nil
	case string(TierPremium):
		return TierPremium, nil
	default:
		return "", fmt.Errorf("unknown subscription tier %q", raw)
	}
}

// NormalizeTier is ParseTier with a free fallback, for display purposes only.
func NormalizeTier(raw string) Tier {
	t, err := ParseTier(raw)
	if err != nil {
		return TierFree
	}
	return t
}

func (t Tier) Rank() int {
	switch t {
	case TierPremium:
		return 2
	case TierStandard:
		return 1
	default:
		return 0
	}
}

// Paid reports whether the tier requires a payment provider checkout.
func (t Tier) Paid() bool {
	return t == TierStandard || t == TierPremium
}

func (t Tier) Label() string {
	switch t {
	case TierPremium:
		return "Premium"
	case TierStandard:
		return "Standard"
	default:
		return "Basic"
	}
}

func (t Tier) String() string {
	return string(t)
}
