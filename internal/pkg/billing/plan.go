package billing

import (
	"strings"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
)

// Plan is one column of the plan page.
type Plan struct {
	Tier     entitlements.Tier
	Name     string
	Price    string
	Currency string
	Popular  bool
	Features []string
}

func (p Plan) Free() bool {
	return !p.Tier.Paid()
}

var baseFeatures = []string{
	"Profile Name and Image",
	"Review Ratings",
	"Job Title and Job Specialization",
	"Client's Previous Reviews",
	"Copy URL Link",
}

var standardFeatures = append(append([]string{}, baseFeatures...),
	"Email, Mobile and Social Media Link",
	"Displays Services, Experiences, Skills and Tools",
)

var premiumFeatures = append(append([]string{}, standardFeatures...),
	"Displays Education and Certifications",
	"Video Introduction",
	"Exhibit Portfolio / Previous Works",
)

// Plans lists the purchasable plans in ascending order.
var Plans = []Plan{
	{Tier: entitlements.TierFree, Name: "Basic", Price: "Free", Features: baseFeatures},
	{Tier: entitlements.TierStandard, Name: "Standard", Price: "10", Currency: "$", Features: standardFeatures},
	{Tier: entitlements.TierPremium, Name: "Premium", Price: "20", Currency: "$", Popular: true, Features: premiumFeatures},
}

func PlanFor(t entitlements.Tier) (Plan, bool) {
	for _, p := range Plans {
		if p.Tier == t {
			return p, true
		}
	}
	return Plan{}, false
}

func parseFlag(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "paid", "succeeded":
		v := true
		return &v
	case "false", "0", "no", "failed", "cancelled", "canceled":
		v := false
		return &v
	default:
		return nil
	}
}
