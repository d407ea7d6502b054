package billing

import (
	"testing"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
)

func TestPlansCoverEveryTier(t *testing.T) {
	for _, tier := range entitlements.Tiers {
		p, ok := PlanFor(tier)
		if !ok {
			t.Fatalf("no plan for tier %q", tier)
		}
		if p.Free() == tier.Paid() {
			t.Fatalf("plan %q free=%t but tier paid=%t", p.Name, p.Free(), tier.Paid())
		}
	}
	if _, ok := PlanFor(entitlements.Tier("gold")); ok {
		t.Fatalf("expected no plan for unknown tier")
	}
}

func TestPlanFeaturesGrow(t *testing.T) {
	for i := 1; i < len(Plans); i++ {
		if len(Plans[i].Features) <= len(Plans[i-1].Features) {
			t.Fatalf("expected %s to list more features than %s", Plans[i].Name, Plans[i-1].Name)
		}
	}
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		in   string
		want *bool
	}{
		{in: "true", want: ptr(true)},
		{in: "1", want: ptr(true)},
		{in: "FALSE", want: ptr(false)},
		{in: "cancelled", want: ptr(false)},
		{in: "", want: nil},
		{in: "maybe", want: nil},
	}

	for _, tt := range tests {
		got := parseFlag(tt.in)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Fatalf("parseFlag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func ptr(b bool) *bool { return &b }
