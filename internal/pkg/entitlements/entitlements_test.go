package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
	}{
		{in: "free", want: TierFree},
		{in: "basic", want: TierFree},
		{in: "Standard", want: TierStandard},
		{in: " PREMIUM ", want: TierPremium},
	}

	for _, tt := range tests {
		got, err := ParseTier(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseTier("gold")
	assert.Error(t, err)
	_, err = ParseTier("")
	assert.Error(t, err)
}

func TestNormalizeTierFallsBackToFree(t *testing.T) {
	assert.Equal(t, TierFree, NormalizeTier("invalid"))
	assert.Equal(t, TierPremium, NormalizeTier("premium"))
}

func TestTierRankAndPaid(t *testing.T) {
	assert.Less(t, TierFree.Rank(), TierStandard.Rank())
	assert.Less(t, TierStandard.Rank(), TierPremium.Rank())

	assert.False(t, TierFree.Paid())
	assert.True(t, TierStandard.Paid())
	assert.True(t, TierPremium.Paid())
}

func TestAllowedFieldsPerTier(t *testing.T) {
	want := map[Tier][]Field{
		TierFree: {FieldName, FieldJobTitle, FieldJobSpecialization, FieldProfilePic},
		TierStandard: {
			FieldName, FieldJobTitle, FieldJobSpecialization, FieldProfilePic,
			FieldEmail, FieldMobile, FieldServices, FieldExperiences, FieldSkills, FieldTools,
		},
		TierPremium: {
			FieldName, FieldJobTitle, FieldJobSpecialization, FieldProfilePic,
			FieldEmail, FieldMobile, FieldServices, FieldExperiences, FieldSkills, FieldTools,
			FieldEducation, FieldCertifications, FieldPortfolio, FieldVideoIntro,
		},
	}

	for tier, fields := range want {
		var got []Field
		for _, spec := range AllowedFields(tier) {
			got = append(got, spec.Name)
		}
		assert.Equal(t, fields, got, "tier %s", tier)
	}
}

func TestAllowsMatchesAllowedFields(t *testing.T) {
	for _, tier := range Tiers {
		allowed := map[Field]bool{}
		for _, spec := range AllowedFields(tier) {
			allowed[spec.Name] = true
		}
		for _, spec := range Fields {
			assert.Equal(t, allowed[spec.Name], Allows(tier, spec.Name), "tier=%s field=%s", tier, spec.Name)
		}
	}

	assert.False(t, Allows(TierPremium, Field("subscription_type")))
	assert.False(t, Allows(TierPremium, Field("id")))
}
