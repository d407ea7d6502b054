package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
)

func TestNewReview(t *testing.T) {
	r, err := NewReview("  Ana  ", 5, " great work ")
	require.NoError(t, err)
	assert.Equal(t, "Ana", r.ReviewerName)
	assert.Equal(t, "great work", r.Comment)

	for _, rating := range []int{0, 6, -1} {
		_, err := NewReview("Ana", rating, "ok")
		assert.Error(t, err, "rating %d", rating)
	}

	_, err = NewReview("   ", 4, "ok")
	assert.Error(t, err)
	_, err = NewReview("Ana", 4, "")
	assert.Error(t, err)
}

func TestSummarizeReviewsDedupesByReviewer(t *testing.T) {
	s := SummarizeReviews([]Review{
		{ReviewerName: "Ana", Rating: 5},
		{ReviewerName: "ana ", Rating: 1},
		{ReviewerName: "Ben", Rating: 3},
		{ReviewerName: "Cy", Rating: 4},
	})

	assert.Equal(t, 3, s.Count())
	assert.Equal(t, 1, s.Histogram[5])
	assert.Equal(t, 0, s.Histogram[1])
	assert.InDelta(t, 4.0, s.Average, 0.001)
	assert.Equal(t, 33, s.Percent(3))
	assert.Equal(t, 0, s.Percent(6))
}

func TestRegistrationPasswordPolicy(t *testing.T) {
	_, err := NewRegistration("jane", "jane@example.com", "Secret#12", "Secret#12")
	assert.NoError(t, err)

	cases := []string{"short#A", "alllower#1", "ALLUPPER#1", "NoSpecial1"}
	for _, pw := range cases {
		_, err := NewRegistration("jane", "jane@example.com", pw, pw)
		assert.Error(t, err, pw)
	}

	_, err = NewRegistration("jane", "jane@example.com", "Secret#12", "Secret#13")
	assert.Error(t, err)
}

func TestProfileDecodesLenientText(t *testing.T) {
	raw := `{"id": 7, "name": "Jane Doe", "skills": ["Go", "SQL"], "mobile": 639171234567, "education": null}`

	var p Profile
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, Text("Go, SQL"), p.Skills)
	assert.Equal(t, Text("639171234567"), p.Mobile)
	assert.Equal(t, Text(""), p.Education)
}

func TestProfileEntriesOnlyPresentFields(t *testing.T) {
	p := Profile{Name: "Jane", JobTitle: "Engineer", Portfolio: "https://jane.dev"}

	var names []entitlements.Field
	for _, e := range p.Entries() {
		names = append(names, e.Spec.Name)
	}
	assert.Equal(t, []entitlements.Field{entitlements.FieldName, entitlements.FieldJobTitle, entitlements.FieldPortfolio}, names)
}

func TestProfilePublicURL(t *testing.T) {
	p := Profile{ID: 42, Name: "Jane  O'Doe"}
	assert.Equal(t, "https://www.provenpro.com/jane-o-doe-42", p.PublicURL("https://www.provenpro.com/"))
}
