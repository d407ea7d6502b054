package models

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID           int64  `json:"id,omitempty"`
	ReviewerName string `json:"reviewer_name" validate:"required,max=150"`
	Rating       int    `json:"rating" validate:"min=1,max=5"`
	Comment      string `json:"comment" validate:"required,max=2000"`
	CreatedAt    string `json:"created_at,omitempty"`
}

func (r *Review) Validate() error {
	v := validator.New()

	return v.Struct(r)
}

// NewReview trims the text input and validates it. Nothing is sent to the
// backend when this fails.
func NewReview(reviewerName string, rating int, comment string) (*Review, error) {
	r := &Review{
		ReviewerName: strings.TrimSpace(reviewerName),
		Rating:       rating,
		Comment:      strings.TrimSpace(comment),
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// ReviewSummary is what the profile page shows above the review list.
type ReviewSummary struct {
	Reviews   []Review
	Histogram [MaxRating + 1]int
	Average   float64
}

func (s ReviewSummary) Count() int {
	return len(s.Reviews)
}

// Percent returns the share of reviews with the given rating, 0..100.
func (s ReviewSummary) Percent(rating int) int {
	if rating < MinRating || rating > MaxRating || len(s.Reviews) == 0 {
		return 0
	}
	return s.Histogram[rating] * 100 / len(s.Reviews)
}

// SummarizeReviews keeps the first review per reviewer name and counts
// ratings. Out of range ratings are listed but not counted.
func SummarizeReviews(reviews []Review) ReviewSummary {
	var out ReviewSummary
	seen := make(map[string]bool, len(reviews))
	total, counted := 0, 0

	for _, r := range reviews {
		key := strings.ToLower(strings.TrimSpace(r.ReviewerName))
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Reviews = append(out.Reviews, r)

		if r.Rating >= MinRating && r.Rating <= MaxRating {
			out.Histogram[r.Rating]++
			total += r.Rating
			counted++
		}
	}

	if counted > 0 {
		out.Average = float64(total) / float64(counted)
	}
	return out
}
