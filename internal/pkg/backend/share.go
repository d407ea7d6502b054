package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
)

// ShareProfile asks the backend to mail a share link. The token never
// comes back to the caller.
func (c *Client) ShareProfile(ctx context.Context, token, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/share-profile/", token, map[string]string{"email": email}, nil)
}

// VerifyShare resolves a share token. The body is either {"profile": {...}}
// or the profile itself.
func (c *Client) VerifyShare(ctx context.Context, shareToken string) (*models.Profile, error) {
	var raw struct {
		Profile json.RawMessage `json:"profile"`
	}
	var whole json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/verify-share/"+url.PathEscape(shareToken)+"/", "", nil, &whole); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(whole, &raw); err != nil {
		return nil, err
	}

	body := []byte(whole)
	if len(raw.Profile) > 0 && string(raw.Profile) != "null" {
		body = raw.Profile
	}

	var p models.Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) SubmitReview(ctx context.Context, shareToken string, r *models.Review) error {
	in := map[string]any{
		"reviewer_name": r.ReviewerName,
		"rating":        r.Rating,
		"comment":       r.Comment,
	}
	return c.doJSON(ctx, http.MethodPost, "/submit-review/"+url.PathEscape(shareToken)+"/", "", in, nil)
}
