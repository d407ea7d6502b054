package backend

import (
	"context"
	"net/http"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
)

func (c *Client) ProfileStatus(ctx context.Context, token string) (*models.ProfileStatus, error) {
	var out models.ProfileStatus
	if err := c.doJSON(ctx, http.MethodGet, "/profile_status/", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProfile(ctx context.Context, token string) (*models.Profile, error) {
	var out models.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/get_profile/", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetReviews(ctx context.Context, token string) ([]models.Review, error) {
	var out []models.Review
	if err := c.doJSON(ctx, http.MethodGet, "/get_reviews/", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProfile(ctx context.Context, token string, form *Form) error {
	return c.sendForm(ctx, http.MethodPost, "/createaccount/", token, form)
}

func (c *Client) UpdateProfile(ctx context.Context, token string, form *Form) error {
	return c.sendForm(ctx, http.MethodPut, "/update_profile/", token, form)
}

func (c *Client) sendForm(ctx context.Context, method, path, token string, form *Form) error {
	body, contentType, err := form.encode()
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, token, body, contentType, nil)
}
