package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
)

type AuthResponse struct {
	Access     string       `json:"access"`
	Refresh    string       `json:"refresh"`
	User       *models.User `json:"user"`
	HasProfile *bool        `json:"has_profile,omitempty"`
}

func (a *AuthResponse) validate() error {
	if a.Access == "" {
		return errors.New("backend returned no access token")
	}
	return nil
}

func (c *Client) Register(ctx context.Context, r *models.Registration) error {
	return c.doJSON(ctx, http.MethodPost, "/register/", "", r, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	in := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login/", "", in, &out); err != nil {
		return nil, err
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// GoogleAuth exchanges a Google ID token for a backend token pair.
func (c *Client) GoogleAuth(ctx context.Context, idToken string) (*AuthResponse, error) {
	in := map[string]string{"token": idToken}
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/google-auth/", "", in, &out); err != nil {
		return nil, err
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/request-reset-password/", "", map[string]string{"email": email}, nil)
}

func (c *Client) ConfirmPasswordReset(ctx context.Context, r *models.PasswordReset) error {
	return c.doJSON(ctx, http.MethodPost, "/reset-password-confirm/", "", r, nil)
}
