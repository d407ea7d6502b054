package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/backend"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/constants"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/security"
)

func HandleShareRequest(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return render(c, "share/request", "Share profile", nil)
	}

	email := strings.TrimSpace(c.FormValue("email"))
	if err := models.ValidateEmail(email); err != nil {
		return flashError(c, "Please enter a valid email address.", constants.RouteShare)
	}

	if err := api.ShareProfile(c.UserContext(), accessToken(c), email); err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return handleAuthRejection(c, security.ResumeClaims{Return: constants.RouteShare})
		}
		log.Warnf("[Share] sharing failed: %v", err)
		return flashError(c, backend.Message(err), constants.RouteShare)
	}

	return flashSuccess(c, "Your profile link has been sent to "+email+".", constants.RouteShare)
}

// HandleVerifyProfile renders a shared profile. Only fields present in the
// backend answer are shown.
func HandleVerifyProfile(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		return renderInvalidShare(c, http.StatusNotFound, "This link is not valid.")
	}

	profile, err := api.VerifyShare(c.UserContext(), token)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return renderInvalidShare(c, http.StatusNotFound, "This link is invalid or has expired.")
		}
		log.Errorf("[Share] verifying token failed: %v", err)
		return renderInvalidShare(c, http.StatusBadGateway, "The profile could not be loaded. Please try again later.")
	}

	return render(c, "share/verify", string(profile.Name), fiber.Map{
		"Token":   token,
		"Entries": profile.Entries(),
		"Ratings": ratingsDescending(),
	})
}

// HandleSubmitReview validates locally before anything is sent.
func HandleSubmitReview(c *fiber.Ctx) error {
	token := c.Params("token")
	back := constants.RouteVerifyProfile + "/" + url.PathEscape(token)

	rating, err := strconv.Atoi(strings.TrimSpace(c.FormValue("rating")))
	if err != nil {
		return flashError(c, "Rating must be between 1 and 5.", back)
	}
	review, err := models.NewReview(c.FormValue("reviewer_name"), rating, c.FormValue("comment"))
	if err != nil {
		return flashError(c, validationMessage(err), back)
	}

	if err := api.SubmitReview(c.UserContext(), token, review); err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests {
			return flashError(c, "You have submitted too many reviews. Please try again later.", back)
		}
		log.Warnf("[Share] review submission failed: %v", err)
		return flashError(c, backend.Message(err), back)
	}

	return flashSuccess(c, "Thank you for your review!", back)
}

// HandleReviewRateLimit is the limiter's LimitReached handler.
func HandleReviewRateLimit(c *fiber.Ctx) error {
	back := constants.RouteVerifyProfile + "/" + url.PathEscape(c.Params("token"))
	return flashError(c, "You have submitted too many reviews. Please try again later.", back)
}

func renderInvalidShare(c *fiber.Ctx, status int, message string) error {
	c.Status(status)
	return render(c, "share/invalid", "Link unavailable", fiber.Map{
		"Message": message,
	})
}
