package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/backend"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/composer"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/constants"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/env"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/security"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/session"
)

// composerTier is the confirmed tier from the payment flow, else the
// backend's subscription_type.
func composerTier(c *fiber.Ctx) (entitlements.Tier, *models.ProfileStatus, error) {
	status, err := api.ProfileStatus(c.UserContext(), accessToken(c))
	if err != nil {
		return "", nil, err
	}
	if tier, ok := session.ConfirmedComposerTier(c); ok {
		return tier, status, nil
	}
	return entitlements.NormalizeTier(status.SubscriptionType), status, nil
}

func HandleProfileCreate(c *fiber.Ctx) error {
	tier, status, err := composerTier(c)
	if err != nil {
		return profileError(c, err, constants.RouteProfileCreate, constants.RouteSubscription)
	}
	if status.HasProfile {
		return c.Redirect(constants.RouteProfile, fiber.StatusSeeOther)
	}

	if c.Method() != fiber.MethodPost {
		return renderComposer(c, composer.ModeCreate, tier, map[entitlements.Field]string{})
	}

	form, err := composeFromRequest(c, composer.ModeCreate, tier)
	if err != nil {
		return flashError(c, composeMessage(err), constants.RouteProfileCreate)
	}

	if err := api.CreateProfile(c.UserContext(), accessToken(c), form); err != nil {
		return profileError(c, err, constants.RouteProfileCreate, constants.RouteProfileCreate)
	}

	if err := session.ClearComposerTier(c); err != nil {
		log.Warnf("[Profile] could not clear composer tier: %v", err)
	}
	return flashSuccess(c, "Your profile has been created.", constants.RouteProfile)
}

func HandleProfileView(c *fiber.Ctx) error {
	ctx := c.UserContext()
	token := accessToken(c)

	profile, err := api.GetProfile(ctx, token)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return c.Redirect(constants.RouteProfileCreate, fiber.StatusSeeOther)
		}
		return profileError(c, err, constants.RouteProfile, constants.RouteSubscription)
	}

	reviews, err := api.GetReviews(ctx, token)
	if err != nil {
		log.Warnf("[Profile] loading reviews failed: %v", err)
	}

	return render(c, "profile/show", string(profile.Name), fiber.Map{
		"Profile":   profile,
		"Entries":   profile.Entries(),
		"Summary":   models.SummarizeReviews(reviews),
		"Ratings":   ratingsDescending(),
		"PublicURL": profile.PublicURL(env.GetEnv("PUBLIC_PROFILE_BASE", "https://www.provenpro.com")),
	})
}

func HandleProfileEdit(c *fiber.Ctx) error {
	profile, err := api.GetProfile(c.UserContext(), accessToken(c))
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return c.Redirect(constants.RouteProfileCreate, fiber.StatusSeeOther)
		}
		return profileError(c, err, constants.RouteProfileEdit, constants.RouteProfile)
	}
	tier := profile.Tier()

	if c.Method() != fiber.MethodPost {
		return renderComposer(c, composer.ModeEdit, tier, profile.Values())
	}

	form, err := composeFromRequest(c, composer.ModeEdit, tier)
	if err != nil {
		return flashError(c, composeMessage(err), constants.RouteProfileEdit)
	}

	if err := api.UpdateProfile(c.UserContext(), accessToken(c), form); err != nil {
		return profileError(c, err, constants.RouteProfileEdit, constants.RouteProfileEdit)
	}
	return flashSuccess(c, "Your profile has been updated.", constants.RouteProfile)
}

func renderComposer(c *fiber.Ctx, mode composer.Mode, tier entitlements.Tier, values map[entitlements.Field]string) error {
	var locked []entitlements.FieldSpec
	for _, spec := range entitlements.Fields {
		if !entitlements.Allows(tier, spec.Name) {
			locked = append(locked, spec)
		}
	}

	action, title := constants.RouteProfileCreate, "Create profile"
	if mode == composer.ModeEdit {
		action, title = constants.RouteProfileEdit, "Edit profile"
	}

	return render(c, "profile/compose", title, fiber.Map{
		"Edit":   mode == composer.ModeEdit,
		"Action": action,
		"Tier":   tier,
		"Fields": entitlements.AllowedFields(tier),
		"Locked": locked,
		"Values": values,
	})
}

func composeFromRequest(c *fiber.Ctx, mode composer.Mode, tier entitlements.Tier) (*backend.Form, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, errors.New("the form could not be read, please try again")
	}
	in, err := composer.FromMultipart(mf)
	if err != nil {
		return nil, err
	}
	return composer.Compose(mode, tier, in)
}

func composeMessage(err error) string {
	var fe *composer.FieldError
	if !errors.As(err, &fe) {
		return err.Error()
	}
	spec, ok := entitlements.Lookup(fe.Field)
	if !ok || strings.HasPrefix(fe.Message, spec.Label) {
		return fe.Message
	}
	return spec.Label + ": " + fe.Message
}

// profileError handles a failed backend call on the profile pages. An auth
// rejection comes back to resume after login.
func profileError(c *fiber.Ctx, err error, resume, back string) error {
	if errors.Is(err, backend.ErrUnauthorized) {
		return handleAuthRejection(c, security.ResumeClaims{Return: resume})
	}
	log.Errorf("[Profile] %s %s: %v", c.Method(), c.Path(), err)
	return flashError(c, backend.Message(err), back)
}

func ratingsDescending() []int {
	out := make([]int, 0, models.MaxRating)
	for r := models.MaxRating; r >= models.MinRating; r-- {
		out = append(out, r)
	}
	return out
}
