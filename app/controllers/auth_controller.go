package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/backend"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/constants"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/session"
)

func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return render(c, "auth/register", "Sign up", nil)
	}

	reg, err := models.NewRegistration(
		c.FormValue("username"),
		c.FormValue("email"),
		c.FormValue("password"),
		c.FormValue("confirm_password"),
	)
	if err != nil {
		return flashError(c, validationMessage(err), constants.RouteRegister)
	}

	if err := api.Register(c.UserContext(), reg); err != nil {
		log.Warnf("[Auth] registration of %s failed: %v", reg.Email, err)
		return flashError(c, backend.Message(err), constants.RouteRegister)
	}

	return flashSuccess(c, "Registration successful. Please log in.", constants.RouteLogin)
}

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return render(c, "auth/login", "Log in", fiber.Map{
			"Resume": c.Query("resume"),
		})
	}

	resume := c.FormValue("resume")
	back := loginPath(resume)

	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")
	if email == "" || password == "" {
		return flashError(c, "Please enter your email and password.", back)
	}

	auth, err := api.Login(c.UserContext(), email, password)
	if err != nil {
		var apiErr *backend.APIError
		// notice: do not tell which of the two was wrong
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return flashError(c, "Invalid email or password.", back)
		}
		log.Errorf("[Auth] login failed: %v", err)
		return flashError(c, "Login is unavailable right now. Please try again.", back)
	}

	return afterLogin(c, auth, resume)
}

func HandleAuthLogout(c *fiber.Ctx) error {
	if err := session.ClearSession(c); err != nil {
		log.Warnf("[Auth] logout: %v", err)
	}
	if err := gothfiber.Logout(c); err != nil {
		log.Debugf("[Auth] oauth logout: %v", err)
	}

	return flashSuccess(c, "You have been logged out.", constants.RouteLogin)
}

func HandleForgotPassword(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return render(c, "auth/forgot", "Forgot password", nil)
	}

	email := strings.TrimSpace(c.FormValue("email"))
	if err := models.ValidateEmail(email); err != nil {
		return flashError(c, "Please enter a valid email address.", constants.RouteForgot)
	}

	if err := api.RequestPasswordReset(c.UserContext(), email); err != nil {
		log.Warnf("[Auth] reset request failed: %v", err)
		return flashError(c, backend.Message(err), constants.RouteForgot)
	}

	return flashSuccess(c, "Check your inbox for a link to reset your password.", constants.RouteLogin)
}

// HandleResetPassword serves /reset-password?uid=..&token=.. and
// /reset-password/:uid/:token, the shape used in the reset e-mail.
func HandleResetPassword(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		uid := firstNonEmpty(c.Params("uid"), c.Query("uid"))
		token := firstNonEmpty(c.Params("token"), c.Query("token"))
		if uid == "" || token == "" {
			return flashError(c, "This reset link is incomplete. Please request a new one.", constants.RouteForgot)
		}
		return render(c, "auth/reset", "Reset password", fiber.Map{
			"UID":   uid,
			"Token": token,
		})
	}

	uid := c.FormValue("uid")
	token := c.FormValue("token")
	back := constants.RouteReset + "?" + url.Values{"uid": {uid}, "token": {token}}.Encode()

	reset, err := models.NewPasswordReset(uid, token, c.FormValue("new_password"), c.FormValue("confirm_password"))
	if err != nil {
		return flashError(c, validationMessage(err), back)
	}

	if err := api.ConfirmPasswordReset(c.UserContext(), reset); err != nil {
		log.Warnf("[Auth] reset confirm failed: %v", err)
		return flashError(c, backend.Message(err), back)
	}

	return flashSuccess(c, "Your password has been reset. Please log in.", constants.RouteLogin)
}

func loginPath(resume string) string {
	if resume == "" {
		return constants.RouteLogin
	}
	return constants.RouteLogin + "?resume=" + url.QueryEscape(resume)
}

// validationMessage turns the first validator failure into a sentence.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fieldName(fe.Field()) + " is required."
	case "email":
		return "Please enter a valid email address."
	case "strongpassword":
		return "Password must be at least 8 characters and contain an upper case letter, a lower case letter and a special character."
	case "eqfield":
		return "Passwords do not match."
	case "min", "max":
		if fe.Field() == "Rating" {
			return "Rating must be between 1 and 5."
		}
		return fieldName(fe.Field()) + " has an invalid length."
	default:
		return fieldName(fe.Field()) + " is invalid."
	}
}

func fieldName(f string) string {
	switch f {
	case "ReviewerName":
		return "Your name"
	case "NewPassword":
		return "Password"
	case "ConfirmPassword":
		return "Password confirmation"
	default:
		return f
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
