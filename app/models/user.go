package models

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// User is the cached copy of the backend user kept in the session.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// Registration is the sign-up form.
type Registration struct {
	Username        string `json:"username" validate:"required,min=3,max=150"`
	Email           string `json:"email" validate:"required,email,max=200"`
	Password        string `json:"password" validate:"required,min=8,strongpassword"`
	ConfirmPassword string `json:"-" validate:"required,eqfield=Password"`
}

// PasswordReset is the form posted from the reset link.
type PasswordReset struct {
	UID             string `json:"uid" validate:"required"`
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,strongpassword"`
	ConfirmPassword string `json:"-" validate:"required,eqfield=NewPassword"`
}

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	specialRe = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// IsStrongPassword requires upper case, lower case and a special character.
// Length is checked by the min tag.
func IsStrongPassword(pw string) bool {
	return upperRe.MatchString(pw) && lowerRe.MatchString(pw) && specialRe.MatchString(pw)
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	return v
}

func NewRegistration(username, email, password, confirm string) (*Registration, error) {
	r := &Registration{
		Username:        strings.TrimSpace(username),
		Email:           strings.TrimSpace(email),
		Password:        password,
		ConfirmPassword: confirm,
	}
	if err := newValidator().Struct(r); err != nil {
		return nil, err
	}
	return r, nil
}

func NewPasswordReset(uid, token, password, confirm string) (*PasswordReset, error) {
	r := &PasswordReset{
		UID:             strings.TrimSpace(uid),
		Token:           strings.TrimSpace(token),
		NewPassword:     password,
		ConfirmPassword: confirm,
	}
	if err := newValidator().Struct(r); err != nil {
		return nil, err
	}
	return r, nil
}

// ValidateEmail is used by the forgot password and share forms.
func ValidateEmail(email string) error {
	return validator.New().Var(strings.TrimSpace(email), "required,email")
}
