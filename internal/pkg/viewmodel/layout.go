package viewmodel

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/env"
)

type Layout struct {
	Page     string
	Title    string
	LoggedIn bool
	Username string
	Msg      fiber.Map
	CSRF     string
}

// PaymentStatus feeds the terminal payment pages.
type PaymentStatus struct {
	Title        string
	Message      string
	RetryURL     string
	SupportEmail string
	ShowSupport  bool
}

// MediaURL resolves backend media paths like /media/pics/a.jpg against
// MEDIA_BASE_URL. Absolute URLs pass through.
func MediaURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(env.GetEnv("MEDIA_BASE_URL", "http://localhost:8000"), "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
