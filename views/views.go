package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/viewmodel"
)

//go:embed layouts/*.html auth/*.html subscription/*.html profile/*.html share/*.html
var FS embed.FS

// Layout is the template every page renders into.
const Layout = "layouts/main"

// NewEngine returns the html engine over the embedded templates.
func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(FS), ".html")
	engine.AddFunc("media", viewmodel.MediaURL)
	return engine
}
