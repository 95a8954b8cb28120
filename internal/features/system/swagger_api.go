package system

import (
	"go-bighil/internal/common/api"
	"go-bighil/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// DocsApi serves the complaint API's swagger UI. It stays unmounted in production.
type DocsApi struct {
	environment string
}

func NewDocsApi(cfg *config.Config) api.Route {
	return &DocsApi{environment: cfg.Environment}
}

func (h *DocsApi) Setup(app *fiber.App) {
	if h.environment == "production" {
		return
	}
	app.Get("/swagger/*", swagger.New(swagger.Config{
		Title:                "BIGHIL Complaint API",
		DocExpansion:         "list",
		PersistAuthorization: true,
	}))
}
