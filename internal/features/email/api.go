package email

import (
	"go-bighil/internal/common/api"
	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/config"
	"go-bighil/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type EmailApi struct {
	controller *EmailController
	config     *config.Config
}

func NewEmailApi(controller *EmailController, config *config.Config) api.Route {
	return &EmailApi{
		controller: controller,
		config:     config,
	}
}

func (h *EmailApi) Setup(app *fiber.App) {
	group := app.Group("/api/emails",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRoles(h.config.SkipAuth, common_models.RoleBighil),
	)
	group.Get("/failed", h.controller.Failed)
}
