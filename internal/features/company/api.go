package company

import (
	"go-bighil/internal/common/api"
	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/config"
	"go-bighil/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CompanyApi struct {
	controller *CompanyController
	config     *config.Config
}

func NewCompanyApi(controller *CompanyController, config *config.Config) api.Route {
	return &CompanyApi{
		controller: controller,
		config:     config,
	}
}

func (h *CompanyApi) Setup(app *fiber.App) {
	group := app.Group("/api/companies", middleware.AuthMiddleware(h.config.SkipAuth))

	bighil := middleware.RequireRoles(h.config.SkipAuth, common_models.RoleBighil)
	managers := middleware.RequireRoles(h.config.SkipAuth,
		common_models.RoleBighil,
		string(common_models.RoleSuperAdmin),
	)

	group.Post("/", bighil, h.controller.Create)
	group.Get("/", bighil, h.controller.List)
	group.Get("/:id", h.controller.Get)
	group.Delete("/:id", bighil, h.controller.Delete)
	group.Post("/:id/admins", managers, h.controller.CreateAdmin)
	group.Get("/:id/admins", managers, h.controller.ListAdmins)
}
