package complaint

import (
	"go-bighil/internal/common/api"
	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/config"
	"go-bighil/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ComplaintApi struct {
	controller *ComplaintController
	config     *config.Config
}

func NewComplaintApi(controller *ComplaintController, config *config.Config) api.Route {
	return &ComplaintApi{
		controller: controller,
		config:     config,
	}
}

func (h *ComplaintApi) Setup(app *fiber.App) {
	group := app.Group("/api/complaints", middleware.AuthMiddleware(h.config.SkipAuth))

	admins := middleware.RequireRoles(h.config.SkipAuth,
		string(common_models.RoleSuperAdmin),
		string(common_models.RoleAdmin),
		string(common_models.RoleSubAdmin),
		common_models.RoleBighil,
	)
	authorizers := middleware.RequireRoles(h.config.SkipAuth,
		string(common_models.RoleSuperAdmin),
		common_models.RoleBighil,
	)

	group.Get("/tags", h.controller.Tags)
	group.Get("/stats", admins, h.controller.Stats)
	group.Get("/export", admins, h.controller.Export)

	group.Post("/", middleware.RequireRoles(h.config.SkipAuth, common_models.RoleUser), h.controller.Submit)
	group.Get("/", h.controller.List)
	group.Get("/:id", h.controller.Get)
	group.Get("/:id/timeline", h.controller.Timeline)
	group.Get("/:id/resolutions", admins, h.controller.Resolutions)
	group.Put("/:id/status", admins, h.controller.UpdateStatus)
	group.Put("/:id/authorize", authorizers, h.controller.Authorize)
	group.Get("/:id/notes", admins, h.controller.Notes)
	group.Post("/:id/notes", admins, h.controller.AddNote)
}
