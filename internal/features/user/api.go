package user

import (
	"go-bighil/internal/common/api"
	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/config"
	"go-bighil/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
}

func NewUserApi(controller *UserController, config *config.Config) api.Route {
	return &UserApi{
		controller: controller,
		config:     config,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))

	users.Get("/me", middleware.RequireRoles(h.config.SkipAuth, common_models.RoleUser), h.controller.Me)
	users.Put("/:id/suspend", middleware.RequireRoles(h.config.SkipAuth, common_models.RoleBighil), h.controller.Suspend)
}
