package auth

import (
	"go-bighil/internal/common/api"
	"go-bighil/internal/config"
	"go-bighil/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
	config     *config.Config
}

func NewAuthApi(controller *AuthController, config *config.Config) api.Route {
	return &AuthApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all auth-related routes
func (h *AuthApi) Setup(app *fiber.App) {
	group := app.Group("/api/auth")

	group.Post("/register", h.controller.Register)
	group.Post("/login", h.controller.Login)
	group.Post("/admin/login", h.controller.AdminLogin)
	group.Post("/operator/login", h.controller.OperatorLogin)
	group.Post("/logout", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.Logout)
}
