package chat

import (
	"go-bighil/internal/common/api"
	"go-bighil/internal/config"
	"go-bighil/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ChatApi struct {
	controller *ChatController
	config     *config.Config
}

func NewChatApi(controller *ChatController, config *config.Config) api.Route {
	return &ChatApi{
		controller: controller,
		config:     config,
	}
}

func (h *ChatApi) Setup(app *fiber.App) {
	group := app.Group("/api/complaints/:id/chat", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.Get)
	group.Post("/", h.controller.Send)
	group.Put("/read", h.controller.MarkRead)
}
