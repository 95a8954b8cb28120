package notification

import (
	"go-bighil/internal/common/api"
	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/config"
	"go-bighil/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
	config     *config.Config
}

func NewNotificationApi(controller *NotificationController, config *config.Config) api.Route {
	return &NotificationApi{
		controller: controller,
		config:     config,
	}
}

// Setup mounts the recipient inbox. The platform operator never receives
// notifications, so only users and tenant admins get through.
func (h *NotificationApi) Setup(app *fiber.App) {
	recipients := middleware.RequireRoles(h.config.SkipAuth,
		common_models.RoleUser,
		string(common_models.RoleSuperAdmin),
		string(common_models.RoleAdmin),
		string(common_models.RoleSubAdmin),
	)
	inbox := app.Group("/api/notifications", middleware.AuthMiddleware(h.config.SkipAuth), recipients)

	inbox.Get("/", h.controller.List)
	inbox.Get("/unread-count", h.controller.GetUnreadCount)
	inbox.Post("/mark-all-read", h.controller.MarkAllAsRead)
	inbox.Put("/:id/read", h.controller.MarkAsRead)
	inbox.Delete("/:id", h.controller.Delete)
}
