package notification

import (
	"strconv"

	"go-bighil/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	service NotificationService
}

func NewNotificationController(service NotificationService) *NotificationController {
	return &NotificationController{
		service: service,
	}
}

// List godoc
// @Summary List notifications addressed to the caller
// @Tags Notifications
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "10"), 10, 64)

	notifications, total, err := c.service.ListForRecipient(ctx.Context(), actor, page, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"data":  notifications,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUnreadCount godoc
// @Summary Count unread notifications
// @Tags Notifications
// @Router /api/notifications/unread-count [get]
func (c *NotificationController) GetUnreadCount(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	count, err := c.service.UnreadCount(ctx.Context(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"count": count})
}

// MarkAsRead godoc
// @Summary Mark one notification read
// @Tags Notifications
// @Router /api/notifications/{id}/read [put]
func (c *NotificationController) MarkAsRead(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	if err := c.service.MarkRead(ctx.Context(), actor, ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllAsRead godoc
// @Summary Mark every notification read
// @Tags Notifications
// @Router /api/notifications/mark-all-read [post]
func (c *NotificationController) MarkAllAsRead(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	updated, err := c.service.MarkAllRead(ctx.Context(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": "All notifications marked as read", "updated": updated})
}

// Delete godoc
// @Summary Remove the caller from a notification
// @Tags Notifications
// @Router /api/notifications/{id} [delete]
func (c *NotificationController) Delete(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	deleted, err := c.service.Remove(ctx.Context(), actor, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": "Notification removed", "deleted": deleted})
}
