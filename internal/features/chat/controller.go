package chat

import (
	"go-bighil/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ChatController struct {
	service ChatService
}

func NewChatController(service ChatService) *ChatController {
	return &ChatController{
		service: service,
	}
}

// Get godoc
// @Summary Chat thread of a complaint
// @Tags Chat
// @Router /api/complaints/{id}/chat [get]
func (c *ChatController) Get(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	chat, err := c.service.Get(ctx.Context(), actor, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(chat)
}

// Send godoc
// @Summary Post a chat message
// @Tags Chat
// @Accept json
// @Param body body SendInput true "Message"
// @Router /api/complaints/{id}/chat [post]
func (c *ChatController) Send(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	var input SendInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	chat, err := c.service.Send(ctx.Context(), actor, ctx.Params("id"), input.Content)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Message sent",
		"data":    chat,
	})
}

// MarkRead godoc
// @Summary Reset the caller's unseen counter
// @Tags Chat
// @Router /api/complaints/{id}/chat/read [put]
func (c *ChatController) MarkRead(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	chat, err := c.service.MarkRead(ctx.Context(), actor, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"unseenCounts": chat.UnseenCounts})
}
