package system

import (
	"go-bighil/internal/middleware"
	"go-bighil/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type DebugController struct{}

func NewDebugController() *DebugController {
	return &DebugController{}
}

// GetCurrentActor godoc
// @Summary      Get current actor
// @Description  Echo the identity resolved from the caller's token
// @Tags         debug
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/debug/me [get]
func (c *DebugController) GetCurrentActor(ctx *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(ctx)
	if err != nil {
		return err
	}
	claims, _ := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)

	sessionID := ""
	if claims != nil {
		sessionID = claims.SessionID
	}
	canonical, _ := actor.Canonical()
	return ctx.JSON(fiber.Map{
		"actor":     actor,
		"kind":      actor.Kind(),
		"canonical": canonical,
		"sessionId": sessionID,
	})
}
