package realtime

import (
	"go-bighil/internal/common/api"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type RealtimeApi struct {
	controller *RealtimeController
}

func NewRealtimeApi(controller *RealtimeController) api.Route {
	return &RealtimeApi{
		controller: controller,
	}
}

func (h *RealtimeApi) Setup(app *fiber.App) {
	app.Get("/api/ws", h.controller.Upgrade, websocket.New(h.controller.HandleWebSocket))
}
