package realtime

import (
	"context"
	"time"

	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/features/session"
	"go-bighil/internal/middleware"
	"go-bighil/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 4096
	actorLocal = "ws_actor"
)

// RoomAuthorizer decides whether actor may follow a complaint room.
type RoomAuthorizer interface {
	CanAccess(ctx context.Context, actor common_models.Actor, complaintID primitive.ObjectID) (bool, error)
}

// SessionValidator confirms the session a token was issued for is still open.
type SessionValidator interface {
	Validate(ctx context.Context, id string) (*session.Session, error)
}

type command struct {
	Action      string `json:"action"`
	ComplaintID string `json:"complaintId"`
}

type RealtimeController struct {
	hub        *Hub
	authorizer RoomAuthorizer
	sessions   SessionValidator
	logger     *zap.Logger
}

func NewRealtimeController(hub *Hub, authorizer RoomAuthorizer, sessions SessionValidator, logger *zap.Logger) *RealtimeController {
	return &RealtimeController{
		hub:        hub,
		authorizer: authorizer,
		sessions:   sessions,
		logger:     logger,
	}
}

// Upgrade authenticates the ?token= query and its session before the
// protocol switch.
func (h *RealtimeController) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	claims, err := utils.ValidateToken(c.Query("token"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if _, err := h.sessions.Validate(c.Context(), claims.SessionID); err != nil {
		return err
	}
	actor, err := middleware.ClaimsToActor(claims)
	if err != nil {
		return err
	}

	c.Locals(actorLocal, actor)
	return c.Next()
}

func (h *RealtimeController) HandleWebSocket(conn *websocket.Conn) {
	actor, ok := conn.Locals(actorLocal).(common_models.Actor)
	if !ok {
		_ = conn.Close()
		return
	}

	client := h.hub.Register(actor)
	h.hub.Join(client, IdentityRoom(actor))

	pumpDone := make(chan struct{})
	go func() {
		h.writePump(conn, client)
		close(pumpDone)
	}()
	defer func() {
		h.hub.Unregister(client)
		<-pumpDone
	}()

	conn.SetReadLimit(maxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read failed", zap.String("actorId", actor.ID.Hex()), zap.Error(err))
			}
			return
		}
		if !h.handleCommand(client, cmd) {
			return
		}
	}
}

// handleCommand reports false when the client was dropped and the read loop should stop.
func (h *RealtimeController) handleCommand(client *Client, cmd command) bool {
	complaintID, err := primitive.ObjectIDFromHex(cmd.ComplaintID)
	if err != nil {
		h.hub.Direct(client, NewEvent("", EventError, fiber.Map{"error": "invalid complaintId"}))
		return true
	}
	room := ComplaintRoom(complaintID)

	switch cmd.Action {
	case "join":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		allowed, err := h.authorizer.CanAccess(ctx, client.Actor, complaintID)
		cancel()
		if err != nil || !allowed {
			h.hub.Direct(client, NewEvent(room, EventError, fiber.Map{"error": "not allowed to join this complaint"}))
			return true
		}
		if !h.hub.Join(client, room) {
			return false
		}
		h.hub.Direct(client, NewEvent(room, EventJoined, nil))
	case "leave":
		h.hub.Leave(client, room)
		h.hub.Direct(client, NewEvent(room, EventLeft, nil))
	default:
		h.hub.Direct(client, NewEvent(room, EventError, fiber.Map{"error": "unknown action"}))
	}
	return true
}

func (h *RealtimeController) writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case ev, ok := <-client.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
