package realtime

import (
	"time"

	common_models "go-bighil/internal/common/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event names pushed to websocket clients.
const (
	EventNotification = "notification"
	EventStatusUpdate = "status_update"
	EventChatMessage  = "chat_message"
	EventUnseenCounts = "unseen_counts"
	EventJoined       = "joined"
	EventLeft         = "left"
	EventError        = "error"
)

type Event struct {
	ID        string      `json:"id"`
	Room      string      `json:"room"`
	Name      string      `json:"event"`
	Payload   interface{} `json:"payload,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

func NewEvent(room, name string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Room:      room,
		Name:      name,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

func UserRoom(id primitive.ObjectID) string {
	return "user_" + id.Hex()
}

func AdminRoom(id primitive.ObjectID) string {
	return "admin_" + id.Hex()
}

func ComplaintRoom(id primitive.ObjectID) string {
	return "complaint_" + id.Hex()
}

// IdentityRoom is the personal room an actor is joined to on connect.
func IdentityRoom(actor common_models.Actor) string {
	if actor.Kind() == common_models.ActorKindUser {
		return UserRoom(actor.ID)
	}
	return AdminRoom(actor.ID)
}
