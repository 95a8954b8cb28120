package timeline

import (
	"time"

	common_models "go-bighil/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entry is one immutable line of a complaint's audit trail.
type Entry struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	ComplaintID   primitive.ObjectID `json:"complaintId" bson:"complaintId"`
	Status        string             `json:"status" bson:"status"`
	ActorID       primitive.ObjectID `json:"actorId" bson:"actorId"`
	ActorRole     string             `json:"actorRole" bson:"actorRole"`
	Message       string             `json:"message" bson:"message"`
	VisibleToUser bool               `json:"visibleToUser" bson:"visibleToUser"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// NewEntry pre-assigns the id so the owning complaint can reference it in the same write.
func NewEntry(complaintID primitive.ObjectID, status string, actor common_models.Actor, message string, visibleToUser bool) *Entry {
	return &Entry{
		ID:            primitive.NewObjectID(),
		ComplaintID:   complaintID,
		Status:        status,
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		Message:       message,
		VisibleToUser: visibleToUser,
		CreatedAt:     time.Now(),
	}
}
