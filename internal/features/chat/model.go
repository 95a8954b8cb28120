package chat

import (
	"time"

	common_models "go-bighil/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Message struct {
	SenderID   primitive.ObjectID          `bson:"senderId" json:"senderId"`
	SenderRole common_models.CanonicalRole `bson:"senderRole" json:"senderRole"`
	Content    string                      `bson:"content" json:"content"`
	CreatedAt  time.Time                   `bson:"createdAt" json:"createdAt"`
}

// Chat is the message thread of one complaint, created on its first message.
type Chat struct {
	ID           primitive.ObjectID                    `bson:"_id,omitempty" json:"id"`
	ComplaintID  primitive.ObjectID                    `bson:"complaintId" json:"complaintId"`
	Messages     []Message                             `bson:"messages" json:"messages"`
	UnseenCounts map[common_models.CanonicalRole]int64 `bson:"unseenCounts" json:"unseenCounts"`
	CreatedAt    time.Time                             `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time                             `bson:"updatedAt" json:"updatedAt"`
}

type SendInput struct {
	Content string `json:"content"`
}

type MessageEvent struct {
	ComplaintID primitive.ObjectID `json:"complaintId"`
	Message     Message            `json:"message"`
}

type CountsEvent struct {
	ComplaintID  primitive.ObjectID                    `json:"complaintId"`
	UnseenCounts map[common_models.CanonicalRole]int64 `json:"unseenCounts"`
}
