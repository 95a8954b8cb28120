package email

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmailStatus string

const (
	EmailQueued EmailStatus = "queued"
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// Email is the delivery log kept for every outbound message.
type Email struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	From         string             `bson:"from" json:"from"`
	To           []string           `bson:"to" json:"to"`
	Subject      string             `bson:"subject" json:"subject"`
	HtmlBody     string             `bson:"htmlBody" json:"htmlBody"`
	Status       EmailStatus        `bson:"status" json:"status"`
	ErrorMessage string             `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	SentAt       *time.Time         `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// Result mirrors what the transport reported. Success=false is a failed send.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
