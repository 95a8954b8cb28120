package notification

import (
	"time"

	common_models "go-bighil/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	TypeComplaintCreated      NotificationType = "complaint_created"
	TypeStatusInProgress      NotificationType = "status_in_progress"
	TypeMarkedUnwanted        NotificationType = "marked_unwanted"
	TypeComplaintResolved     NotificationType = "complaint_resolved"
	TypeAuthorizationApproved NotificationType = "authorization_approved"
	TypeAuthorizationRejected NotificationType = "authorization_rejected"
)

type TargetKind string

const (
	TargetUser  TargetKind = "user"
	TargetAdmin TargetKind = "admin"
)

type Recipient struct {
	TargetID   primitive.ObjectID `bson:"targetId" json:"targetId"`
	TargetKind TargetKind         `bson:"targetKind" json:"targetKind"`
	Read       bool               `bson:"read" json:"read"`
	ReadAt     *time.Time         `bson:"readAt,omitempty" json:"readAt,omitempty"`
}

// Notification with an empty Recipients list is orphaned and gets deleted.
type Notification struct {
	ID          primitive.ObjectID      `bson:"_id,omitempty" json:"id"`
	ComplaintID primitive.ObjectID      `bson:"complaintId" json:"complaintId"`
	Type        NotificationType        `bson:"type" json:"type"`
	Message     string                  `bson:"message" json:"message"`
	SenderID    primitive.ObjectID      `bson:"senderId" json:"senderId"`
	SenderKind  common_models.ActorKind `bson:"senderKind" json:"senderKind"`
	Recipients  []Recipient             `bson:"recipients" json:"recipients"`
	CreatedAt   time.Time               `bson:"createdAt" json:"createdAt"`
}

// Subject is the slice of a complaint the fan-out needs.
type Subject struct {
	ComplaintID primitive.ObjectID
	CompanyID   primitive.ObjectID
	SubmitterID *primitive.ObjectID
}

type FanOutRequest struct {
	Subject      Subject
	Type         NotificationType
	Message      string
	Sender       common_models.Actor
	AdminRoles   []common_models.AdminRole
	SendToUser   bool
	SendToAdmins bool
}

// Delivery is one created notification and where it has to be pushed.
type Delivery struct {
	Notification *Notification      `json:"notification"`
	TargetID     primitive.ObjectID `json:"targetId"`
	TargetKind   TargetKind         `json:"targetKind"`
}
