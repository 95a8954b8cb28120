package complaint

import (
	"time"

	"go-bighil/internal/features/priority"
	"go-bighil/internal/features/resolution"
	"go-bighil/internal/features/timeline"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending              Status = "Pending"
	StatusInProgress           Status = "In Progress"
	StatusUnwanted             Status = "Unwanted"
	StatusResolved             Status = "Resolved"
	StatusPendingAuthorization Status = "Pending Authorization"
)

type AuthorizationStatus string

const (
	AuthorizationPending  AuthorizationStatus = "Pending"
	AuthorizationApproved AuthorizationStatus = "Approved"
	AuthorizationRejected AuthorizationStatus = "Rejected"
)

// Complaint owns references to its timeline, notes, resolutions and chat.
// AuthorizationStatus is only meaningful while StatusOfClient is Pending Authorization.
type Complaint struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ComplaintID    string              `bson:"complaintId" json:"complaintId"`
	CompanyID      primitive.ObjectID  `bson:"companyId" json:"companyId"`
	UserID         *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	SubmitterName  string              `bson:"submitterName,omitempty" json:"submitterName,omitempty"`
	SubmitterEmail string              `bson:"submitterEmail,omitempty" json:"submitterEmail,omitempty"`
	Anonymous      bool                `bson:"anonymous" json:"anonymous"`
	SubmissionType string              `bson:"submissionType" json:"submissionType"`
	Department     string              `bson:"department" json:"department"`
	Subject        string              `bson:"subject" json:"subject"`
	Message        string              `bson:"message" json:"message"`
	Attachments    []string            `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Tags           []string            `bson:"tags" json:"tags"`
	Priority       priority.Level      `bson:"priority" json:"priority"`

	StatusOfClient           Status              `bson:"status_of_client" json:"status_of_client"`
	PreviousStatusOfClient   Status              `bson:"previous_status_of_client,omitempty" json:"previous_status_of_client,omitempty"`
	AuthorizationStatus      AuthorizationStatus `bson:"authorizationStatus,omitempty" json:"authorizationStatus,omitempty"`
	AuthoriseRejectionReason []string            `bson:"authoriseRejectionReason" json:"authoriseRejectionReason"`

	Timeline       []primitive.ObjectID `bson:"timeline" json:"timeline"`
	Notes          []primitive.ObjectID `bson:"notes" json:"notes"`
	ActionMessages []primitive.ObjectID `bson:"actionMessage" json:"actionMessage"`
	Chat           *primitive.ObjectID  `bson:"chat,omitempty" json:"chat,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Note is an internal admin-only remark on a complaint.
type Note struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ComplaintID primitive.ObjectID `bson:"complaintId" json:"complaintId"`
	AuthorID    primitive.ObjectID `bson:"authorId" json:"authorId"`
	AuthorRole  string             `bson:"authorRole" json:"authorRole"`
	Content     string             `bson:"content" json:"content"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Guard is the state a transition expects to find. An empty AuthorizationStatus matches any value.
type Guard struct {
	Status              Status
	AuthorizationStatus AuthorizationStatus
}

// Change is the field-level mutation applied atomically when the guard holds.
type Change struct {
	Status              Status
	PreviousStatus      Status
	ClearPrevious       bool
	AuthorizationStatus AuthorizationStatus
	PushTimeline        primitive.ObjectID
	PushResolution      primitive.ObjectID
	PushRejection       string
}

type SubmitInput struct {
	CompanyID      string   `json:"companyId"`
	SubmissionType string   `json:"submissionType"`
	Department     string   `json:"department"`
	Subject        string   `json:"subject"`
	Message        string   `json:"message"`
	Anonymous      bool     `json:"anonymous"`
	Tags           []string `json:"tags"`
	Attachments    []string `json:"attachments"`
}

type UpdateStatusInput struct {
	Status          Status                     `json:"status"`
	Note            string                     `json:"note"`
	Acknowledgement resolution.Acknowledgement `json:"acknowledgement"`
}

type AuthorizeInput struct {
	Decision AuthorizationStatus `json:"decision"`
	Reason   string              `json:"reason"`
}

// TransitionResult is what a successful transition committed.
type TransitionResult struct {
	Complaint  *Complaint             `json:"complaint"`
	Entry      *timeline.Entry        `json:"timeline"`
	Resolution *resolution.Resolution `json:"resolution,omitempty"`
}

// StatusUpdate is the payload pushed to the complaint room after a transition.
type StatusUpdate struct {
	ComplaintID         primitive.ObjectID     `json:"complaintId"`
	Status              Status                 `json:"status"`
	AuthorizationStatus AuthorizationStatus    `json:"authorizationStatus,omitempty"`
	Entry               *timeline.Entry        `json:"timeline"`
	Resolution          *resolution.Resolution `json:"resolution,omitempty"`
}

type ListQuery struct {
	Status     Status
	Priority   priority.Level
	Department string
	Search     string
	Page       int64
	Limit      int64
}

// ListFilter is a ListQuery already scoped to what the caller may see.
type ListFilter struct {
	ListQuery
	CompanyID *primitive.ObjectID
	UserID    *primitive.ObjectID
}

type Count struct {
	Key   string `bson:"_id" json:"key"`
	Count int64  `bson:"count" json:"count"`
}

type Stats struct {
	Total      int64   `json:"total"`
	ByStatus   []Count `json:"byStatus"`
	ByPriority []Count `json:"byPriority"`
}
