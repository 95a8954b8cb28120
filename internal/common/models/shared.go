package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	TenantIDKey ContextKey = "tenant_id"
	ActorKey    ContextKey = "actor"
)

// Actor is the already-verified identity every core operation runs as.
type Actor struct {
	ID        primitive.ObjectID `json:"id"`
	Role      string             `json:"role"`
	CompanyID primitive.ObjectID `json:"company_id,omitempty"`
}

func (a Actor) Kind() ActorKind {
	switch {
	case a.Role == RoleUser:
		return ActorKindUser
	case a.Role == RoleBighil:
		return ActorKindBighil
	case IsAdminRole(a.Role):
		return ActorKindAdmin
	}
	return ""
}

func (a Actor) IsAdmin() bool {
	return a.Kind() == ActorKindAdmin
}

// Canonical returns the chat/unseen-count role of the actor.
func (a Actor) Canonical() (CanonicalRole, bool) {
	return ToCanonical(a.Role)
}

// Audience is an admin resolved as a notification target.
type Audience struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Role AdminRole          `bson:"role" json:"role"`
}

type Log struct {
	Message      string    `bson:"message" json:"message"`
	IpAddress    string    `bson:"ip_address" json:"ip_address"`
	ComplaintID  string    `bson:"complaint_id,omitempty" json:"complaint_id,omitempty"`
	ActorID      string    `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
