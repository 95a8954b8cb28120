package session

import (
	"time"

	common_models "go-bighil/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session backs one issued token. The token's sid claim is the session ID.
type Session struct {
	ID                string                  `bson:"_id" json:"id"`
	SubjectID         primitive.ObjectID      `bson:"subjectId" json:"subjectId"`
	Kind              common_models.ActorKind `bson:"kind" json:"kind"`
	TwoFactorVerified bool                    `bson:"twoFactorVerified" json:"twoFactorVerified"`
	ExpiresAt         time.Time               `bson:"expiresAt" json:"expiresAt"`
	CreatedAt         time.Time               `bson:"createdAt" json:"createdAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
