package session

import (
	"context"
	"time"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/config"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionService interface {
	Open(ctx context.Context, subjectID primitive.ObjectID, kind common_models.ActorKind) (*Session, error)
	Validate(ctx context.Context, id string) (*Session, error)
	Revoke(ctx context.Context, id string) error
	TTL() time.Duration
}

type SessionServiceImpl struct {
	repo SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewSessionService(repo SessionRepository, cfg *config.Config) SessionService {
	return &SessionServiceImpl{
		repo: repo,
		ttl:  cfg.SessionTTL,
		now:  time.Now,
	}
}

func (s *SessionServiceImpl) Open(ctx context.Context, subjectID primitive.ObjectID, kind common_models.ActorKind) (*Session, error) {
	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		Kind:      kind,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, apperr.Downstream("failed to open session", err)
	}
	return sess, nil
}

// Validate returns the live session for id. Expired sessions are unauthorized
// even before the sweeper has removed them.
func (s *SessionServiceImpl) Validate(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, apperr.Unauthorized("token carries no session")
	}
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("session has ended")
		}
		return nil, err
	}
	if sess.Expired(s.now()) {
		return nil, apperr.Unauthorized("session has expired")
	}
	return sess, nil
}

func (s *SessionServiceImpl) Revoke(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *SessionServiceImpl) TTL() time.Duration {
	return s.ttl
}
