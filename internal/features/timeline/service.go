package timeline

import (
	"context"

	"go-bighil/internal/common/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recorder appends audit entries and never updates one. Retract only removes
// an entry written for a transition that then failed to commit.
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
	Retract(ctx context.Context, entry *Entry) error
	ForComplaint(ctx context.Context, complaintID primitive.ObjectID, userView bool) ([]Entry, error)
}

type RecorderImpl struct {
	Repo TimelineRepository
}

func NewRecorder(repo TimelineRepository) Recorder {
	return &RecorderImpl{Repo: repo}
}

func (s *RecorderImpl) Record(ctx context.Context, entry *Entry) error {
	if entry == nil || entry.ComplaintID.IsZero() {
		return apperr.Validation("timeline entry needs a complaint")
	}
	if entry.Status == "" {
		return apperr.Validation("timeline entry needs a status")
	}
	if err := s.Repo.Create(ctx, entry); err != nil {
		return apperr.Downstream("failed to record timeline entry", err)
	}
	return nil
}

func (s *RecorderImpl) Retract(ctx context.Context, entry *Entry) error {
	if err := s.Repo.Delete(ctx, entry.ID); err != nil {
		return apperr.Downstream("failed to retract timeline entry", err)
	}
	return nil
}

func (s *RecorderImpl) ForComplaint(ctx context.Context, complaintID primitive.ObjectID, userView bool) ([]Entry, error) {
	return s.Repo.FindByComplaint(ctx, complaintID, userView)
}
