package timeline

import (
	"context"
	"errors"
	"testing"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memRepo struct {
	entries []Entry
	failErr error
}

func (m *memRepo) Create(ctx context.Context, entry *Entry) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memRepo) FindByComplaint(ctx context.Context, complaintID primitive.ObjectID, onlyVisible bool) ([]Entry, error) {
	out := []Entry{}
	for _, e := range m.entries {
		if e.ComplaintID == complaintID && (!onlyVisible || e.VisibleToUser) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memRepo) DeleteByComplaints(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (m *memRepo) EnsureIndexes(ctx context.Context) error { return nil }

func TestRecordAndUserView(t *testing.T) {
	repo := &memRepo{}
	rec := NewRecorder(repo)
	complaintID := primitive.NewObjectID()
	admin := common_models.Actor{ID: primitive.NewObjectID(), Role: "SUB ADMIN"}

	require.NoError(t, rec.Record(context.Background(), NewEntry(complaintID, "In Progress", admin, "picked up", true)))
	require.NoError(t, rec.Record(context.Background(), NewEntry(complaintID, "Pending Authorization", admin, "closed", false)))

	all, err := rec.ForComplaint(context.Background(), complaintID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	visible, err := rec.ForComplaint(context.Background(), complaintID, true)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "picked up", visible[0].Message)
	assert.Equal(t, "SUB ADMIN", visible[0].ActorRole)
}

func TestRecordValidatesAndWrapsStoreErrors(t *testing.T) {
	rec := NewRecorder(&memRepo{failErr: errors.New("write concern")})

	err := rec.Record(context.Background(), &Entry{Status: "Pending"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	err = rec.Record(context.Background(), NewEntry(primitive.NewObjectID(), "Pending", common_models.Actor{}, "x", true))
	assert.True(t, apperr.Is(err, apperr.KindDownstream))
}

func TestRetractRemovesUncommittedEntry(t *testing.T) {
	repo := &memRepo{}
	rec := NewRecorder(repo)
	complaintID := primitive.NewObjectID()
	actor := common_models.Actor{ID: primitive.NewObjectID(), Role: "SUB ADMIN"}

	kept := NewEntry(complaintID, "Pending", actor, "submitted", true)
	dropped := NewEntry(complaintID, "In Progress", actor, "picked up", true)
	require.NoError(t, rec.Record(context.Background(), kept))
	require.NoError(t, rec.Record(context.Background(), dropped))

	require.NoError(t, rec.Retract(context.Background(), dropped))
	entries, err := rec.ForComplaint(context.Background(), complaintID, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, kept.ID, entries[0].ID)
}
