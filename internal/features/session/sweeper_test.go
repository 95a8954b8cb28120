package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeStore struct{ up bool }

func (f fakeStore) IsConnected(context.Context) bool { return f.up }

type flakyExpirer struct {
	failures int
	calls    int
	removed  int64
}

func (f *flakyExpirer) DeleteExpired(context.Context, time.Time) (int64, error) {
	f.calls++
	if f.calls <= f.failures {
		return 0, errors.New("transient")
	}
	return f.removed, nil
}

func testSweeper(repo expirer, up bool) *Sweeper {
	s := newSweeper(repo, fakeStore{up: up}, time.Minute, zap.NewNop())
	s.baseDelay = time.Millisecond
	return s
}

func TestSweepSkipsWhenDisconnected(t *testing.T) {
	repo := &flakyExpirer{removed: 5}
	n, err := testSweeper(repo, false).Sweep(context.Background())

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, repo.calls)
}

func TestSweepRetriesThenSucceeds(t *testing.T) {
	repo := &flakyExpirer{failures: 2, removed: 4}
	n, err := testSweeper(repo, true).Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, 3, repo.calls)
}

func TestSweepGivesUpAfterThreeAttempts(t *testing.T) {
	repo := &flakyExpirer{failures: 10}
	_, err := testSweeper(repo, true).Sweep(context.Background())

	assert.Error(t, err)
	assert.Equal(t, sweepAttempts, repo.calls)
}

func TestSweepStopsWhenCancelled(t *testing.T) {
	repo := &flakyExpirer{failures: 10}
	s := testSweeper(repo, true)
	s.baseDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Sweep(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, repo.calls)
}

func TestSweeperStartStop(t *testing.T) {
	s := testSweeper(&flakyExpirer{}, true)
	require.NoError(t, s.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

type memSessions struct {
	items map[string]*Session
}

func (m *memSessions) Create(_ context.Context, s *Session) error {
	m.items[s.ID] = s
	return nil
}

func (m *memSessions) FindByID(_ context.Context, id string) (*Session, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("session")
	}
	return s, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *memSessions) DeleteBySubject(context.Context, primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (m *memSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range m.items {
		if s.Expired(now) {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

func (m *memSessions) EnsureIndexes(context.Context) error { return nil }

func TestSessionLifecycle(t *testing.T) {
	repo := &memSessions{items: map[string]*Session{}}
	svc := NewSessionService(repo, &config.Config{SessionTTL: time.Hour}).(*SessionServiceImpl)

	sess, err := svc.Open(context.Background(), primitive.NewObjectID(), common_models.ActorKindUser)
	require.NoError(t, err)
	assert.Len(t, sess.ID, 36)

	got, err := svc.Validate(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.SubjectID, got.SubjectID)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Validate(context.Background(), sess.ID)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	n, err := repo.DeleteExpired(context.Background(), svc.now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.Validate(context.Background(), sess.ID)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}
