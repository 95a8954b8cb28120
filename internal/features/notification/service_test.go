package notification

import (
	"context"
	"errors"
	"testing"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memRepo struct {
	items     map[primitive.ObjectID]*Notification
	failAfter int
	created   int
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[primitive.ObjectID]*Notification{}, failAfter: -1}
}

func (r *memRepo) Create(_ context.Context, n *Notification) error {
	if r.failAfter >= 0 && r.created >= r.failAfter {
		return errors.New("insert failed")
	}
	r.created++
	n.ID = primitive.NewObjectID()
	r.items[n.ID] = n
	return nil
}

func (r *memRepo) ListForRecipient(_ context.Context, targetID primitive.ObjectID, _, _ int64) ([]Notification, int64, error) {
	var out []Notification
	for _, n := range r.items {
		for _, rc := range n.Recipients {
			if rc.TargetID == targetID {
				out = append(out, *n)
			}
		}
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) UnreadCount(_ context.Context, targetID primitive.ObjectID) (int64, error) {
	var count int64
	for _, n := range r.items {
		for _, rc := range n.Recipients {
			if rc.TargetID == targetID && !rc.Read {
				count++
			}
		}
	}
	return count, nil
}

func (r *memRepo) MarkRead(_ context.Context, id, targetID primitive.ObjectID) error {
	n, ok := r.items[id]
	if !ok {
		return apperr.NotFound("notification")
	}
	for i := range n.Recipients {
		if n.Recipients[i].TargetID == targetID {
			n.Recipients[i].Read = true
			return nil
		}
	}
	return apperr.NotFound("notification")
}

func (r *memRepo) MarkAllRead(ctx context.Context, targetID primitive.ObjectID) (int64, error) {
	var updated int64
	for id := range r.items {
		if r.MarkRead(ctx, id, targetID) == nil {
			updated++
		}
	}
	return updated, nil
}

func (r *memRepo) RemoveRecipient(_ context.Context, id, targetID primitive.ObjectID) (bool, error) {
	n, ok := r.items[id]
	if !ok {
		return false, apperr.NotFound("notification")
	}
	kept := n.Recipients[:0]
	found := false
	for _, rc := range n.Recipients {
		if rc.TargetID == targetID {
			found = true
			continue
		}
		kept = append(kept, rc)
	}
	if !found {
		return false, apperr.NotFound("notification")
	}
	n.Recipients = kept
	if len(kept) == 0 {
		delete(r.items, id)
		return true, nil
	}
	return false, nil
}

func (r *memRepo) DeleteByComplaints(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	return 0, nil
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveAdmins(ctx context.Context, companyID primitive.ObjectID, roles []common_models.AdminRole) ([]common_models.Audience, error) {
	args := m.Called(ctx, companyID, roles)
	admins, _ := args.Get(0).([]common_models.Audience)
	return admins, args.Error(1)
}

func subject() Subject {
	submitter := primitive.NewObjectID()
	return Subject{
		ComplaintID: primitive.NewObjectID(),
		CompanyID:   primitive.NewObjectID(),
		SubmitterID: &submitter,
	}
}

func TestNotifyFansOutToAdminsExceptSender(t *testing.T) {
	repo := newMemRepo()
	resolver := &mockResolver{}
	svc := NewNotificationService(repo, resolver, zap.NewNop())

	sender := common_models.Actor{ID: primitive.NewObjectID(), Role: string(common_models.RoleAdmin)}
	other1 := primitive.NewObjectID()
	other2 := primitive.NewObjectID()
	sub := subject()

	roles := []common_models.AdminRole{common_models.RoleSuperAdmin, common_models.RoleAdmin}
	resolver.On("ResolveAdmins", mock.Anything, sub.CompanyID, roles).Return([]common_models.Audience{
		{ID: sender.ID, Role: common_models.RoleAdmin},
		{ID: other1, Role: common_models.RoleSuperAdmin},
		{ID: other2, Role: common_models.RoleAdmin},
	}, nil)

	deliveries, err := svc.Notify(context.Background(), FanOutRequest{
		Subject:      sub,
		Type:         TypeComplaintResolved,
		Message:      "resolved",
		Sender:       sender,
		AdminRoles:   roles,
		SendToUser:   true,
		SendToAdmins: true,
	})
	require.NoError(t, err)
	require.Len(t, deliveries, 3)

	assert.Equal(t, *sub.SubmitterID, deliveries[0].TargetID)
	assert.Equal(t, TargetUser, deliveries[0].TargetKind)
	for _, d := range deliveries {
		assert.NotEqual(t, sender.ID, d.TargetID)
		require.Len(t, d.Notification.Recipients, 1)
		assert.Equal(t, common_models.ActorKindAdmin, d.Notification.SenderKind)
	}
	resolver.AssertExpectations(t)
}

func TestNotifyWithoutAdminRolesIsNoop(t *testing.T) {
	repo := newMemRepo()
	resolver := &mockResolver{}
	svc := NewNotificationService(repo, resolver, zap.NewNop())

	deliveries, err := svc.Notify(context.Background(), FanOutRequest{
		Subject:      subject(),
		Type:         TypeAuthorizationRejected,
		SendToAdmins: true,
	})
	require.NoError(t, err)
	assert.Empty(t, deliveries)
	assert.Empty(t, repo.items)
	resolver.AssertNotCalled(t, "ResolveAdmins", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyReturnsPartialDeliveriesOnFailure(t *testing.T) {
	repo := newMemRepo()
	repo.failAfter = 1
	resolver := &mockResolver{}
	svc := NewNotificationService(repo, resolver, zap.NewNop())

	sub := subject()
	resolver.On("ResolveAdmins", mock.Anything, sub.CompanyID, mock.Anything).Return([]common_models.Audience{
		{ID: primitive.NewObjectID()},
		{ID: primitive.NewObjectID()},
	}, nil)

	deliveries, err := svc.Notify(context.Background(), FanOutRequest{
		Subject:      sub,
		Type:         TypeComplaintCreated,
		AdminRoles:   []common_models.AdminRole{common_models.RoleAdmin},
		SendToAdmins: true,
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindDownstream))
	assert.Len(t, deliveries, 1)
}

func TestNotifyPropagatesResolverError(t *testing.T) {
	resolver := &mockResolver{}
	svc := NewNotificationService(newMemRepo(), resolver, zap.NewNop())
	resolver.On("ResolveAdmins", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.Notify(context.Background(), FanOutRequest{
		Subject:      subject(),
		AdminRoles:   []common_models.AdminRole{common_models.RoleAdmin},
		SendToAdmins: true,
	})
	assert.True(t, apperr.Is(err, apperr.KindDownstream))
}

func TestRemoveDeletesOrphanedNotification(t *testing.T) {
	repo := newMemRepo()
	svc := NewNotificationService(repo, &mockResolver{}, zap.NewNop())

	a := common_models.Actor{ID: primitive.NewObjectID(), Role: string(common_models.RoleAdmin)}
	b := common_models.Actor{ID: primitive.NewObjectID(), Role: string(common_models.RoleSubAdmin)}
	n := &Notification{
		ComplaintID: primitive.NewObjectID(),
		Recipients:  []Recipient{{TargetID: a.ID}, {TargetID: b.ID}},
	}
	require.NoError(t, repo.Create(context.Background(), n))

	deleted, err := svc.Remove(context.Background(), a, n.ID.Hex())
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Contains(t, repo.items, n.ID)

	deleted, err = svc.Remove(context.Background(), b, n.ID.Hex())
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NotContains(t, repo.items, n.ID)
}

func TestMarkReadRejectsBadID(t *testing.T) {
	svc := NewNotificationService(newMemRepo(), &mockResolver{}, zap.NewNop())
	err := svc.MarkRead(context.Background(), common_models.Actor{}, "nope")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUnreadCountAfterMarkAll(t *testing.T) {
	repo := newMemRepo()
	svc := NewNotificationService(repo, &mockResolver{}, zap.NewNop())
	me := common_models.Actor{ID: primitive.NewObjectID(), Role: common_models.RoleUser}
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(context.Background(), &Notification{Recipients: []Recipient{{TargetID: me.ID}}}))
	}

	count, err := svc.UnreadCount(context.Background(), me)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	updated, err := svc.MarkAllRead(context.Background(), me)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	count, _ = svc.UnreadCount(context.Background(), me)
	assert.Zero(t, count)
}
