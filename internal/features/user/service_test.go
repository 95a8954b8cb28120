package user

import (
	"context"
	"testing"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memUsers struct {
	items map[primitive.ObjectID]*User
}

func newMemUsers() *memUsers {
	return &memUsers{items: map[primitive.ObjectID]*User{}}
}

func (r *memUsers) Create(_ context.Context, u *User) error {
	u.Email = normalizeEmail(u.Email)
	for _, existing := range r.items {
		if existing.Email == u.Email {
			return apperr.Validation("an account with this email already exists")
		}
	}
	u.ID = primitive.NewObjectID()
	r.items[u.ID] = u
	return nil
}

func (r *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*User, error) {
	u, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return u, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.items {
		if u.Email == normalizeEmail(email) {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (r *memUsers) UpdateStatus(_ context.Context, id primitive.ObjectID, status Status) error {
	u, ok := r.items[id]
	if !ok {
		return apperr.NotFound("user")
	}
	u.Status = status
	return nil
}

func (r *memUsers) EnsureIndexes(context.Context) error { return nil }

func TestRegister(t *testing.T) {
	repo := newMemUsers()
	svc := NewUserService(repo, zap.NewNop())

	u, err := svc.Register(context.Background(), RegisterInput{Name: " Dana ", Email: "Dana@Example.test", Password: "hunter22!"})
	require.NoError(t, err)
	assert.Equal(t, "Dana", u.Name)
	assert.Equal(t, "dana@example.test", u.Email)
	assert.Equal(t, StatusActive, u.Status)
	assert.True(t, utils.CheckPassword(u.Password, "hunter22!"))

	_, err = svc.Register(context.Background(), RegisterInput{Name: "Dup", Email: "dana@example.test", Password: "hunter22!"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(newMemUsers(), zap.NewNop())

	cases := []RegisterInput{
		{Name: "", Email: "a@b.test", Password: "longenough"},
		{Name: "A", Email: "not-an-email", Password: "longenough"},
		{Name: "A", Email: "a@b.test", Password: "short"},
	}
	for _, in := range cases {
		_, err := svc.Register(context.Background(), in)
		assert.True(t, apperr.Is(err, apperr.KindValidation), in)
	}
}

func TestContactAndSuspend(t *testing.T) {
	repo := newMemUsers()
	svc := NewUserService(repo, zap.NewNop())
	u, err := svc.Register(context.Background(), RegisterInput{Name: "Dana", Email: "dana@example.test", Password: "hunter22!"})
	require.NoError(t, err)

	name, address, err := svc.Contact(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana", name)
	assert.Equal(t, "dana@example.test", address)

	self := common_models.Actor{ID: u.ID, Role: common_models.RoleUser}
	assert.True(t, apperr.Is(svc.Suspend(context.Background(), self, u.ID.Hex()), apperr.KindForbidden))

	bighil := common_models.Actor{ID: primitive.NewObjectID(), Role: common_models.RoleBighil}
	require.NoError(t, svc.Suspend(context.Background(), bighil, u.ID.Hex()))
	assert.Equal(t, StatusSuspended, repo.items[u.ID].Status)

	me, err := svc.Me(context.Background(), self)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)
}
