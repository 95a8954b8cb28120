package realtime

import (
	"context"
	"testing"

	common_models "go-bighil/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func actor(role string) common_models.Actor {
	return common_models.Actor{ID: primitive.NewObjectID(), Role: role}
}

func TestHubDeliversOnlyToRoomMembers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	complaintID := primitive.NewObjectID()
	room := ComplaintRoom(complaintID)

	in := hub.Register(actor(common_models.RoleUser))
	out := hub.Register(actor(string(common_models.RoleAdmin)))
	hub.Join(in, room)
	hub.Join(out, AdminRoom(out.Actor.ID))

	n := hub.Deliver(NewEvent(room, EventStatusUpdate, "x"))
	assert.Equal(t, 1, n)

	require.Len(t, in.Events(), 1)
	ev := <-in.Events()
	assert.Equal(t, EventStatusUpdate, ev.Name)
	assert.NotEmpty(t, ev.ID)
	assert.Len(t, out.Events(), 0)
}

func TestHubLeaveAndUnregister(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := hub.Register(actor(common_models.RoleUser))
	hub.Join(c, "complaint_a")
	hub.Join(c, "complaint_b")

	hub.Leave(c, "complaint_a")
	assert.Equal(t, 0, hub.RoomSize("complaint_a"))
	assert.Equal(t, 1, hub.RoomSize("complaint_b"))

	hub.Unregister(c)
	hub.Unregister(c)
	assert.Equal(t, 0, hub.RoomSize("complaint_b"))

	_, open := <-c.Events()
	assert.False(t, open)
	assert.False(t, hub.Direct(c, NewEvent("", EventError, nil)))
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := hub.Register(actor(common_models.RoleUser))
	hub.Join(c, "r")

	for i := 0; i < clientBuffer; i++ {
		hub.Deliver(NewEvent("r", EventChatMessage, i))
	}
	assert.Equal(t, 0, hub.Deliver(NewEvent("r", EventChatMessage, "overflow")))
	assert.Equal(t, 0, hub.RoomSize("r"))
}

type allowAll struct{}

func (allowAll) CanAccess(context.Context, common_models.Actor, primitive.ObjectID) (bool, error) {
	return true, nil
}

func dropSlow(hub *Hub, room string) {
	for i := 0; i <= clientBuffer; i++ {
		hub.Deliver(NewEvent(room, EventChatMessage, i))
	}
}

func TestJoinAfterSlowClientDropped(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := hub.Register(actor(common_models.RoleUser))
	require.True(t, hub.Join(c, "r"))
	dropSlow(hub, "r")

	assert.NotPanics(t, func() {
		assert.False(t, hub.Join(c, "complaint_x"))
	})
	assert.Equal(t, 0, hub.RoomSize("complaint_x"))
	assert.NotPanics(t, func() {
		assert.Equal(t, 0, hub.Deliver(NewEvent("complaint_x", EventStatusUpdate, "x")))
	})
}

func TestHandleCommandStopsForDroppedClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctrl := NewRealtimeController(hub, allowAll{}, nil, zap.NewNop())
	c := hub.Register(actor(common_models.RoleUser))
	hub.Join(c, "r")

	complaintID := primitive.NewObjectID()
	assert.True(t, ctrl.handleCommand(c, command{Action: "join", ComplaintID: complaintID.Hex()}))
	assert.Equal(t, 1, hub.RoomSize(ComplaintRoom(complaintID)))

	dropSlow(hub, "r")
	next := primitive.NewObjectID()
	assert.False(t, ctrl.handleCommand(c, command{Action: "join", ComplaintID: next.Hex()}))
	assert.Equal(t, 0, hub.RoomSize(ComplaintRoom(next)))
	assert.True(t, ctrl.handleCommand(c, command{Action: "leave", ComplaintID: next.Hex()}))
}

func TestConnectedRolesAreCanonicalAndDistinct(t *testing.T) {
	hub := NewHub(zap.NewNop())
	room := ComplaintRoom(primitive.NewObjectID())

	for _, role := range []string{common_models.RoleUser, string(common_models.RoleSubAdmin), string(common_models.RoleSubAdmin), common_models.RoleBighil} {
		hub.Join(hub.Register(actor(role)), room)
	}

	roles := hub.ConnectedRoles(room)
	assert.ElementsMatch(t, []common_models.CanonicalRole{common_models.CanonicalUser, common_models.CanonicalSubAdmin}, roles)
}

func TestIdentityRoom(t *testing.T) {
	u := actor(common_models.RoleUser)
	a := actor(string(common_models.RoleSuperAdmin))
	assert.Equal(t, "user_"+u.ID.Hex(), IdentityRoom(u))
	assert.Equal(t, "admin_"+a.ID.Hex(), IdentityRoom(a))
}
