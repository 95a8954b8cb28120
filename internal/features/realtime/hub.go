package realtime

import (
	"context"
	"sync"

	common_models "go-bighil/internal/common/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const clientBuffer = 32

// Client is one live websocket connection as seen by the hub.
type Client struct {
	ID    string
	Actor common_models.Actor

	send  chan Event
	rooms map[string]struct{}
}

// Events is drained by the connection's write pump. It is closed on Unregister.
func (c *Client) Events() <-chan Event {
	return c.send
}

// Hub keeps the room registry of the local process.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

func (h *Hub) Register(actor common_models.Actor) *Client {
	return &Client{
		ID:    uuid.NewString(),
		Actor: actor,
		send:  make(chan Event, clientBuffer),
		rooms: make(map[string]struct{}),
	}
}

// Join adds c to room. It reports false once c has been unregistered.
func (h *Hub) Join(c *Client, room string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.rooms == nil {
		return false
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
	return true
}

func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

func (h *Hub) leaveLocked(c *Client, room string) {
	delete(c.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Unregister removes c from every room and closes its event channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.rooms == nil {
		return
	}
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
	c.rooms = nil
	close(c.send)
}

// Deliver fans ev out to the room. Clients whose buffer is full are disconnected.
func (h *Hub) Deliver(ev Event) int {
	var slow []*Client
	delivered := 0

	h.mu.RLock()
	for c := range h.rooms[ev.Room] {
		select {
		case c.send <- ev:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow websocket client",
			zap.String("client", c.ID),
			zap.String("actorId", c.Actor.ID.Hex()),
		)
		h.Unregister(c)
	}
	return delivered
}

// Direct sends ev to a single client without touching rooms.
func (h *Hub) Direct(c *Client, ev Event) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if c.rooms == nil {
		return false
	}
	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}

// Publish makes the hub usable as the dispatcher's sink in single-instance mode.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.Deliver(ev)
	return nil
}

// ConnectedRoles lists the canonical roles with at least one connection in room.
// It only sees this process's connections.
func (h *Hub) ConnectedRoles(room string) []common_models.CanonicalRole {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[common_models.CanonicalRole]bool)
	var roles []common_models.CanonicalRole
	for c := range h.rooms[room] {
		role, ok := c.Actor.Canonical()
		if !ok || seen[role] {
			continue
		}
		seen[role] = true
		roles = append(roles, role)
	}
	return roles
}

func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
