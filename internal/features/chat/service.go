package chat

import (
	"context"
	"strings"
	"time"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/features/realtime"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ComplaintAccess is the slice of the complaint service chat depends on.
type ComplaintAccess interface {
	CanAccess(ctx context.Context, actor common_models.Actor, complaintID primitive.ObjectID) (bool, error)
	AttachChat(ctx context.Context, complaintID, chatID primitive.ObjectID) error
}

// Presence answers which canonical roles hold a live connection in a room.
type Presence interface {
	ConnectedRoles(room string) []common_models.CanonicalRole
}

type Broadcaster interface {
	EmitComplaint(complaintID primitive.ObjectID, name string, payload interface{})
}

type ChatService interface {
	Send(ctx context.Context, actor common_models.Actor, complaintID string, content string) (*Chat, error)
	MarkRead(ctx context.Context, actor common_models.Actor, complaintID string) (*Chat, error)
	Get(ctx context.Context, actor common_models.Actor, complaintID string) (*Chat, error)
}

type ChatServiceImpl struct {
	repo        ChatRepository
	complaints  ComplaintAccess
	presence    Presence
	broadcaster Broadcaster
	logger      *zap.Logger
}

func NewChatService(repo ChatRepository, complaints ComplaintAccess, presence Presence, broadcaster Broadcaster, logger *zap.Logger) ChatService {
	return &ChatServiceImpl{
		repo:        repo,
		complaints:  complaints,
		presence:    presence,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Send appends a message. Every other canonical role without a live
// connection in the complaint room gets its unseen counter bumped by one.
func (s *ChatServiceImpl) Send(ctx context.Context, actor common_models.Actor, complaintID string, content string) (*Chat, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("message content is required")
	}
	id, role, err := s.authorize(ctx, actor, complaintID)
	if err != nil {
		return nil, err
	}

	connected := make(map[common_models.CanonicalRole]bool)
	for _, r := range s.presence.ConnectedRoles(realtime.ComplaintRoom(id)) {
		connected[r] = true
	}
	var increment []common_models.CanonicalRole
	for _, r := range common_models.CanonicalRoles {
		if r != role && !connected[r] {
			increment = append(increment, r)
		}
	}

	msg := Message{
		SenderID:   actor.ID,
		SenderRole: role,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	chat, err := s.repo.Append(ctx, id, msg, increment)
	if err != nil {
		return nil, apperr.Downstream("failed to save chat message", err)
	}
	if err := s.complaints.AttachChat(ctx, id, chat.ID); err != nil {
		s.logger.Warn("failed to attach chat to complaint",
			zap.String("complaintId", id.Hex()),
			zap.Error(err),
		)
	}

	s.broadcaster.EmitComplaint(id, realtime.EventChatMessage, MessageEvent{ComplaintID: id, Message: msg})
	s.broadcaster.EmitComplaint(id, realtime.EventUnseenCounts, CountsEvent{ComplaintID: id, UnseenCounts: chat.UnseenCounts})
	return chat, nil
}

// MarkRead zeroes the caller's own counter only.
func (s *ChatServiceImpl) MarkRead(ctx context.Context, actor common_models.Actor, complaintID string) (*Chat, error) {
	id, role, err := s.authorize(ctx, actor, complaintID)
	if err != nil {
		return nil, err
	}

	chat, err := s.repo.ResetCount(ctx, id, role)
	if err != nil {
		return nil, err
	}
	s.broadcaster.EmitComplaint(id, realtime.EventUnseenCounts, CountsEvent{ComplaintID: id, UnseenCounts: chat.UnseenCounts})
	return chat, nil
}

func (s *ChatServiceImpl) Get(ctx context.Context, actor common_models.Actor, complaintID string) (*Chat, error) {
	id, _, err := s.authorize(ctx, actor, complaintID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByComplaint(ctx, id)
}

// authorize admits the submitter and admins of the owning tenant.
func (s *ChatServiceImpl) authorize(ctx context.Context, actor common_models.Actor, complaintID string) (primitive.ObjectID, common_models.CanonicalRole, error) {
	id, err := primitive.ObjectIDFromHex(complaintID)
	if err != nil {
		return id, "", apperr.Validation("invalid complaint id")
	}
	role, ok := actor.Canonical()
	if !ok {
		return id, "", apperr.Unauthorized("role cannot take part in complaint chat")
	}
	allowed, err := s.complaints.CanAccess(ctx, actor, id)
	if err != nil {
		return id, "", err
	}
	if !allowed {
		return id, "", apperr.Unauthorized("not a participant of this complaint")
	}
	return id, role, nil
}
