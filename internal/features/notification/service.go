package notification

import (
	"context"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AudienceResolver finds the active admins of a company holding any of roles.
type AudienceResolver interface {
	ResolveAdmins(ctx context.Context, companyID primitive.ObjectID, roles []common_models.AdminRole) ([]common_models.Audience, error)
}

type NotificationService interface {
	Notify(ctx context.Context, req FanOutRequest) ([]Delivery, error)
	ListForRecipient(ctx context.Context, actor common_models.Actor, page, limit int64) ([]Notification, int64, error)
	UnreadCount(ctx context.Context, actor common_models.Actor) (int64, error)
	MarkRead(ctx context.Context, actor common_models.Actor, id string) error
	MarkAllRead(ctx context.Context, actor common_models.Actor) (int64, error)
	Remove(ctx context.Context, actor common_models.Actor, id string) (bool, error)
}

type NotificationServiceImpl struct {
	repo     NotificationRepository
	audience AudienceResolver
	logger   *zap.Logger
}

func NewNotificationService(repo NotificationRepository, audience AudienceResolver, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		repo:     repo,
		audience: audience,
		logger:   logger,
	}
}

// Notify creates one notification per recipient: the submitter when SendToUser
// is set and every matching admin except the sender when SendToAdmins is set.
// Deliveries created before a failure are returned alongside the error.
func (s *NotificationServiceImpl) Notify(ctx context.Context, req FanOutRequest) ([]Delivery, error) {
	if req.Subject.ComplaintID.IsZero() {
		return nil, apperr.Validation("notification needs a complaint")
	}

	var deliveries []Delivery

	if req.SendToUser && req.Subject.SubmitterID != nil && !req.Subject.SubmitterID.IsZero() {
		d, err := s.deliver(ctx, req, *req.Subject.SubmitterID, TargetUser)
		if err != nil {
			return deliveries, err
		}
		deliveries = append(deliveries, d)
	}

	if !req.SendToAdmins || len(req.AdminRoles) == 0 {
		return deliveries, nil
	}

	admins, err := s.audience.ResolveAdmins(ctx, req.Subject.CompanyID, req.AdminRoles)
	if err != nil {
		return deliveries, apperr.Downstream("failed to resolve notification audience", err)
	}

	for _, admin := range admins {
		if admin.ID == req.Sender.ID {
			continue
		}
		d, err := s.deliver(ctx, req, admin.ID, TargetAdmin)
		if err != nil {
			return deliveries, err
		}
		deliveries = append(deliveries, d)
	}

	s.logger.Debug("notifications fanned out",
		zap.String("complaintId", req.Subject.ComplaintID.Hex()),
		zap.String("type", string(req.Type)),
		zap.Int("count", len(deliveries)),
	)
	return deliveries, nil
}

func (s *NotificationServiceImpl) deliver(ctx context.Context, req FanOutRequest, target primitive.ObjectID, kind TargetKind) (Delivery, error) {
	n := &Notification{
		ComplaintID: req.Subject.ComplaintID,
		Type:        req.Type,
		Message:     req.Message,
		SenderID:    req.Sender.ID,
		SenderKind:  req.Sender.Kind(),
		Recipients:  []Recipient{{TargetID: target, TargetKind: kind}},
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return Delivery{}, apperr.Downstream("failed to create notification", err)
	}
	return Delivery{Notification: n, TargetID: target, TargetKind: kind}, nil
}

func (s *NotificationServiceImpl) ListForRecipient(ctx context.Context, actor common_models.Actor, page, limit int64) ([]Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.repo.ListForRecipient(ctx, actor.ID, page, limit)
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, actor common_models.Actor) (int64, error) {
	return s.repo.UnreadCount(ctx, actor.ID)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, actor common_models.Actor, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("invalid notification id")
	}
	return s.repo.MarkRead(ctx, oid, actor.ID)
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, actor common_models.Actor) (int64, error) {
	return s.repo.MarkAllRead(ctx, actor.ID)
}

// Remove drops the actor from the recipient list. It reports whether the
// notification itself was deleted because no recipients remained.
func (s *NotificationServiceImpl) Remove(ctx context.Context, actor common_models.Actor, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, apperr.Validation("invalid notification id")
	}
	return s.repo.RemoveRecipient(ctx, oid, actor.ID)
}
