package complaint

import (
	"context"
	"fmt"
	"strings"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/config"
	"go-bighil/internal/features/email"
	"go-bighil/internal/features/notification"
	"go-bighil/internal/features/priority"
	"go-bighil/internal/features/resolution"
	"go-bighil/internal/features/timeline"
	"go-bighil/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CompanyDirectory resolves the tenant a complaint is filed against.
type CompanyDirectory interface {
	Prefix(ctx context.Context, companyID primitive.ObjectID) (string, error)
}

// UserDirectory resolves submitter contact details for outbound email.
type UserDirectory interface {
	Contact(ctx context.Context, userID primitive.ObjectID) (name, address string, err error)
}

type Notifier interface {
	Notify(ctx context.Context, req notification.FanOutRequest) ([]notification.Delivery, error)
}

// Broadcaster enqueues realtime events. It never reports delivery failures.
type Broadcaster interface {
	NotifyDeliveries(deliveries []notification.Delivery)
	EmitComplaint(complaintID primitive.ObjectID, name string, payload interface{})
}

type ComplaintService interface {
	Submit(ctx context.Context, actor common_models.Actor, in SubmitInput) (*Complaint, error)
	Get(ctx context.Context, actor common_models.Actor, id string) (*Complaint, error)
	List(ctx context.Context, actor common_models.Actor, q ListQuery) ([]Complaint, int64, error)
	ChangeStatus(ctx context.Context, actor common_models.Actor, id string, in UpdateStatusInput) (*TransitionResult, error)
	Authorize(ctx context.Context, actor common_models.Actor, id string, in AuthorizeInput) (*TransitionResult, error)
	Timeline(ctx context.Context, actor common_models.Actor, id string) ([]timeline.Entry, error)
	Resolutions(ctx context.Context, actor common_models.Actor, id string) ([]resolution.Resolution, error)
	AddNote(ctx context.Context, actor common_models.Actor, id, content string) (*Note, error)
	Notes(ctx context.Context, actor common_models.Actor, id string) ([]Note, error)
	Stats(ctx context.Context, actor common_models.Actor) (*Stats, error)
	Export(ctx context.Context, actor common_models.Actor, format string, q ListQuery) ([]byte, string, error)
	CanAccess(ctx context.Context, actor common_models.Actor, complaintID primitive.ObjectID) (bool, error)
	AttachChat(ctx context.Context, complaintID, chatID primitive.ObjectID) error
}

type ComplaintServiceImpl struct {
	repo        ComplaintRepository
	notes       NoteRepository
	resolutions resolution.ResolutionRepository
	timeline    timeline.Recorder
	notifier    Notifier
	broadcaster Broadcaster
	companies   CompanyDirectory
	users       UserDirectory
	mailer      email.Sender
	policy      config.Policy
	logger      *zap.Logger
}

func NewComplaintService(
	repo ComplaintRepository,
	notes NoteRepository,
	resolutions resolution.ResolutionRepository,
	recorder timeline.Recorder,
	notifier Notifier,
	broadcaster Broadcaster,
	companies CompanyDirectory,
	users UserDirectory,
	mailer email.Sender,
	cfg *config.Config,
	logger *zap.Logger,
) ComplaintService {
	return &ComplaintServiceImpl{
		repo:        repo,
		notes:       notes,
		resolutions: resolutions,
		timeline:    recorder,
		notifier:    notifier,
		broadcaster: broadcaster,
		companies:   companies,
		users:       users,
		mailer:      mailer,
		policy:      cfg.Policy,
		logger:      logger,
	}
}

// Submit files a complaint at Pending and tells the tenant's admins about it.
func (s *ComplaintServiceImpl) Submit(ctx context.Context, actor common_models.Actor, in SubmitInput) (*Complaint, error) {
	if actor.Kind() != common_models.ActorKindUser {
		return nil, apperr.Forbidden("only users can submit complaints")
	}
	companyID, err := primitive.ObjectIDFromHex(in.CompanyID)
	if err != nil {
		return nil, apperr.Validation("invalid company id")
	}
	subject := strings.TrimSpace(in.Subject)
	message := strings.TrimSpace(in.Message)
	if subject == "" || message == "" {
		return nil, apperr.Validation("subject and message are required")
	}

	prefix, err := s.companies.Prefix(ctx, companyID)
	if err != nil {
		return nil, err
	}
	seq, err := s.repo.NextSequence(ctx, companyID)
	if err != nil {
		return nil, apperr.Downstream("failed to allocate complaint id", err)
	}

	tags := cleanTags(in.Tags)
	submitter := actor.ID
	c := &Complaint{
		ID:                       primitive.NewObjectID(),
		ComplaintID:              utils.SequenceID(prefix, seq),
		CompanyID:                companyID,
		UserID:                   &submitter,
		Anonymous:                in.Anonymous,
		SubmissionType:           strings.TrimSpace(in.SubmissionType),
		Department:               strings.TrimSpace(in.Department),
		Subject:                  subject,
		Message:                  message,
		Attachments:              in.Attachments,
		Tags:                     tags,
		Priority:                 priority.Classify(tags),
		StatusOfClient:           StatusPending,
		AuthoriseRejectionReason: []string{},
		Notes:                    []primitive.ObjectID{},
		ActionMessages:           []primitive.ObjectID{},
	}
	if !in.Anonymous {
		name, address, err := s.users.Contact(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		c.SubmitterName = name
		c.SubmitterEmail = address
	}

	entry := timeline.NewEntry(c.ID, string(StatusPending), actor,
		fmt.Sprintf("Complaint %s submitted", c.ComplaintID), true)
	c.Timeline = []primitive.ObjectID{entry.ID}

	if err := s.timeline.Record(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.retract(ctx, c, entry)
		return nil, apperr.Downstream("failed to save complaint", err)
	}

	deliveries, err := s.notifier.Notify(ctx, notification.FanOutRequest{
		Subject:      subjectOf(c),
		Type:         notification.TypeComplaintCreated,
		Message:      fmt.Sprintf("New complaint %s: %s", c.ComplaintID, c.Subject),
		Sender:       actor,
		AdminRoles:   common_models.AdminRoles,
		SendToAdmins: true,
	})
	s.broadcaster.NotifyDeliveries(deliveries)
	if err != nil {
		if s.policy.SubmissionNotify == config.SubmissionNotifyStrict {
			return nil, err
		}
		s.logger.Error("complaint created but admin notification failed",
			zap.String("complaintId", c.ComplaintID),
			zap.Error(err),
		)
	}

	s.logger.Info("complaint submitted",
		zap.String("complaintId", c.ComplaintID),
		zap.String("actorId", actor.ID.Hex()),
		zap.String("priority", string(c.Priority)),
	)
	return c, nil
}

func (s *ComplaintServiceImpl) Get(ctx context.Context, actor common_models.Actor, id string) (*Complaint, error) {
	return s.load(ctx, actor, id)
}

func (s *ComplaintServiceImpl) List(ctx context.Context, actor common_models.Actor, q ListQuery) ([]Complaint, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
	filter, err := scopeFor(actor, q)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, filter)
}

func (s *ComplaintServiceImpl) Timeline(ctx context.Context, actor common_models.Actor, id string) ([]timeline.Entry, error) {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.timeline.ForComplaint(ctx, c.ID, actor.Kind() == common_models.ActorKindUser)
}

func (s *ComplaintServiceImpl) Resolutions(ctx context.Context, actor common_models.Actor, id string) ([]resolution.Resolution, error) {
	if actor.Kind() == common_models.ActorKindUser {
		return nil, apperr.Forbidden("resolutions are visible to admins only")
	}
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.resolutions.FindByComplaint(ctx, c.ID)
}

func (s *ComplaintServiceImpl) AddNote(ctx context.Context, actor common_models.Actor, id, content string) (*Note, error) {
	if actor.Kind() == common_models.ActorKindUser {
		return nil, apperr.Forbidden("notes are for admins only")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("note content is required")
	}
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	note := &Note{
		ID:          primitive.NewObjectID(),
		ComplaintID: c.ID,
		AuthorID:    actor.ID,
		AuthorRole:  actor.Role,
		Content:     content,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, apperr.Downstream("failed to save note", err)
	}
	if err := s.repo.PushNote(ctx, c.ID, note.ID); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *ComplaintServiceImpl) Notes(ctx context.Context, actor common_models.Actor, id string) ([]Note, error) {
	if actor.Kind() == common_models.ActorKindUser {
		return nil, apperr.Forbidden("notes are for admins only")
	}
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.notes.FindByComplaint(ctx, c.ID)
}

func (s *ComplaintServiceImpl) Stats(ctx context.Context, actor common_models.Actor) (*Stats, error) {
	switch actor.Kind() {
	case common_models.ActorKindBighil:
		return s.repo.Stats(ctx, nil)
	case common_models.ActorKindAdmin:
		companyID := actor.CompanyID
		return s.repo.Stats(ctx, &companyID)
	}
	return nil, apperr.Forbidden("dashboard is for admins only")
}

// CanAccess reports whether actor is the submitter, an admin of the owning tenant, or the platform operator.
func (s *ComplaintServiceImpl) CanAccess(ctx context.Context, actor common_models.Actor, complaintID primitive.ObjectID) (bool, error) {
	c, err := s.repo.FindByID(ctx, complaintID)
	if err != nil {
		return false, err
	}
	return canSee(actor, c), nil
}

func (s *ComplaintServiceImpl) AttachChat(ctx context.Context, complaintID, chatID primitive.ObjectID) error {
	return s.repo.AttachChat(ctx, complaintID, chatID)
}

func (s *ComplaintServiceImpl) load(ctx context.Context, actor common_models.Actor, id string) (*Complaint, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid complaint id")
	}
	c, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, c) {
		return nil, apperr.Forbidden("you do not have access to this complaint")
	}
	return c, nil
}

func canSee(actor common_models.Actor, c *Complaint) bool {
	switch actor.Kind() {
	case common_models.ActorKindBighil:
		return true
	case common_models.ActorKindAdmin:
		return actor.CompanyID == c.CompanyID
	case common_models.ActorKindUser:
		return c.UserID != nil && *c.UserID == actor.ID
	}
	return false
}

func isTenantAdmin(actor common_models.Actor, c *Complaint) bool {
	return actor.Kind() == common_models.ActorKindBighil ||
		(actor.IsAdmin() && actor.CompanyID == c.CompanyID)
}

func scopeFor(actor common_models.Actor, q ListQuery) (ListFilter, error) {
	filter := ListFilter{ListQuery: q}
	switch actor.Kind() {
	case common_models.ActorKindBighil:
	case common_models.ActorKindAdmin:
		companyID := actor.CompanyID
		filter.CompanyID = &companyID
	case common_models.ActorKindUser:
		userID := actor.ID
		filter.UserID = &userID
	default:
		return filter, apperr.Forbidden("unknown role")
	}
	return filter, nil
}

func subjectOf(c *Complaint) notification.Subject {
	return notification.Subject{
		ComplaintID: c.ID,
		CompanyID:   c.CompanyID,
		SubmitterID: c.UserID,
	}
}

// cleanTags trims tags and drops case-insensitive duplicates, keeping the first spelling.
func cleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}
