package complaint

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/config"
	"go-bighil/internal/features/email"
	"go-bighil/internal/features/notification"
	"go-bighil/internal/features/realtime"
	"go-bighil/internal/features/resolution"
	"go-bighil/internal/features/timeline"

	"go.uber.org/zap"
)

// ChangeStatus moves a complaint to In Progress, or closes it as Resolved or
// Unwanted into the authorization checkpoint.
func (s *ComplaintServiceImpl) ChangeStatus(ctx context.Context, actor common_models.Actor, id string, in UpdateStatusInput) (*TransitionResult, error) {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !isTenantAdmin(actor, c) {
		return nil, apperr.Forbidden("only company admins can change complaint status")
	}

	switch in.Status {
	case StatusInProgress:
		return s.markInProgress(ctx, actor, c)
	case StatusResolved:
		note := strings.TrimSpace(in.Note)
		if note == "" {
			return nil, apperr.Validation("a resolution note is required")
		}
		if !in.Acknowledgement.ValidForClose() {
			return nil, apperr.Validation("invalid acknowledgement")
		}
		return s.close(ctx, actor, c, StatusResolved, note, in.Acknowledgement)
	case StatusUnwanted:
		note := strings.TrimSpace(in.Note)
		if note == "" {
			note = "Complaint marked as unwanted"
		}
		return s.close(ctx, actor, c, StatusUnwanted, note, resolution.AckMarkedUnwanted)
	}
	return nil, apperr.InvalidTransition(fmt.Sprintf("cannot move complaint to %q", in.Status))
}

func (s *ComplaintServiceImpl) markInProgress(ctx context.Context, actor common_models.Actor, c *Complaint) (*TransitionResult, error) {
	if c.StatusOfClient != StatusPending {
		return nil, apperr.InvalidTransition(fmt.Sprintf("cannot start work on a complaint in %q", c.StatusOfClient))
	}

	err := s.emailSubmitter(ctx, c, fmt.Sprintf("Complaint %s is in progress", c.ComplaintID),
		func(name string) (string, error) {
			return email.RenderStatusChange(email.StatusChangeData{
				Name:        name,
				ComplaintID: c.ComplaintID,
				Status:      string(StatusInProgress),
				Message:     "An admin has started working on your complaint.",
			})
		})
	if err != nil {
		return nil, err
	}

	entry := timeline.NewEntry(c.ID, string(StatusInProgress), actor, "Complaint is now in progress", true)
	updated, err := s.commit(ctx, c, Guard{Status: StatusPending}, Change{
		Status:       StatusInProgress,
		PushTimeline: entry.ID,
	}, entry)
	if err != nil {
		return nil, err
	}

	result := &TransitionResult{Complaint: updated, Entry: entry}
	return result, s.announce(ctx, result, notification.FanOutRequest{
		Subject:      subjectOf(updated),
		Type:         notification.TypeStatusInProgress,
		Message:      fmt.Sprintf("Complaint %s is now in progress", updated.ComplaintID),
		Sender:       actor,
		AdminRoles:   []common_models.AdminRole{common_models.RoleSubAdmin},
		SendToUser:   true,
		SendToAdmins: true,
	})
}

func (s *ComplaintServiceImpl) close(ctx context.Context, actor common_models.Actor, c *Complaint, target Status, note string, ack resolution.Acknowledgement) (*TransitionResult, error) {
	if c.StatusOfClient != StatusInProgress {
		return nil, apperr.InvalidTransition(fmt.Sprintf("cannot close a complaint in %q", c.StatusOfClient))
	}

	res := &resolution.Resolution{
		ComplaintID:     c.ID,
		Note:            note,
		Acknowledgement: ack,
		ActorID:         actor.ID,
		ActorRole:       actor.Role,
	}
	if err := s.resolutions.Create(ctx, res); err != nil {
		return nil, apperr.Downstream("failed to save resolution", err)
	}

	entry := timeline.NewEntry(c.ID, string(StatusPendingAuthorization), actor,
		fmt.Sprintf("Complaint submitted for authorization as %s", target), false)
	updated, err := s.commit(ctx, c, Guard{Status: StatusInProgress}, Change{
		Status:              StatusPendingAuthorization,
		PreviousStatus:      target,
		AuthorizationStatus: AuthorizationPending,
		PushTimeline:        entry.ID,
		PushResolution:      res.ID,
	}, entry)
	if err != nil {
		if derr := s.resolutions.Delete(ctx, res.ID); derr != nil {
			s.logger.Error("failed to roll back resolution",
				zap.String("complaintId", c.ComplaintID),
				zap.Error(derr),
			)
		}
		return nil, err
	}

	kind := notification.TypeComplaintResolved
	if target == StatusUnwanted {
		kind = notification.TypeMarkedUnwanted
	}
	result := &TransitionResult{Complaint: updated, Entry: entry, Resolution: res}
	return result, s.announce(ctx, result, notification.FanOutRequest{
		Subject:      subjectOf(updated),
		Type:         kind,
		Message:      fmt.Sprintf("Complaint %s awaits authorization as %s", updated.ComplaintID, target),
		Sender:       actor,
		AdminRoles:   []common_models.AdminRole{common_models.RoleSuperAdmin},
		SendToAdmins: true,
	})
}

// Authorize approves or rejects a complaint waiting at the checkpoint.
func (s *ComplaintServiceImpl) Authorize(ctx context.Context, actor common_models.Actor, id string, in AuthorizeInput) (*TransitionResult, error) {
	if actor.Role != string(common_models.RoleSuperAdmin) && actor.Kind() != common_models.ActorKindBighil {
		return nil, apperr.Forbidden("only a super admin can authorize complaints")
	}
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if c.StatusOfClient != StatusPendingAuthorization || c.AuthorizationStatus != AuthorizationPending {
		return nil, apperr.InvalidTransition("complaint is not awaiting authorization")
	}

	switch in.Decision {
	case AuthorizationApproved:
		return s.approve(ctx, actor, c)
	case AuthorizationRejected:
		reason := strings.TrimSpace(in.Reason)
		if reason == "" {
			return nil, apperr.Validation("a rejection reason is required")
		}
		return s.reject(ctx, actor, c, reason)
	}
	return nil, apperr.Validation("decision must be Approved or Rejected")
}

func (s *ComplaintServiceImpl) approve(ctx context.Context, actor common_models.Actor, c *Complaint) (*TransitionResult, error) {
	final := c.PreviousStatusOfClient
	if final != StatusResolved && final != StatusUnwanted {
		return nil, apperr.InvalidTransition("complaint has no pending resolution to finalize")
	}

	res, err := s.resolutions.Latest(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	err = s.emailSubmitter(ctx, c, fmt.Sprintf("Complaint %s has been %s", c.ComplaintID, strings.ToLower(string(final))),
		func(name string) (string, error) {
			return email.RenderResolution(email.ResolutionData{
				Name:            name,
				ComplaintID:     c.ComplaintID,
				Status:          string(final),
				Acknowledgement: string(res.Acknowledgement),
				Note:            res.Note,
			})
		})
	if err != nil {
		return nil, err
	}

	entry := timeline.NewEntry(c.ID, string(final), actor, fmt.Sprintf("Complaint marked as %s", final), true)
	updated, err := s.commit(ctx, c, Guard{
		Status:              StatusPendingAuthorization,
		AuthorizationStatus: AuthorizationPending,
	}, Change{
		Status:              final,
		AuthorizationStatus: AuthorizationApproved,
		PushTimeline:        entry.ID,
	}, entry)
	if err != nil {
		return nil, err
	}

	result := &TransitionResult{Complaint: updated, Entry: entry, Resolution: res}
	return result, s.announce(ctx, result, notification.FanOutRequest{
		Subject:      subjectOf(updated),
		Type:         notification.TypeAuthorizationApproved,
		Message:      fmt.Sprintf("Complaint %s has been %s", updated.ComplaintID, strings.ToLower(string(final))),
		Sender:       actor,
		AdminRoles:   []common_models.AdminRole{common_models.RoleSubAdmin},
		SendToUser:   true,
		SendToAdmins: true,
	})
}

func (s *ComplaintServiceImpl) reject(ctx context.Context, actor common_models.Actor, c *Complaint, reason string) (*TransitionResult, error) {
	entry := timeline.NewEntry(c.ID, string(StatusInProgress), actor, "Authorization rejected: "+reason, false)
	updated, err := s.commit(ctx, c, Guard{
		Status:              StatusPendingAuthorization,
		AuthorizationStatus: AuthorizationPending,
	}, Change{
		Status:              StatusInProgress,
		ClearPrevious:       true,
		AuthorizationStatus: AuthorizationPending,
		PushTimeline:        entry.ID,
		PushRejection:       reason,
	}, entry)
	if err != nil {
		return nil, err
	}

	result := &TransitionResult{Complaint: updated, Entry: entry}
	return result, s.announce(ctx, result, notification.FanOutRequest{
		Subject:      subjectOf(updated),
		Type:         notification.TypeAuthorizationRejected,
		Message:      fmt.Sprintf("Resolution of complaint %s was rejected: %s", updated.ComplaintID, reason),
		Sender:       actor,
		AdminRoles:   []common_models.AdminRole{common_models.RoleSubAdmin},
		SendToAdmins: true,
	})
}

// commit records the timeline entry and then performs the guarded write. The
// entry is retracted when the write does not land, so a failed transition
// leaves no history behind.
func (s *ComplaintServiceImpl) commit(ctx context.Context, c *Complaint, guard Guard, change Change, entry *timeline.Entry) (*Complaint, error) {
	if err := s.timeline.Record(ctx, entry); err != nil {
		return nil, err
	}

	updated, err := s.repo.Transition(ctx, c.ID, guard, change)
	if err != nil {
		s.retract(ctx, c, entry)
		if errors.Is(err, ErrStaleState) {
			return nil, apperr.InvalidTransition("complaint was changed by someone else, reload and retry")
		}
		return nil, apperr.Downstream("failed to update complaint", err)
	}

	s.logger.Info("complaint status changed",
		zap.String("complaintId", updated.ComplaintID),
		zap.String("actorId", entry.ActorID.Hex()),
		zap.String("from", string(c.StatusOfClient)),
		zap.String("status", string(updated.StatusOfClient)),
	)
	return updated, nil
}

func (s *ComplaintServiceImpl) retract(ctx context.Context, c *Complaint, entry *timeline.Entry) {
	if err := s.timeline.Retract(ctx, entry); err != nil {
		s.logger.Error("failed to retract timeline entry",
			zap.String("complaintId", c.ComplaintID),
			zap.String("entryId", entry.ID.Hex()),
			zap.Error(err),
		)
	}
}

// announce fans out notifications and enqueues realtime events. It runs only
// after the transition is persisted; a fan-out error is still returned.
func (s *ComplaintServiceImpl) announce(ctx context.Context, result *TransitionResult, req notification.FanOutRequest) error {
	deliveries, err := s.notifier.Notify(ctx, req)
	s.broadcaster.NotifyDeliveries(deliveries)
	s.broadcaster.EmitComplaint(result.Complaint.ID, realtime.EventStatusUpdate, StatusUpdate{
		ComplaintID:         result.Complaint.ID,
		Status:              result.Complaint.StatusOfClient,
		AuthorizationStatus: result.Complaint.AuthorizationStatus,
		Entry:               result.Entry,
		Resolution:          result.Resolution,
	})
	if err != nil {
		s.logger.Error("notification fan-out failed after status change",
			zap.String("complaintId", result.Complaint.ComplaintID),
			zap.Error(err),
		)
	}
	return err
}

// emailSubmitter sends the submitter an email before a transition is written.
// Under the abort policy any failure cancels the transition. The mail is out
// before the guarded write, so the loser of a concurrent change has already
// emailed about a transition that then fails.
func (s *ComplaintServiceImpl) emailSubmitter(ctx context.Context, c *Complaint, subject string, render func(name string) (string, error)) error {
	name, address := c.SubmitterName, c.SubmitterEmail
	var err error
	if address == "" && c.UserID != nil {
		name, address, err = s.users.Contact(ctx, *c.UserID)
	}
	if c.Anonymous {
		name = ""
	}

	var reason string
	switch {
	case err != nil:
		reason = err.Error()
	case address == "":
		reason = "submitter has no email address"
	default:
		body, rerr := render(name)
		if rerr != nil {
			reason = rerr.Error()
			break
		}
		if res := s.mailer.Send(ctx, []string{address}, subject, body); !res.Success {
			reason = res.Message
		}
	}
	if reason == "" {
		return nil
	}

	if s.policy.StatusEmail == config.StatusEmailIgnore {
		s.logger.Warn("submitter email failed, continuing",
			zap.String("complaintId", c.ComplaintID),
			zap.String("error", reason),
		)
		return nil
	}
	return apperr.Downstream("failed to email the submitter", errors.New(reason))
}
