package complaint

import (
	"context"
	"errors"
	"sync"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/features/email"
	"go-bighil/internal/features/notification"
	"go-bighil/internal/features/resolution"
	"go-bighil/internal/features/timeline"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memComplaints keeps the guard semantics of the mongo repository.
type memComplaints struct {
	mu               sync.Mutex
	docs             map[primitive.ObjectID]*Complaint
	seq              map[primitive.ObjectID]int64
	beforeTransition func()
	transitionErr    error
}

func newMemComplaints() *memComplaints {
	return &memComplaints{
		docs: map[primitive.ObjectID]*Complaint{},
		seq:  map[primitive.ObjectID]int64{},
	}
}

func clone(c *Complaint) *Complaint {
	cp := *c
	cp.Tags = append([]string(nil), c.Tags...)
	cp.AuthoriseRejectionReason = append([]string{}, c.AuthoriseRejectionReason...)
	cp.Timeline = append([]primitive.ObjectID(nil), c.Timeline...)
	cp.Notes = append([]primitive.ObjectID(nil), c.Notes...)
	cp.ActionMessages = append([]primitive.ObjectID(nil), c.ActionMessages...)
	return &cp
}

func (r *memComplaints) stored(id primitive.ObjectID) *Complaint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clone(r.docs[id])
}

func (r *memComplaints) Create(_ context.Context, c *Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	r.docs[c.ID] = clone(c)
	return nil
}

func (r *memComplaints) FindByID(_ context.Context, id primitive.ObjectID) (*Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.docs[id]
	if !ok {
		return nil, apperr.NotFound("complaint")
	}
	return clone(c), nil
}

func (r *memComplaints) List(_ context.Context, f ListFilter) ([]Complaint, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Complaint
	for _, c := range r.docs {
		if f.CompanyID != nil && c.CompanyID != *f.CompanyID {
			continue
		}
		if f.UserID != nil && (c.UserID == nil || *c.UserID != *f.UserID) {
			continue
		}
		if f.Status != "" && c.StatusOfClient != f.Status {
			continue
		}
		out = append(out, *clone(c))
	}
	return out, int64(len(out)), nil
}

func (r *memComplaints) Transition(_ context.Context, id primitive.ObjectID, guard Guard, change Change) (*Complaint, error) {
	if r.beforeTransition != nil {
		r.beforeTransition()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.transitionErr != nil {
		return nil, r.transitionErr
	}

	c, ok := r.docs[id]
	if !ok || c.StatusOfClient != guard.Status {
		return nil, ErrStaleState
	}
	if guard.AuthorizationStatus != "" && c.AuthorizationStatus != guard.AuthorizationStatus {
		return nil, ErrStaleState
	}

	c.StatusOfClient = change.Status
	if change.PreviousStatus != "" {
		c.PreviousStatusOfClient = change.PreviousStatus
	}
	if change.ClearPrevious {
		c.PreviousStatusOfClient = ""
	}
	if change.AuthorizationStatus != "" {
		c.AuthorizationStatus = change.AuthorizationStatus
	}
	if !change.PushTimeline.IsZero() {
		c.Timeline = append(c.Timeline, change.PushTimeline)
	}
	if !change.PushResolution.IsZero() {
		c.ActionMessages = append(c.ActionMessages, change.PushResolution)
	}
	if change.PushRejection != "" {
		c.AuthoriseRejectionReason = append(c.AuthoriseRejectionReason, change.PushRejection)
	}
	return clone(c), nil
}

// force overwrites a stored document, standing in for a concurrent writer.
func (r *memComplaints) force(id primitive.ObjectID, mutate func(c *Complaint)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mutate(r.docs[id])
}

func (r *memComplaints) PushNote(_ context.Context, id, noteID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.docs[id]
	if !ok {
		return apperr.NotFound("complaint")
	}
	c.Notes = append(c.Notes, noteID)
	return nil
}

func (r *memComplaints) AttachChat(_ context.Context, id, chatID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.docs[id]; ok && c.Chat == nil {
		c.Chat = &chatID
	}
	return nil
}

func (r *memComplaints) NextSequence(_ context.Context, companyID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq[companyID]++
	return r.seq[companyID], nil
}

func (r *memComplaints) IDsByCompany(_ context.Context, companyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return nil, nil
}

func (r *memComplaints) DeleteByCompany(_ context.Context, companyID primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (r *memComplaints) Stats(_ context.Context, _ *primitive.ObjectID) (*Stats, error) {
	return &Stats{}, nil
}

func (r *memComplaints) EnsureIndexes(context.Context) error { return nil }

type memNotes struct {
	notes []Note
}

func (r *memNotes) Create(_ context.Context, note *Note) error {
	r.notes = append(r.notes, *note)
	return nil
}

func (r *memNotes) FindByComplaint(_ context.Context, complaintID primitive.ObjectID) ([]Note, error) {
	var out []Note
	for _, n := range r.notes {
		if n.ComplaintID == complaintID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memNotes) DeleteByComplaints(context.Context, []primitive.ObjectID) (int64, error) {
	return 0, nil
}

type memResolutions struct {
	mu    sync.Mutex
	items []resolution.Resolution
}

func (r *memResolutions) Create(_ context.Context, res *resolution.Resolution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.ID.IsZero() {
		res.ID = primitive.NewObjectID()
	}
	r.items = append(r.items, *res)
	return nil
}

func (r *memResolutions) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, res := range r.items {
		if res.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memResolutions) FindByID(_ context.Context, id primitive.ObjectID) (*resolution.Resolution, error) {
	for _, res := range r.items {
		if res.ID == id {
			return &res, nil
		}
	}
	return nil, apperr.NotFound("resolution")
}

func (r *memResolutions) Latest(_ context.Context, complaintID primitive.ObjectID) (*resolution.Resolution, error) {
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].ComplaintID == complaintID {
			res := r.items[i]
			return &res, nil
		}
	}
	return nil, apperr.NotFound("resolution")
}

func (r *memResolutions) FindByComplaint(_ context.Context, complaintID primitive.ObjectID) ([]resolution.Resolution, error) {
	var out []resolution.Resolution
	for _, res := range r.items {
		if res.ComplaintID == complaintID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *memResolutions) DeleteByComplaints(context.Context, []primitive.ObjectID) (int64, error) {
	return 0, nil
}

type memRecorder struct {
	entries []timeline.Entry
	err     error
}

func (r *memRecorder) Record(_ context.Context, entry *timeline.Entry) error {
	if r.err != nil {
		return apperr.Downstream("failed to record timeline entry", r.err)
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memRecorder) Retract(_ context.Context, entry *timeline.Entry) error {
	for i, e := range r.entries {
		if e.ID == entry.ID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memRecorder) ForComplaint(_ context.Context, complaintID primitive.ObjectID, userView bool) ([]timeline.Entry, error) {
	var out []timeline.Entry
	for _, e := range r.entries {
		if e.ComplaintID == complaintID && (!userView || e.VisibleToUser) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	requests []notification.FanOutRequest
	err      error
}

func (n *fakeNotifier) Notify(_ context.Context, req notification.FanOutRequest) ([]notification.Delivery, error) {
	n.requests = append(n.requests, req)
	if n.err != nil {
		return nil, n.err
	}
	var out []notification.Delivery
	if req.SendToUser && req.Subject.SubmitterID != nil {
		out = append(out, notification.Delivery{
			Notification: &notification.Notification{Type: req.Type},
			TargetID:     *req.Subject.SubmitterID,
			TargetKind:   notification.TargetUser,
		})
	}
	if req.SendToAdmins {
		for range req.AdminRoles {
			out = append(out, notification.Delivery{
				Notification: &notification.Notification{Type: req.Type},
				TargetID:     primitive.NewObjectID(),
				TargetKind:   notification.TargetAdmin,
			})
		}
	}
	return out, nil
}

func (n *fakeNotifier) last() notification.FanOutRequest {
	return n.requests[len(n.requests)-1]
}

type emitted struct {
	complaintID primitive.ObjectID
	name        string
	payload     interface{}
}

type fakeBroadcaster struct {
	deliveries []notification.Delivery
	events     []emitted
}

func (b *fakeBroadcaster) NotifyDeliveries(d []notification.Delivery) {
	b.deliveries = append(b.deliveries, d...)
}

func (b *fakeBroadcaster) EmitComplaint(id primitive.ObjectID, name string, payload interface{}) {
	b.events = append(b.events, emitted{complaintID: id, name: name, payload: payload})
}

type fakeCompanies struct {
	prefix string
}

func (c *fakeCompanies) Prefix(context.Context, primitive.ObjectID) (string, error) {
	if c.prefix == "" {
		return "", apperr.NotFound("company")
	}
	return c.prefix, nil
}

type fakeUsers struct{}

func (fakeUsers) Contact(context.Context, primitive.ObjectID) (string, string, error) {
	return "Dana", "dana@example.test", nil
}

type fakeMailer struct {
	fail  bool
	sends []string
}

func (m *fakeMailer) Send(_ context.Context, to []string, subject, _ string) email.Result {
	m.sends = append(m.sends, subject)
	if m.fail {
		return email.Result{Success: false, Message: "smtp unreachable"}
	}
	return email.Result{Success: true, Message: "sent"}
}

var errBoom = errors.New("boom")

func roleActor(role string, company primitive.ObjectID) common_models.Actor {
	return common_models.Actor{ID: primitive.NewObjectID(), Role: role, CompanyID: company}
}
