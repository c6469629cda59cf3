package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
	repo "github.com/oksasatya/ordo-prm/internal/domain/repository"
	"github.com/oksasatya/ordo-prm/internal/domain/timing"
	"github.com/oksasatya/ordo-prm/internal/metrics"
)

// MaxBatchSize caps the number of contacts created in one request.
const MaxBatchSize = 500

type ContactService struct {
	Contacts repo.ContactRepository
	Users    repo.UserRepository
	Metrics  metrics.Recorder
	Logger   logrus.FieldLogger
}

func NewContactService(contacts repo.ContactRepository, users repo.UserRepository, rec metrics.Recorder, logger logrus.FieldLogger) *ContactService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &ContactService{Contacts: contacts, Users: users, Metrics: rec, Logger: logger}
}

// ContactFilter narrows List. Empty fields match everything.
type ContactFilter struct {
	Query    string
	Priority string
	Status   string
	// Marked holds the ids the client currently shows as recently marked.
	Marked map[string]bool
}

type compiledFilter struct {
	query    string
	priority entity.Priority
	status   timing.Status
	marked   map[string]bool
}

func (f ContactFilter) compile() (compiledFilter, error) {
	cf := compiledFilter{
		query:  strings.ToLower(strings.TrimSpace(f.Query)),
		marked: f.Marked,
	}
	if p := strings.ToUpper(strings.TrimSpace(f.Priority)); p != "" && p != "ALL" {
		cf.priority = entity.Priority(p)
		if !cf.priority.Valid() {
			return cf, invalid("priority must be one of L1, L2, L3, ALL")
		}
	}
	if s := strings.ToUpper(strings.TrimSpace(f.Status)); s != "" && s != "ALL" {
		st, ok := timing.ParseStatus(s)
		if !ok {
			return cf, invalid("status must be one of OVERDUE, DUE, REACHING, CONTACTED, OK, ALL")
		}
		cf.status = st
	}
	return cf, nil
}

func (f compiledFilter) match(v ContactView) bool {
	if f.priority != "" && v.Priority != f.priority {
		return false
	}
	if f.status != "" && v.Status != f.status {
		return false
	}
	if f.query == "" {
		return true
	}
	fields := []string{v.Name, v.Description, v.LastInteraction, v.PhoneNumber, v.ProfileLink}
	if v.PingTemplate != nil {
		fields = append(fields, *v.PingTemplate)
	}
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), f.query) {
			return true
		}
	}
	return false
}

// List returns the owner's contacts, newest first, with derived status.
func (s *ContactService) List(ctx context.Context, userID string, f ContactFilter) ([]ContactView, error) {
	cf, err := f.compile()
	if err != nil {
		return nil, err
	}
	cs, err := s.Contacts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]ContactView, 0, len(cs))
	for _, c := range cs {
		v := NewContactView(c, cf.marked[c.ID])
		if cf.match(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Create stores one contact owned by userID.
func (s *ContactService) Create(ctx context.Context, userID string, in ContactInput) (*ContactView, error) {
	settings, err := s.ownerSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	c, err := newContact(userID, in, settings)
	if err != nil {
		return nil, err
	}
	if err := s.Contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	s.Metrics.RecordContactsCreated(1)
	v := NewContactView(*c, false)
	return &v, nil
}

// CreateBatch validates every element first and then stores all of them in
// one write. Any invalid element rejects the whole batch.
func (s *ContactService) CreateBatch(ctx context.Context, userID string, ins []ContactInput) ([]ContactView, error) {
	if len(ins) == 0 {
		return nil, invalid("at least one contact is required")
	}
	if len(ins) > MaxBatchSize {
		return nil, invalid("at most %d contacts per request", MaxBatchSize)
	}
	settings, err := s.ownerSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	cs := make([]*entity.Contact, 0, len(ins))
	for i, in := range ins {
		c, err := newContact(userID, in, settings)
		if err != nil {
			return nil, fmt.Errorf("contact %d: %w", i, err)
		}
		cs = append(cs, c)
	}
	if err := s.Contacts.CreateBatch(ctx, cs); err != nil {
		return nil, err
	}
	s.Metrics.RecordContactsCreated(len(cs))
	out := make([]ContactView, len(cs))
	for i, c := range cs {
		out[i] = NewContactView(*c, false)
	}
	return out, nil
}

// Update applies a partial edit and recomputes frequencyDays from the
// owner's current settings.
func (s *ContactService) Update(ctx context.Context, userID, id string, in ContactInput) (*ContactView, error) {
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(c); err != nil {
		return nil, err
	}
	settings, err := s.ownerSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.FrequencyDays = settings.PriorityFrequencies.For(c.Priority)
	if err := s.Contacts.Update(ctx, c); err != nil {
		return nil, err
	}
	v := NewContactView(*c, false)
	return &v, nil
}

func (s *ContactService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.Contacts.Delete(ctx, id)
}

// MarkContacted persists lastContactedDays = 0 when marked is true. Undoing
// (marked false) changes nothing in the store; the previous count is lost.
// The returned status is evaluated with the given flag.
func (s *ContactService) MarkContacted(ctx context.Context, userID, id string, marked bool) (*ContactView, error) {
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if marked && c.LastContactedDays != 0 {
		if err := s.Contacts.MarkContacted(ctx, id); err != nil {
			return nil, err
		}
		c.LastContactedDays = 0
	}
	v := NewContactView(*c, marked)
	return &v, nil
}

// Ping renders the message for a contact. selected is the template index
// chosen in the UI; nil means the first template.
func (s *ContactService) Ping(ctx context.Context, userID, id string, selected *int) (string, error) {
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return "", err
	}
	settings, err := s.ownerSettings(ctx, userID)
	if err != nil {
		return "", err
	}
	idx := 0
	if selected != nil {
		idx = *selected
	}
	msg, err := timing.PingMessage(*c, settings.PingTemplates, idx)
	if err != nil {
		if errors.Is(err, timing.ErrNoTemplate) {
			return "", invalid("no ping template configured")
		}
		return "", err
	}
	s.Metrics.RecordPing()
	return msg, nil
}

// owned loads a contact and checks it belongs to userID: missing is
// ErrNotFound, someone else's is ErrForbidden.
func (s *ContactService) owned(ctx context.Context, userID, id string) (*entity.Contact, error) {
	if userID == "" {
		return nil, entity.ErrUnauthorized
	}
	c, err := s.Contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(userID) {
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"user_id": userID, "contact_id": id}).Warn("contact access denied")
		}
		return nil, entity.ErrForbidden
	}
	return c, nil
}

func (s *ContactService) ownerSettings(ctx context.Context, userID string) (entity.Settings, error) {
	if userID == "" {
		return entity.Settings{}, entity.ErrUnauthorized
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.Settings{}, entity.ErrUnauthorized
		}
		return entity.Settings{}, err
	}
	return u.Settings, nil
}

func newContact(userID string, in ContactInput, settings entity.Settings) (*entity.Contact, error) {
	c := &entity.Contact{UserID: userID}
	if err := in.apply(c); err != nil {
		return nil, err
	}
	c.FrequencyDays = settings.PriorityFrequencies.For(c.Priority)
	return c, nil
}
