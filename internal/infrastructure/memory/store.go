// Package memory implements the repositories on process memory. It backs
// STORE_DRIVER=memory and the service and handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
	"github.com/oksasatya/ordo-prm/internal/domain/repository"
)

// Store holds every table behind one lock.
type Store struct {
	mu       sync.RWMutex
	users    map[string]entity.User
	byEmail  map[string]string
	contacts map[string]storedContact
	audit    []entity.AuditEvent
	seq      int64
	now      func() time.Time
}

type storedContact struct {
	entity.Contact
	seq int64
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]entity.User),
		byEmail:  make(map[string]string),
		contacts: make(map[string]storedContact),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Contacts() *ContactRepository { return &ContactRepository{s: s} }
func (s *Store) Audit() *AuditRepository      { return &AuditRepository{s: s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// AuditEvents returns a copy of the recorded audit trail.
func (s *Store) AuditEvents() []entity.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.AuditEvent, len(s.audit))
	copy(out, s.audit)
	return out
}

func emailKey(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func cloneUser(u entity.User) *entity.User {
	u.Settings.PingTemplates = append([]string(nil), u.Settings.PingTemplates...)
	return &u
}

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailKey(u.Email)
	if _, ok := s.byEmail[key]; ok {
		return entity.ErrDuplicateEmail
	}
	now := s.now()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = *cloneUser(*u)
	s.byEmail[key] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	id, ok := r.s.byEmail[emailKey(email)]
	r.s.mu.RUnlock()
	if !ok {
		return nil, entity.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return r.update(id, func(u *entity.User) { u.PasswordHash = passwordHash })
}

func (r *UserRepository) UpdateSettings(_ context.Context, id string, st entity.Settings) error {
	return r.update(id, func(u *entity.User) {
		u.Settings = st
		u.Settings.PingTemplates = append([]string(nil), st.PingTemplates...)
	})
}

func (r *UserRepository) update(id string, fn func(u *entity.User)) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return entity.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = s.now()
	s.users[id] = u
	return nil
}

type ContactRepository struct{ s *Store }

func (r *ContactRepository) insertLocked(c *entity.Contact) {
	s := r.s
	now := s.now()
	s.seq++
	c.ID = uuid.NewString()
	c.CreatedAt, c.UpdatedAt = now, now
	s.contacts[c.ID] = storedContact{Contact: *c, seq: s.seq}
}

func (r *ContactRepository) Create(_ context.Context, c *entity.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.insertLocked(c)
	return nil
}

// CreateBatch inserts under a single lock, so readers see all or none.
func (r *ContactRepository) CreateBatch(_ context.Context, cs []*entity.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range cs {
		r.insertLocked(c)
	}
	return nil
}

func (r *ContactRepository) GetByID(_ context.Context, id string) (*entity.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sc, ok := r.s.contacts[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	c := sc.Contact
	return &c, nil
}

func (r *ContactRepository) ListByUser(_ context.Context, userID string) ([]entity.Contact, error) {
	r.s.mu.RLock()
	rows := make([]storedContact, 0)
	for _, sc := range r.s.contacts {
		if sc.UserID == userID {
			rows = append(rows, sc)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]entity.Contact, len(rows))
	for i, sc := range rows {
		out[i] = sc.Contact
	}
	return out, nil
}

func (r *ContactRepository) Update(_ context.Context, c *entity.Contact) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.contacts[c.ID]
	if !ok {
		return entity.ErrNotFound
	}
	c.UserID = sc.UserID
	c.CreatedAt = sc.CreatedAt
	c.UpdatedAt = s.now()
	s.contacts[c.ID] = storedContact{Contact: *c, seq: sc.seq}
	return nil
}

func (r *ContactRepository) MarkContacted(_ context.Context, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.contacts[id]
	if !ok {
		return entity.ErrNotFound
	}
	sc.LastContactedDays = 0
	sc.UpdatedAt = s.now()
	s.contacts[id] = sc
	return nil
}

func (r *ContactRepository) Delete(_ context.Context, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contacts[id]; !ok {
		return entity.ErrNotFound
	}
	delete(s.contacts, id)
	return nil
}

type AuditRepository struct{ s *Store }

func (r *AuditRepository) Insert(_ context.Context, e entity.AuditEvent) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	s.audit = append(s.audit, e)
	return nil
}

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.ContactRepository = (*ContactRepository)(nil)
	_ repository.AuditRepository   = (*AuditRepository)(nil)
)
