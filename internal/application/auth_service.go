package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
	repo "github.com/oksasatya/ordo-prm/internal/domain/repository"
	"github.com/oksasatya/ordo-prm/internal/metrics"
	"github.com/oksasatya/ordo-prm/pkg/helpers"
	"github.com/oksasatya/ordo-prm/pkg/validation"
)

// TokenIssuer is satisfied by *helpers.JWTManager.
type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

// Session is a freshly minted session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	Users      repo.UserRepository
	Tokens     TokenIssuer
	Audit      AuditSink
	Metrics    metrics.Recorder
	Logger     logrus.FieldLogger
	BcryptCost int

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repo.UserRepository, tokens TokenIssuer, audit AuditSink, rec metrics.Recorder, logger logrus.FieldLogger, bcryptCost int) *AuthService {
	if audit == nil {
		audit = NopAuditSink{}
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &AuthService{
		Users:      users,
		Tokens:     tokens,
		Audit:      audit,
		Metrics:    rec,
		Logger:     logger,
		BcryptCost: bcryptCost,
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Signup registers a user with default settings and signs them in.
func (s *AuthService) Signup(ctx context.Context, name, email, password string, meta RequestMeta) (*entity.User, Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, Session{}, invalid("name, email and password are required")
	}
	if len(password) < validation.MinPasswordLen {
		return nil, Session{}, invalid("password must be at least %d characters", validation.MinPasswordLen)
	}

	hash, err := helpers.HashPassword(password, s.BcryptCost)
	if err != nil {
		if helpers.IsPasswordTooLong(err) {
			return nil, Session{}, invalid("password is too long")
		}
		return nil, Session{}, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Settings:     entity.DefaultSettings(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, Session{}, err
	}

	sess, err := s.issue(u.ID)
	if err != nil {
		return nil, Session{}, err
	}
	s.record(ctx, entity.AuditSignup, u.ID, u.Email, meta)
	return u, sess, nil
}

// Login checks credentials. Unknown email and wrong password both yield
// entity.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string, meta RequestMeta) (*entity.User, Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, Session{}, invalid("email and password are required")
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			return nil, Session{}, fmt.Errorf("lookup user: %w", err)
		}
		// keep the response time close to the wrong-password path
		helpers.CompareHashAndPassword(s.placeholderHash(), password)
		s.record(ctx, entity.AuditLoginFailure, "", email, meta)
		return nil, Session{}, entity.ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		s.record(ctx, entity.AuditLoginFailure, u.ID, email, meta)
		return nil, Session{}, entity.ErrInvalidCredentials
	}

	sess, err := s.issue(u.ID)
	if err != nil {
		return nil, Session{}, err
	}
	s.record(ctx, entity.AuditLoginSuccess, u.ID, u.Email, meta)
	return u, sess, nil
}

// Logout only records the event; tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, userID string, meta RequestMeta) {
	s.record(ctx, entity.AuditLogout, userID, "", meta)
}

// ResetPassword replaces the password of the signed-in user.
func (s *AuthService) ResetPassword(ctx context.Context, userID, password string, meta RequestMeta) error {
	if userID == "" {
		return entity.ErrUnauthorized
	}
	if len(password) < validation.MinPasswordLen {
		return invalid("password must be at least %d characters", validation.MinPasswordLen)
	}
	hash, err := helpers.HashPassword(password, s.BcryptCost)
	if err != nil {
		if helpers.IsPasswordTooLong(err) {
			return invalid("password is too long")
		}
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.ErrUnauthorized
		}
		return err
	}
	s.record(ctx, entity.AuditPasswordReset, userID, "", meta)
	return nil
}

// Me returns the signed-in user.
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, entity.ErrUnauthorized
	}
	return s.Users.GetByID(ctx, userID)
}

func (s *AuthService) issue(userID string) (Session, error) {
	tok, exp, err := s.Tokens.Issue(userID)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: tok, ExpiresAt: exp}, nil
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = helpers.HashPassword("placeholder-password", s.BcryptCost)
	})
	return s.dummyHash
}

func (s *AuthService) record(ctx context.Context, action, userID, email string, meta RequestMeta) {
	s.Metrics.RecordAuthEvent(action)
	ev := entity.AuditEvent{
		UserID:    userID,
		Email:     email,
		Action:    action,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Audit.Record(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("action", action).Warn("audit event not recorded")
	}
}
