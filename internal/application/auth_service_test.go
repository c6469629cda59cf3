package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
	"github.com/oksasatya/ordo-prm/internal/infrastructure/memory"
	"github.com/oksasatya/ordo-prm/internal/metrics"
	"github.com/oksasatya/ordo-prm/pkg/helpers"
)

type recordingSink struct {
	mu     sync.Mutex
	events []entity.AuditEvent
	err    error
}

func (r *recordingSink) Record(_ context.Context, e entity.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingSink) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

type authFixture struct {
	svc   *AuthService
	store *memory.Store
	sink  *recordingSink
	jwt   *helpers.JWTManager
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	jwt, err := helpers.NewJWTManager("auth-service-test-secret")
	require.NoError(t, err)
	store := memory.NewStore()
	sink := &recordingSink{}
	logger, _ := test.NewNullLogger()
	svc := NewAuthService(store.Users(), jwt, sink, metrics.Nop{}, logger, bcrypt.MinCost)
	return authFixture{svc: svc, store: store, sink: sink, jwt: jwt}
}

var meta = RequestMeta{IP: "203.0.113.7", UserAgent: "go-test"}

func TestSignup(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	u, sess, err := f.svc.Signup(ctx, " Ada ", " Ada@Example.com ", "secret1", meta)
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, entity.DefaultSettings(), u.Settings)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	claims, err := f.jwt.Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.WithinDuration(t, time.Now().Add(helpers.SessionTTL), sess.ExpiresAt, 5*time.Second)

	assert.Equal(t, []string{entity.AuditSignup}, f.sink.actions())
	assert.Equal(t, "203.0.113.7", f.sink.events[0].IP)
}

func TestSignup_DuplicateEmailCreatesNoSecondUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	first, _, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "secret1", meta)
	require.NoError(t, err)

	_, _, err = f.svc.Signup(ctx, "Imposter", "ADA@example.com", "secret2", meta)
	assert.ErrorIs(t, err, entity.ErrDuplicateEmail)

	got, err := f.store.Users().GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "Ada", got.Name)
}

func TestSignup_Validation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Signup(ctx, "", "a@b.co", "secret1", meta)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, _, err = f.svc.Signup(ctx, "A", "a@b.co", "12345", meta)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	assert.Empty(t, f.sink.actions())
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	created, _, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "secret1", meta)
	require.NoError(t, err)

	u, sess, err := f.svc.Login(ctx, "ADA@example.com", "secret1", meta)
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	assert.NotEmpty(t, sess.Token)

	_, _, wrongPwd := f.svc.Login(ctx, "ada@example.com", "secret2", meta)
	_, _, unknown := f.svc.Login(ctx, "nobody@example.com", "secret1", meta)
	assert.ErrorIs(t, wrongPwd, entity.ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, entity.ErrInvalidCredentials)
	assert.Equal(t, wrongPwd, unknown, "unknown user and wrong password are indistinguishable")

	assert.Equal(t, []string{
		entity.AuditSignup, entity.AuditLoginSuccess, entity.AuditLoginFailure, entity.AuditLoginFailure,
	}, f.sink.actions())
}

func TestLogin_AuditFailureIsNotFatal(t *testing.T) {
	f := newAuthFixture(t)
	logger, hook := test.NewNullLogger()
	f.svc.Logger = logger
	f.sink.err = errors.New("broker down")

	_, _, err := f.svc.Signup(context.Background(), "Ada", "ada@example.com", "secret1", meta)
	require.NoError(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "audit event not recorded", hook.LastEntry().Message)
}

func TestResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	u, _, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "secret1", meta)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.ResetPassword(ctx, u.ID, "short", meta), entity.ErrInvalidInput)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "", "longenough", meta), entity.ErrUnauthorized)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "ghost", "longenough", meta), entity.ErrUnauthorized)

	require.NoError(t, f.svc.ResetPassword(ctx, u.ID, "newsecret", meta))

	_, _, err = f.svc.Login(ctx, "ada@example.com", "secret1", meta)
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
	_, _, err = f.svc.Login(ctx, "ada@example.com", "newsecret", meta)
	assert.NoError(t, err)
}

func TestMeAndLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	u, _, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "secret1", meta)
	require.NoError(t, err)

	me, err := f.svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.Name)

	_, err = f.svc.Me(ctx, "")
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
	_, err = f.svc.Me(ctx, "ghost")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	f.svc.Logout(ctx, u.ID, meta)
	assert.Equal(t, entity.AuditLogout, f.sink.actions()[len(f.sink.actions())-1])
}
