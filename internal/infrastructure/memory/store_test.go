package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
)

func TestUserRepository_EmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	u := &entity.User{Email: "Ada@Example.com", Name: "Ada", Settings: entity.DefaultSettings()}
	require.NoError(t, users.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	got, err := users.GetByEmail(ctx, "ada@example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	err = users.Create(ctx, &entity.User{Email: "ADA@example.com"})
	assert.ErrorIs(t, err, entity.ErrDuplicateEmail)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()
	u := &entity.User{Email: "a@b.co", Settings: entity.DefaultSettings()}
	require.NoError(t, users.Create(ctx, u))

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.Settings.PingTemplates[0] = "mutated"

	again, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Settings.PingTemplates[0])
}

func TestUserRepository_Updates(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()
	u := &entity.User{Email: "a@b.co", PasswordHash: "old", Settings: entity.DefaultSettings()}
	require.NoError(t, users.Create(ctx, u))

	require.NoError(t, users.UpdatePassword(ctx, u.ID, "new"))
	st := entity.DefaultSettings()
	st.Theme = entity.ThemeLight
	require.NoError(t, users.UpdateSettings(ctx, u.ID, st))

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.PasswordHash)
	assert.Equal(t, entity.ThemeLight, got.Settings.Theme)

	assert.ErrorIs(t, users.UpdatePassword(ctx, "missing", "x"), entity.ErrNotFound)
}

func TestContactRepository_NewestFirstAndScoped(t *testing.T) {
	ctx := context.Background()
	contacts := NewStore().Contacts()

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, contacts.Create(ctx, &entity.Contact{UserID: "u-1", Name: name}))
	}
	require.NoError(t, contacts.Create(ctx, &entity.Contact{UserID: "u-2", Name: "other"}))

	list, err := contacts.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"third", "second", "first"}, []string{list[0].Name, list[1].Name, list[2].Name})

	empty, err := contacts.ListByUser(ctx, "u-3")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestContactRepository_UpdateKeepsOwner(t *testing.T) {
	ctx := context.Background()
	contacts := NewStore().Contacts()
	c := &entity.Contact{UserID: "u-1", Name: "Grace", LastContactedDays: 4}
	require.NoError(t, contacts.Create(ctx, c))

	edit := *c
	edit.UserID = "u-2"
	edit.Name = "Grace H"
	require.NoError(t, contacts.Update(ctx, &edit))

	got, err := contacts.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "Grace H", got.Name)

	require.NoError(t, contacts.MarkContacted(ctx, c.ID))
	require.NoError(t, contacts.MarkContacted(ctx, c.ID))
	got, _ = contacts.GetByID(ctx, c.ID)
	assert.Equal(t, 0, got.LastContactedDays)

	require.NoError(t, contacts.Delete(ctx, c.ID))
	assert.ErrorIs(t, contacts.Delete(ctx, c.ID), entity.ErrNotFound)
	_, err = contacts.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestContactRepository_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	contacts := NewStore().Contacts()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = contacts.CreateBatch(ctx, []*entity.Contact{{UserID: "u-1"}, {UserID: "u-1"}})
		}()
	}
	wg.Wait()

	list, err := contacts.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, list, 40)
}

func TestAuditRepository(t *testing.T) {
	st := NewStore()
	require.NoError(t, st.Audit().Insert(context.Background(), entity.AuditEvent{Action: entity.AuditLogout}))
	events := st.AuditEvents()
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].CreatedAt.IsZero())
}
