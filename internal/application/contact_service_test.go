package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
	"github.com/oksasatya/ordo-prm/internal/domain/timing"
	"github.com/oksasatya/ordo-prm/internal/infrastructure/memory"
)

type contactFixture struct {
	svc      *ContactService
	settings *SettingsService
	store    *memory.Store
	owner    string
	other    string
}

func newContactFixture(t *testing.T) contactFixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	owner := &entity.User{Email: "owner@example.com", Name: "Owner", Settings: entity.DefaultSettings()}
	other := &entity.User{Email: "other@example.com", Name: "Other", Settings: entity.DefaultSettings()}
	require.NoError(t, store.Users().Create(ctx, owner))
	require.NoError(t, store.Users().Create(ctx, other))
	return contactFixture{
		svc:      NewContactService(store.Contacts(), store.Users(), nil, nil),
		settings: NewSettingsService(store.Users(), nil),
		store:    store,
		owner:    owner.ID,
		other:    other.ID,
	}
}

func validInput(name, priority string) ContactInput {
	return ContactInput{Name: ptr(name), Priority: ptr(priority), PhoneNumber: ptr("+14155550123")}
}

func TestContactService_CreateCopiesFrequency(t *testing.T) {
	f := newContactFixture(t)
	ctx := context.Background()

	in := validInput("Ada", "L1")
	in.FrequencyDays = ptr(999)
	v, err := f.svc.Create(ctx, f.owner, in)
	require.NoError(t, err)
	assert.Equal(t, 7, v.FrequencyDays)
	assert.Equal(t, f.owner, v.UserID)
	assert.Equal(t, timing.StatusContacted, v.Status)
	assert.Nil(t, v.PingTemplate)

	_, err = f.settings.Update(ctx, f.owner, SettingsPatch{PriorityFrequencies: &FrequencyPatch{L1: ptr(3)}})
	require.NoError(t, err)

	// existing contacts keep the frequency they were saved with
	list, err := f.svc.List(ctx, f.owner, ContactFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 7, list[0].FrequencyDays)

	// until they are edited
	updated, err := f.svc.Update(ctx, f.owner, v.ID, ContactInput{Description: ptr("edited")})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.FrequencyDays)
}

func TestContactService_ListNewestFirstAndScoped(t *testing.T) {
	f := newContactFixture(t)
	ctx := context.Background()

	for _, n := range []string{"one", "two", "three"} {
		_, err := f.svc.Create(ctx, f.owner, validInput(n, "L2"))
		require.NoError(t, err)
	}
	_, err := f.svc.Create(ctx, f.other, validInput("theirs", "L2"))
	require.NoError(t, err)

	list, err := f.svc.List(ctx, f.owner, ContactFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "three", list[0].Name)
	assert.Equal(t, "one", list[2].Name)
	for _, v := range list {
		assert.Equal(t, f.owner, v.UserID)
	}
}

func TestContactService_ListFilters(t *testing.T) {
	f := newContactFixture(t)
	ctx := context.Background()

	mk := func(name, prio string, days int, extra func(*ContactInput)) string {
		in := validInput(name, prio)
		in.LastContactedDays = ptr(days)
		if extra != nil {
			extra(&in)
		}
		v, err := f.svc.Create(ctx, f.owner, in)
		require.NoError(t, err)
		return v.ID
	}
	overdue := mk("Overdue Olga", "L1", 9, nil)
	mk("Reaching Rita", "L1", 6, nil)
	mk("Fine Fred", "L3", 3, func(in *ContactInput) {
		in.Description = ptr("Met at GopherCon")
	})
	mk("Fresh Fay", "L2", 0, func(in *ContactInput) {
		in.PingTemplate = ptr("Yo {name}")
	})

	names := func(vs []ContactView) []string {
		out := make([]string, len(vs))
		for i, v := range vs {
			out[i] = v.Name
		}
		return out
	}
	list := func(flt ContactFilter) []string {
		vs, err := f.svc.List(ctx, f.owner, flt)
		require.NoError(t, err)
		return names(vs)
	}

	assert.Equal(t, []string{"Overdue Olga"}, list(ContactFilter{Status: "DUE"}))
	assert.Equal(t, []string{"Overdue Olga"}, list(ContactFilter{Status: "overdue"}))
	assert.Equal(t, []string{"Reaching Rita"}, list(ContactFilter{Status: "REACHING"}))
	assert.Equal(t, []string{"Fine Fred"}, list(ContactFilter{Status: "OK"}))
	assert.Equal(t, []string{"Fresh Fay"}, list(ContactFilter{Status: "CONTACTED"}))
	assert.Equal(t, []string{"Reaching Rita", "Overdue Olga"}, list(ContactFilter{Priority: "L1"}))
	assert.Len(t, list(ContactFilter{Priority: "ALL", Status: "ALL"}), 4)
	assert.Equal(t, []string{"Fine Fred"}, list(ContactFilter{Query: "gophercon"}))
	assert.Equal(t, []string{"Fresh Fay"}, list(ContactFilter{Query: "yo {"}))
	assert.Len(t, list(ContactFilter{Query: "+1415"}), 4)

	// the recently-marked flag forces CONTACTED without touching the store
	marked := list(ContactFilter{Status: "CONTACTED", Marked: map[string]bool{overdue: true}})
	assert.Equal(t, []string{"Fresh Fay", "Overdue Olga"}, marked)

	_, err := f.svc.List(ctx, f.owner, ContactFilter{Priority: "L9"})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	_, err = f.svc.List(ctx, f.owner, ContactFilter{Status: "LATE"})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestContactService_CreateBatch(t *testing.T) {
	f := newContactFixture(t)
	ctx := context.Background()

	out, err := f.svc.CreateBatch(ctx, f.owner, []ContactInput{validInput("A", "L1"), validInput("B", "L3")})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 7, out[0].FrequencyDays)
	assert.Equal(t, 30, out[1].FrequencyDays)
	for _, v := range out {
		assert.Equal(t, f.owner, v.UserID)
		assert.NotEmpty(t, v.ID)
	}

	// one bad element rejects the whole batch
	_, err = f.svc.CreateBatch(ctx, f.owner, []ContactInput{validInput("C", "L1"), {Name: ptr("D")}})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	assert.Contains(t, err.Error(), "contact 1")

	list, err := f.svc.List(ctx, f.owner, ContactFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = f.svc.CreateBatch(ctx, f.owner, nil)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestContactService_Ownership(t *testing.T) {
	f := newContactFixture(t)
	ctx := context.Background()

	v, err := f.svc.Create(ctx, f.owner, validInput("Ada", "L1"))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.other, v.ID, ContactInput{Name: ptr("Hijacked")})
	assert.ErrorIs(t, err, entity.ErrForbidden)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.other, v.ID), entity.ErrForbidden)
	_, err = f.svc.MarkContacted(ctx, f.other, v.ID, true)
	assert.ErrorIs(t, err, entity.ErrForbidden)
	_, err = f.svc.Ping(ctx, f.other, v.ID, nil)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	got, err := f.store.Contacts().GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name, "contact is unmodified")

	_, err = f.svc.Update(ctx, f.owner, "missing", ContactInput{})
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.owner, "missing"), entity.ErrNotFound)

	require.NoError(t, f.svc.Delete(ctx, f.owner, v.ID))
	_, err = f.store.Contacts().GetByID(ctx, v.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestContactService_MarkContacted(t *testing.T) {
	f := newContactFixture(t)
	ctx := context.Background()

	in := validInput("Ada", "L1")
	in.LastContactedDays = ptr(12)
	v, err := f.svc.Create(ctx, f.owner, in)
	require.NoError(t, err)
	assert.Equal(t, timing.StatusOverdue, v.Status)

	marked, err := f.svc.MarkContacted(ctx, f.owner, v.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 0, marked.LastContactedDays)
	assert.Equal(t, timing.StatusContacted, marked.Status)

	again, err := f.svc.MarkContacted(ctx, f.owner, v.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 0, again.LastContactedDays)

	// undo does not restore the previous count
	undone, err := f.svc.MarkContacted(ctx, f.owner, v.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, undone.LastContactedDays)
	assert.Equal(t, timing.StatusContacted, undone.Status)
}

func TestContactService_Ping(t *testing.T) {
	f := newContactFixture(t)
	ctx := context.Background()
	defaults := entity.DefaultSettings().PingTemplates

	v, err := f.svc.Create(ctx, f.owner, validInput("Ada", "L1"))
	require.NoError(t, err)

	msg, err := f.svc.Ping(ctx, f.owner, v.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hey Ada, it's been a while! How have you been?", msg)
	assert.Contains(t, defaults[0], "{name}")

	msg, err = f.svc.Ping(ctx, f.owner, v.ID, ptr(2))
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada, would love to catch up soon.", msg)

	msg, err = f.svc.Ping(ctx, f.owner, v.ID, ptr(42))
	require.NoError(t, err)
	assert.Equal(t, "Hey Ada, it's been a while! How have you been?", msg)

	_, err = f.svc.Update(ctx, f.owner, v.ID, ContactInput{PingTemplate: ptr("{name}! {name}!")})
	require.NoError(t, err)
	msg, err = f.svc.Ping(ctx, f.owner, v.ID, ptr(1))
	require.NoError(t, err)
	assert.Equal(t, "Ada! {name}!", msg)

	_, err = f.svc.Update(ctx, f.owner, v.ID, ContactInput{PingTemplate: ptr("")})
	require.NoError(t, err)
	_, err = f.settings.Update(ctx, f.owner, SettingsPatch{PingTemplates: &[]string{}})
	require.NoError(t, err)
	_, err = f.svc.Ping(ctx, f.owner, v.ID, nil)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestContactService_UnknownOwner(t *testing.T) {
	f := newContactFixture(t)
	_, err := f.svc.Create(context.Background(), "ghost", validInput("Ada", "L1"))
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}
