package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
	"github.com/oksasatya/ordo-prm/internal/infrastructure/memory"
)

type fakePublisher struct {
	bodies []any
	err    error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if f.err != nil {
		return f.err
	}
	f.bodies = append(f.bodies, body)
	return nil
}

func TestStoreSink_StampsTime(t *testing.T) {
	store := memory.NewStore()
	sink := NewStoreSink(store.Audit())

	require.NoError(t, sink.Record(context.Background(), entity.AuditEvent{Action: entity.AuditSignup, Email: "a@b.co"}))

	events := store.AuditEvents()
	require.Len(t, events, 1)
	assert.Equal(t, entity.AuditSignup, events[0].Action)
	assert.False(t, events[0].CreatedAt.IsZero())
}

func TestQueueSink_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	store := memory.NewStore()
	sink := NewQueueSink(pub, store.Audit(), nil)

	require.NoError(t, sink.Record(context.Background(), entity.AuditEvent{Action: entity.AuditLogout, UserID: "u1"}))

	require.Len(t, pub.bodies, 1)
	ev, ok := pub.bodies[0].(entity.AuditEvent)
	require.True(t, ok)
	assert.Equal(t, "u1", ev.UserID)
	assert.Empty(t, store.AuditEvents(), "nothing written directly")
}

func TestQueueSink_FallsBackToStore(t *testing.T) {
	logger, hook := test.NewNullLogger()
	store := memory.NewStore()
	sink := NewQueueSink(&fakePublisher{err: errors.New("channel closed")}, store.Audit(), logger)

	require.NoError(t, sink.Record(context.Background(), entity.AuditEvent{Action: entity.AuditLoginFailure}))

	assert.Len(t, store.AuditEvents(), 1)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestQueueSink_NoFallbackReturnsError(t *testing.T) {
	sink := NewQueueSink(&fakePublisher{err: errors.New("down")}, nil, nil)
	assert.Error(t, sink.Record(context.Background(), entity.AuditEvent{Action: entity.AuditLogout}))
}

func TestConsumer_Handle(t *testing.T) {
	store := memory.NewStore()
	c := &Consumer{Repo: store.Audit()}
	ctx := context.Background()

	body, err := json.Marshal(entity.AuditEvent{Action: entity.AuditPasswordReset, UserID: "u1", IP: "10.0.0.1"})
	require.NoError(t, err)
	require.NoError(t, c.Handle(ctx, body))

	events := store.AuditEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "10.0.0.1", events[0].IP)

	assert.ErrorIs(t, c.Handle(ctx, []byte("{not json")), ErrBadMessage)
	assert.ErrorIs(t, c.Handle(ctx, []byte(`{"user_id":"u1"}`)), ErrBadMessage)
	assert.Len(t, store.AuditEvents(), 1)
}

func TestSettle(t *testing.T) {
	transient := errors.New("connection reset")
	bad := fmt.Errorf("%w: missing action", ErrBadMessage)

	tests := []struct {
		name        string
		err         error
		redelivered bool
		want        Disposition
	}{
		{"stored", nil, false, Ack},
		{"stored on redelivery", nil, true, Ack},
		{"malformed", bad, false, Drop},
		{"transient first time", transient, false, Requeue},
		{"transient again", transient, true, Drop},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Settle(tc.err, tc.redelivered))
		})
	}
}
