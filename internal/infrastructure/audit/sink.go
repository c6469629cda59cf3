// Package audit delivers authentication events either through the
// RabbitMQ audit queue or straight into the audit_logs table.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
	repo "github.com/oksasatya/ordo-prm/internal/domain/repository"
)

// Publisher is the part of helpers.RabbitPublisher the queue sink needs.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// StoreSink writes events synchronously.
type StoreSink struct {
	Repo repo.AuditRepository
}

func NewStoreSink(r repo.AuditRepository) *StoreSink {
	return &StoreSink{Repo: r}
}

func (s *StoreSink) Record(ctx context.Context, e entity.AuditEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return s.Repo.Insert(ctx, e)
}

// QueueSink publishes events for the audit worker. When publishing fails and
// a fallback repository is set, the event is written directly instead.
type QueueSink struct {
	Pub      Publisher
	Fallback repo.AuditRepository
	Logger   logrus.FieldLogger
	Timeout  time.Duration
}

func NewQueueSink(pub Publisher, fallback repo.AuditRepository, logger logrus.FieldLogger) *QueueSink {
	return &QueueSink{Pub: pub, Fallback: fallback, Logger: logger, Timeout: 3 * time.Second}
}

func (s *QueueSink) Record(ctx context.Context, e entity.AuditEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	pctx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	err := s.Pub.PublishJSON(pctx, e)
	if err == nil || s.Fallback == nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("action", e.Action).Warn("audit publish failed, writing directly")
	}
	return s.Fallback.Insert(ctx, e)
}

// ErrBadMessage marks a delivery that can never be stored and should not be
// requeued.
var ErrBadMessage = errors.New("malformed audit message")

// Consumer stores events read off the audit queue.
type Consumer struct {
	Repo repo.AuditRepository
}

// Handle decodes one delivery body and inserts it. Errors wrapping
// ErrBadMessage are permanent; anything else may be retried, see Settle.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var e entity.AuditEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if e.Action == "" {
		return fmt.Errorf("%w: missing action", ErrBadMessage)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return c.Repo.Insert(ctx, e)
}

// Disposition is what the worker does with a delivery after Handle.
type Disposition int

const (
	Ack Disposition = iota
	Drop
	Requeue
)

// Settle decides the fate of a delivery. A transient failure is retried once;
// a delivery that already came back is dropped so a bad row cannot loop.
func Settle(err error, redelivered bool) Disposition {
	switch {
	case err == nil:
		return Ack
	case errors.Is(err, ErrBadMessage), redelivered:
		return Drop
	default:
		return Requeue
	}
}
