package application

import (
	"context"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
)

// AuditSink receives authentication events. Implementations decide whether
// the event is queued or written straight to the store.
type AuditSink interface {
	Record(ctx context.Context, e entity.AuditEvent) error
}

// RequestMeta is the client information attached to audit events.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// NopAuditSink drops every event.
type NopAuditSink struct{}

func (NopAuditSink) Record(context.Context, entity.AuditEvent) error { return nil }
