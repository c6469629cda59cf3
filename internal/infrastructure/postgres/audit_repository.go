package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
	"github.com/oksasatya/ordo-prm/internal/domain/repository"
)

type AuditRepository struct {
	db DB
}

func NewAuditRepository(db DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert stores one audit row. An empty UserID is stored as NULL.
func (r *AuditRepository) Insert(ctx context.Context, e entity.AuditEvent) error {
	meta := e.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode audit metadata: %w", err)
	}
	at := e.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO audit_logs (user_id, email, action, ip, user_agent, metadata, created_at)
		VALUES (NULLIF($1, '')::uuid, $2, $3, $4, $5, $6, $7)
	`, e.UserID, e.Email, e.Action, e.IP, e.UserAgent, b, at)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
