package repository

import (
	"context"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
)

type AuditRepository interface {
	Insert(ctx context.Context, e entity.AuditEvent) error
}
