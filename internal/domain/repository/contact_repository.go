package repository

import (
	"context"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
)

// ContactRepository persists contacts. Ownership is enforced by callers;
// the repository only stores the owner id it is given.
type ContactRepository interface {
	Create(ctx context.Context, c *entity.Contact) error
	// CreateBatch inserts every contact or none of them.
	CreateBatch(ctx context.Context, cs []*entity.Contact) error
	GetByID(ctx context.Context, id string) (*entity.Contact, error)
	// ListByUser returns the owner's contacts, newest first.
	ListByUser(ctx context.Context, userID string) ([]entity.Contact, error)
	Update(ctx context.Context, c *entity.Contact) error
	// MarkContacted sets last_contacted_days to zero.
	MarkContacted(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
