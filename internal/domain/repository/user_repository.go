package repository

import (
	"context"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Lookups by email are case-insensitive; Create reports entity.ErrDuplicateEmail
// when the address is taken and entity.ErrNotFound is returned for missing rows.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateSettings(ctx context.Context, id string, s entity.Settings) error
}
