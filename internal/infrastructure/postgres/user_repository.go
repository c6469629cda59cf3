package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
	"github.com/oksasatya/ordo-prm/internal/domain/repository"
)

const userColumns = `id, email, password_hash, name, theme, priority_frequencies, ping_templates, created_at, updated_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	freq, err := json.Marshal(u.Settings.PriorityFrequencies)
	if err != nil {
		return err
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, theme, priority_frequencies, ping_templates)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Email, u.PasswordHash, u.Name, string(u.Settings.Theme), freq, templatesOrEmpty(u.Settings.PingTemplates))

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now()
		WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return mapNotFound(err)
	}
	if res.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateSettings(ctx context.Context, id string, s entity.Settings) error {
	freq, err := json.Marshal(s.PriorityFrequencies)
	if err != nil {
		return err
	}
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET theme = $1, priority_frequencies = $2, ping_templates = $3, updated_at = now()
		WHERE id = $4
	`, string(s.Theme), freq, templatesOrEmpty(s.PingTemplates), id)
	if err != nil {
		return mapNotFound(err)
	}
	if res.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u     entity.User
		theme string
		freq  []byte
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &theme, &freq,
		&u.Settings.PingTemplates, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	u.Settings.Theme = entity.Theme(theme)
	if len(freq) > 0 {
		if err := json.Unmarshal(freq, &u.Settings.PriorityFrequencies); err != nil {
			return nil, fmt.Errorf("decode priority_frequencies: %w", err)
		}
	}
	return &u, nil
}

func templatesOrEmpty(t []string) []string {
	if t == nil {
		return []string{}
	}
	return t
}

var _ repository.UserRepository = (*UserRepository)(nil)
