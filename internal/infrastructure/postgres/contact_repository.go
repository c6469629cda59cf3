package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
	"github.com/oksasatya/ordo-prm/internal/domain/repository"
)

const contactColumns = `id, user_id, name, description, last_interaction, profile_link, phone_number,
	priority, frequency_days, last_contacted_days, ping_template, created_at, updated_at`

const insertContactSQL = `
	INSERT INTO contacts (user_id, name, description, last_interaction, profile_link, phone_number,
		priority, frequency_days, last_contacted_days, ping_template)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, created_at, updated_at
`

type ContactRepository struct {
	db DB
}

func NewContactRepository(db DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// queryRower is satisfied by both the pool and a transaction.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertContact(ctx context.Context, q queryRower, c *entity.Contact) error {
	row := q.QueryRow(ctx, insertContactSQL,
		c.UserID, c.Name, c.Description, c.LastInteraction, c.ProfileLink, c.PhoneNumber,
		string(c.Priority), c.FrequencyDays, c.LastContactedDays, c.PingTemplate)
	return row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	if err := insertContact(ctx, r.db, c); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// CreateBatch inserts all contacts in one transaction.
func (r *ContactRepository) CreateBatch(ctx context.Context, cs []*entity.Contact) error {
	if len(cs) == 0 {
		return nil
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	for i, c := range cs {
		if err := insertContact(ctx, tx, c); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("insert contact %d of %d: %w", i+1, len(cs), err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	row := r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	c, err := scanContact(row)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return c, nil
}

func (r *ContactRepository) ListByUser(ctx context.Context, userID string) ([]entity.Contact, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out, nil
}

func (r *ContactRepository) Update(ctx context.Context, c *entity.Contact) error {
	row := r.db.QueryRow(ctx, `
		UPDATE contacts
		SET name = $1, description = $2, last_interaction = $3, profile_link = $4, phone_number = $5,
			priority = $6, frequency_days = $7, last_contacted_days = $8, ping_template = $9,
			updated_at = now()
		WHERE id = $10
		RETURNING updated_at
	`, c.Name, c.Description, c.LastInteraction, c.ProfileLink, c.PhoneNumber,
		string(c.Priority), c.FrequencyDays, c.LastContactedDays, c.PingTemplate, c.ID)
	if err := row.Scan(&c.UpdatedAt); err != nil {
		return mapNotFound(err)
	}
	return nil
}

func (r *ContactRepository) MarkContacted(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE contacts SET last_contacted_days = 0, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return mapNotFound(err)
	}
	if res.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return mapNotFound(err)
	}
	if res.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func scanContact(row pgx.Row) (*entity.Contact, error) {
	var (
		c        entity.Contact
		priority string
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.LastInteraction,
		&c.ProfileLink, &c.PhoneNumber, &priority, &c.FrequencyDays, &c.LastContactedDays,
		&c.PingTemplate, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Priority = entity.Priority(priority)
	return &c, nil
}

var _ repository.ContactRepository = (*ContactRepository)(nil)
