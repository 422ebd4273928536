package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fuzemeet/backend/internal/models"
	"github.com/fuzemeet/backend/pkg/database"
)

// unique_violation per the PostgreSQL error code table.
const pgUniqueViolation = "23505"

// Repository handles identity persistence.
type Repository struct {
	db database.Querier
}

// NewRepository creates a users repository bound to a pool or transaction.
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// Create inserts a new identity. Returns models.ErrUserExists when the email
// is already registered.
func (r *Repository) Create(ctx context.Context, email string) (*models.User, error) {
	const q = `INSERT INTO users (email) VALUES ($1) RETURNING email, created_at`
	var u models.User
	err := r.db.QueryRow(ctx, q, email).Scan(&u.Email, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, models.ErrUserExists
		}
		return nil, err
	}
	return &u, nil
}

// Delete removes an identity. Deleting an absent email is a no-op, not an
// error. No cleanup of recordings or meetings happens here; the foreign keys
// reject the delete while references remain.
func (r *Repository) Delete(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
	return err
}
