package recordings

import (
	"context"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fuzemeet/backend/internal/models"
	"github.com/fuzemeet/backend/pkg/database"
	"github.com/fuzemeet/backend/pkg/utils"
)

// Repository handles recording persistence.
type Repository struct {
	db database.Querier
}

// NewRepository creates a recordings repository bound to a pool or transaction.
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// newLocator generates the opaque download path for a recording. Locators are
// never reused; the uuid hex keeps them unguessable.
func newLocator() string {
	u := uuid.New()
	return "download/" + hex.EncodeToString(u[:])
}

// Create inserts a recording with a fresh locator. A secret hash is stored
// whenever a secret is supplied, independent of the public flag. Requesting a
// public recording without a secret fails with models.ErrSecretRequired.
func (r *Repository) Create(ctx context.Context, owner string, public bool, secret string) (*models.Recording, error) {
	if public && secret == "" {
		return nil, models.ErrSecretRequired
	}

	secretHash := ""
	if secret != "" {
		secretHash = utils.HashSecret(secret)
	}

	const q = `INSERT INTO recordings (locator, owner_email, public, secret_hash)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, locator, owner_email, public, COALESCE(secret_hash, ''), created_at`
	var rec models.Recording
	err := r.db.QueryRow(ctx, q, newLocator(), owner, public, secretHash).
		Scan(&rec.ID, &rec.Locator, &rec.OwnerEmail, &rec.Public, &rec.SecretHash, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByID returns a recording by id, or models.ErrRecordingNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Recording, error) {
	const q = `SELECT id, locator, owner_email, public, COALESCE(secret_hash, ''), created_at
		FROM recordings WHERE id = $1`
	var rec models.Recording
	err := r.db.QueryRow(ctx, q, id).
		Scan(&rec.ID, &rec.Locator, &rec.OwnerEmail, &rec.Public, &rec.SecretHash, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrRecordingNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Delete removes the recording row. Dependent viewer grants must already be
// gone; cascade ordering is the coordinator's job, not this store's.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM recordings WHERE id = $1`, id)
	return err
}

// SetVisibility flips the public flag. The secret hash is left untouched; a
// recording going private keeps whatever secret it was created with. Returns
// models.ErrRecordingNotFound when the id is unknown.
func (r *Repository) SetVisibility(ctx context.Context, id int64, public bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE recordings SET public = $1 WHERE id = $2`, public, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrRecordingNotFound
	}
	return nil
}
