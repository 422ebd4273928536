package viewers

import (
	"context"

	"github.com/fuzemeet/backend/internal/models"
	"github.com/fuzemeet/backend/pkg/database"
)

// Repository handles viewer-grant persistence. The grant list is append-only
// per recording and cleared only by the meeting deletion cascade.
type Repository struct {
	db database.Querier
}

// NewRepository creates a viewers repository bound to a pool or transaction.
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// Add appends a grant unconditionally. Preconditions such as "recording must
// be public" belong to the caller, and duplicates are not rejected.
func (r *Repository) Add(ctx context.Context, viewer string, recordingID int64) (*models.ViewerGrant, error) {
	const q = `INSERT INTO viewer_grants (viewer_email, recording_id) VALUES ($1, $2)
		RETURNING id, viewer_email, recording_id, created_at`
	var g models.ViewerGrant
	err := r.db.QueryRow(ctx, q, viewer, recordingID).
		Scan(&g.ID, &g.ViewerEmail, &g.RecordingID, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// RemoveAllFor deletes every grant on a recording. Used only during the
// meeting deletion cascade.
func (r *Repository) RemoveAllFor(ctx context.Context, recordingID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM viewer_grants WHERE recording_id = $1`, recordingID)
	return err
}

// ListFor returns the emails granted access to a recording. Order carries no
// meaning.
func (r *Repository) ListFor(ctx context.Context, recordingID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT viewer_email FROM viewer_grants WHERE recording_id = $1 ORDER BY id`, recordingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}
