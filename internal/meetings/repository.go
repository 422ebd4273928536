package meetings

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fuzemeet/backend/internal/models"
	"github.com/fuzemeet/backend/pkg/database"
)

// Repository handles meeting persistence.
type Repository struct {
	db database.Querier
}

// NewRepository creates a meetings repository bound to a pool or transaction.
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// Insert creates a meeting referencing an existing recording.
func (r *Repository) Insert(ctx context.Context, host string, recordingID int64) (*models.Meeting, error) {
	const q = `INSERT INTO meetings (host_email, recording_id) VALUES ($1, $2)
		RETURNING id, host_email, recording_id, created_at`
	var m models.Meeting
	err := r.db.QueryRow(ctx, q, host, recordingID).
		Scan(&m.ID, &m.HostEmail, &m.RecordingID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID returns a meeting joined with its recording, or
// models.ErrMeetingNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.MeetingDetail, error) {
	const q = `SELECT m.id, m.host_email, m.recording_id, m.created_at,
			r.id, r.locator, r.owner_email, r.public, COALESCE(r.secret_hash, ''), r.created_at
		FROM meetings m
		JOIN recordings r ON r.id = m.recording_id
		WHERE m.id = $1`
	var d models.MeetingDetail
	err := r.db.QueryRow(ctx, q, id).Scan(
		&d.Meeting.ID, &d.Meeting.HostEmail, &d.Meeting.RecordingID, &d.Meeting.CreatedAt,
		&d.Recording.ID, &d.Recording.Locator, &d.Recording.OwnerEmail, &d.Recording.Public,
		&d.Recording.SecretHash, &d.Recording.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrMeetingNotFound
		}
		return nil, err
	}
	return &d, nil
}

// All returns every meeting joined with its recording.
func (r *Repository) All(ctx context.Context) ([]models.MeetingDetail, error) {
	const q = `SELECT m.id, m.host_email, m.recording_id, m.created_at,
			r.id, r.locator, r.owner_email, r.public, COALESCE(r.secret_hash, ''), r.created_at
		FROM meetings m
		JOIN recordings r ON r.id = m.recording_id
		ORDER BY m.id`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.MeetingDetail
	for rows.Next() {
		var d models.MeetingDetail
		if err := rows.Scan(
			&d.Meeting.ID, &d.Meeting.HostEmail, &d.Meeting.RecordingID, &d.Meeting.CreatedAt,
			&d.Recording.ID, &d.Recording.Locator, &d.Recording.OwnerEmail, &d.Recording.Public,
			&d.Recording.SecretHash, &d.Recording.CreatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Delete removes the meeting row only. The surrounding cascade (grants first,
// recording after) is driven by the coordinator.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	return err
}
