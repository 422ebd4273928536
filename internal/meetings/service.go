package meetings

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fuzemeet/backend/internal/models"
	"github.com/fuzemeet/backend/internal/recordings"
	"github.com/fuzemeet/backend/internal/viewers"
	"github.com/fuzemeet/backend/pkg/utils"
)

// Service coordinates the cross-entity meeting operations. Every multi-row
// write (create and delete cascades, share) runs inside a single transaction
// so concurrent readers never observe a meeting without its recording or a
// deleted recording with dangling grants.
type Service struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewService creates the meeting lifecycle service.
func NewService(pool *pgxpool.Pool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{pool: pool, logger: logger}
}

// Create makes a recording, a meeting referencing it, and a viewer grant for
// the host, as one unit. A meeting is public exactly when a secret was
// supplied; the recording store keeps its own public-without-secret guard even
// though this derivation never trips it.
func (s *Service) Create(ctx context.Context, host, secret string) (*models.Meeting, *models.Recording, error) {
	public := secret != ""

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin create meeting: %w", err)
	}
	defer tx.Rollback(ctx)

	rec, err := recordings.NewRepository(tx).Create(ctx, host, public, secret)
	if err != nil {
		return nil, nil, err
	}
	meeting, err := NewRepository(tx).Insert(ctx, host, rec.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("insert meeting: %w", err)
	}
	if _, err := viewers.NewRepository(tx).Add(ctx, host, rec.ID); err != nil {
		return nil, nil, fmt.Errorf("grant host access: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit create meeting: %w", err)
	}
	s.logger.Info("meeting created",
		zap.Int64("meeting_id", meeting.ID),
		zap.Int64("recording_id", rec.ID),
		zap.Bool("public", rec.Public),
	)
	return meeting, rec, nil
}

// Delete removes a meeting and everything hanging off it: viewer grants, then
// the meeting, then the recording, in that order to respect the foreign keys.
// When the recording has a secret hash and a password was supplied, the hash
// must match; a mismatch fails with models.ErrInvalidCredentials.
func (s *Service) Delete(ctx context.Context, meetingID int64, password string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete meeting: %w", err)
	}
	defer tx.Rollback(ctx)

	meetingRepo := NewRepository(tx)
	detail, err := meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}

	if detail.Recording.SecretHash != "" && password != "" {
		if utils.HashSecret(password) != detail.Recording.SecretHash {
			return models.ErrInvalidCredentials
		}
	}

	if err := viewers.NewRepository(tx).RemoveAllFor(ctx, detail.Recording.ID); err != nil {
		return fmt.Errorf("remove viewer grants: %w", err)
	}
	if err := meetingRepo.Delete(ctx, meetingID); err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	if err := recordings.NewRepository(tx).Delete(ctx, detail.Recording.ID); err != nil {
		return fmt.Errorf("delete recording: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete meeting: %w", err)
	}
	s.logger.Info("meeting deleted", zap.Int64("meeting_id", meetingID))
	return nil
}

// Share grants an email viewing access to a meeting's recording. Fails with
// models.ErrUserAddToPrivate while the recording is private. Sharing twice
// adds a second grant.
func (s *Service) Share(ctx context.Context, meetingID int64, email string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin share: %w", err)
	}
	defer tx.Rollback(ctx)

	detail, err := NewRepository(tx).GetByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if !detail.Recording.Public {
		return models.ErrUserAddToPrivate
	}
	if _, err := viewers.NewRepository(tx).Add(ctx, email, detail.Recording.ID); err != nil {
		return fmt.Errorf("add viewer grant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit share: %w", err)
	}
	return nil
}

// Get returns one meeting with its recording and viewer list.
func (s *Service) Get(ctx context.Context, meetingID int64) (*models.MeetingDetail, error) {
	detail, err := NewRepository(s.pool).GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	detail.Viewers, err = viewers.NewRepository(s.pool).ListFor(ctx, detail.Recording.ID)
	if err != nil {
		return nil, fmt.Errorf("list viewers: %w", err)
	}
	return detail, nil
}

// All returns every meeting with recording and viewer list.
func (s *Service) All(ctx context.Context) ([]models.MeetingDetail, error) {
	list, err := NewRepository(s.pool).All(ctx)
	if err != nil {
		return nil, err
	}
	viewerRepo := viewers.NewRepository(s.pool)
	for i := range list {
		list[i].Viewers, err = viewerRepo.ListFor(ctx, list[i].Recording.ID)
		if err != nil {
			return nil, fmt.Errorf("list viewers: %w", err)
		}
	}
	return list, nil
}

// SetVisibility flips a recording's public flag. The secret hash never
// changes here.
func (s *Service) SetVisibility(ctx context.Context, recordingID int64, public bool) error {
	return recordings.NewRepository(s.pool).SetVisibility(ctx, recordingID, public)
}
