// Package authz decides whether a credential pair may view a meeting's
// recording. The shared secret is necessary but never sufficient: a matching
// password still requires ownership (private recordings) or a viewer grant
// (public recordings).
package authz

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fuzemeet/backend/internal/models"
	"github.com/fuzemeet/backend/pkg/utils"
)

// Store resolves a meeting with its recording and viewer list. Implemented by
// the meeting service; faked in tests.
type Store interface {
	Get(ctx context.Context, meetingID int64) (*models.MeetingDetail, error)
}

// Engine evaluates view authorization. Callers must reject empty credentials
// before invoking it.
type Engine struct {
	store  Store
	logger *zap.Logger
}

// NewEngine creates an authorization engine.
func NewEngine(store Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, logger: logger}
}

// Authorize reports whether username/password may view the meeting's
// recording. An unknown meeting returns models.ErrInvalidCredentials: the
// caller must not be able to tell a missing meeting from a bad password.
func (e *Engine) Authorize(ctx context.Context, username, password string, meetingID int64) (bool, error) {
	detail, err := e.store.Get(ctx, meetingID)
	if err != nil {
		if errors.Is(err, models.ErrMeetingNotFound) {
			return false, models.ErrInvalidCredentials
		}
		return false, err
	}

	if utils.HashSecret(password) != detail.Recording.SecretHash {
		return false, nil
	}

	if !detail.Recording.Public {
		return username == detail.Recording.OwnerEmail, nil
	}

	for _, viewer := range detail.Viewers {
		if viewer == username {
			return true, nil
		}
	}
	e.logger.Debug("viewer not in grant list",
		zap.Int64("meeting_id", meetingID),
		zap.String("username", username),
	)
	return false, nil
}
