package recordings

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fuzemeet/backend/pkg/response"
)

const (
	visibilityPublic  = "public"
	visibilityPrivate = "private"
)

// VisibilityService flips recording visibility via the lifecycle coordinator.
type VisibilityService interface {
	SetVisibility(ctx context.Context, recordingID int64, public bool) error
}

// Presigner produces a time-limited download URL for a stored object.
// Optional; nil keeps the download endpoint as a stub.
type Presigner interface {
	PresignDownload(ctx context.Context, key string) (string, error)
}

// VisibilityRequest is the body for PUT /recording. Password is accepted for
// wire compatibility but visibility changes never rotate the stored secret.
type VisibilityRequest struct {
	RecordingID *int64 `json:"recording_id" binding:"required"`
	Visibility  string `json:"visibility" binding:"required,oneof=public private"`
	Password    string `json:"password"`
}

// Handler handles recording HTTP endpoints.
type Handler struct {
	svc     VisibilityService
	storage Presigner
	logger  *zap.Logger
}

// NewHandler creates a recordings handler.
func NewHandler(svc VisibilityService, storage Presigner, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, storage: storage, logger: logger}
}

// SetVisibility handles PUT /recording.
func (h *Handler) SetVisibility(c *gin.Context) {
	var req VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	public := req.Visibility == visibilityPublic
	if err := h.svc.SetVisibility(c.Request.Context(), *req.RecordingID, public); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{})
}

// Download handles GET /download/:key, the storage boundary behind the
// recording locator. With S3 configured it redirects to a presigned URL;
// without, it answers with a stub.
func (h *Handler) Download(c *gin.Context) {
	key := c.Param("key")
	if h.storage == nil {
		response.OK(c, gin.H{"redirected": "to storage to fetch your recording"})
		return
	}
	url, err := h.storage.PresignDownload(c.Request.Context(), key)
	if err != nil {
		h.logger.Error("presign download failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to generate download url")
		return
	}
	c.Redirect(http.StatusFound, url)
}
