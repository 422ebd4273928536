package meetings

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fuzemeet/backend/internal/middleware"
	"github.com/fuzemeet/backend/internal/models"
	"github.com/fuzemeet/backend/pkg/response"
)

// Coordinator is the lifecycle service behind the handler.
type Coordinator interface {
	Create(ctx context.Context, host, secret string) (*models.Meeting, *models.Recording, error)
	Delete(ctx context.Context, meetingID int64, password string) error
	Share(ctx context.Context, meetingID int64, email string) error
	Get(ctx context.Context, meetingID int64) (*models.MeetingDetail, error)
	All(ctx context.Context) ([]models.MeetingDetail, error)
}

// Authorizer decides view access for a credential pair.
type Authorizer interface {
	Authorize(ctx context.Context, username, password string, meetingID int64) (bool, error)
}

// CreateRequest is the body for POST /meeting. Supplying a password makes the
// recording public.
type CreateRequest struct {
	Host     string `json:"host" binding:"required,email"`
	Password string `json:"password"`
}

// DeleteRequest is the body for DELETE /meeting.
type DeleteRequest struct {
	MeetingID *int64 `json:"meeting_id" binding:"required"`
	Password  string `json:"password"`
}

// ShareRequest is the body for PUT /meeting.
type ShareRequest struct {
	MeetingID *int64 `json:"meeting_id" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

// meetingRef and recordingRef shape the GET /meeting payload.
type meetingRef struct {
	ID   int64  `json:"id"`
	Host string `json:"host"`
}

type recordingRef struct {
	ID int64 `json:"id"`
}

// DetailResponse is one meeting with its recording and viewer list.
type DetailResponse struct {
	Meeting   meetingRef   `json:"meeting"`
	Recording recordingRef `json:"recording"`
	Viewers   []string     `json:"viewers"`
}

func toDetailResponse(d models.MeetingDetail) DetailResponse {
	viewers := d.Viewers
	if viewers == nil {
		viewers = []string{}
	}
	return DetailResponse{
		Meeting:   meetingRef{ID: d.Meeting.ID, Host: d.Meeting.HostEmail},
		Recording: recordingRef{ID: d.Recording.ID},
		Viewers:   viewers,
	}
}

// Handler handles meeting HTTP endpoints.
type Handler struct {
	svc    Coordinator
	authz  Authorizer
	logger *zap.Logger
}

// NewHandler creates a meetings handler.
func NewHandler(svc Coordinator, authz Authorizer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, authz: authz, logger: logger}
}

// Create handles POST /meeting.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	meeting, rec, err := h.svc.Create(c.Request.Context(), req.Host, req.Password)
	if err != nil {
		h.logger.Error("create meeting failed", zap.Error(err), zap.String("host", req.Host))
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{
		"meeting_id":    meeting.ID,
		"recording_url": rec.Locator,
	})
}

// Delete handles DELETE /meeting.
func (h *Handler) Delete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.svc.Delete(c.Request.Context(), *req.MeetingID, req.Password); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{})
}

// Share handles PUT /meeting.
func (h *Handler) Share(c *gin.Context) {
	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.svc.Share(c.Request.Context(), *req.MeetingID, req.Email); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{})
}

// Get handles GET /meeting?meeting_id=all|N. The id is a tagged variant: the
// sentinel "all" lists everything, a numeric id fetches one meeting, anything
// else is rejected.
func (h *Handler) Get(c *gin.Context) {
	raw := c.DefaultQuery("meeting_id", "all")
	if raw == "all" {
		list, err := h.svc.All(c.Request.Context())
		if err != nil {
			h.logger.Error("list meetings failed", zap.Error(err))
			response.FromError(c, err)
			return
		}
		results := make([]DetailResponse, 0, len(list))
		for _, d := range list {
			results = append(results, toDetailResponse(d))
		}
		response.OK(c, gin.H{"results": results})
		return
	}

	id, err := parseMeetingID(raw)
	if err != nil {
		response.FromError(c, err)
		return
	}
	detail, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, toDetailResponse(*detail))
}

// View handles GET /view?meeting_id=N behind the basic-auth extractor. On
// success the caller is redirected to the recording locator; every failure
// mode collapses to the same 401.
func (h *Handler) View(c *gin.Context) {
	id, err := parseMeetingID(c.Query("meeting_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	username := c.GetString(middleware.ContextUsername)
	password := c.GetString(middleware.ContextPassword)

	ok, err := h.authz.Authorize(c.Request.Context(), username, password, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !ok {
		response.Unauthorized(c, models.ErrInvalidCredentials.Error())
		return
	}

	detail, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/"+detail.Recording.Locator)
}

func parseMeetingID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, models.ErrInvalidMeetingID
	}
	return id, nil
}
