package users

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fuzemeet/backend/internal/models"
	"github.com/fuzemeet/backend/pkg/response"
)

// Store is the identity store behind the handler.
type Store interface {
	Create(ctx context.Context, email string) (*models.User, error)
	Delete(ctx context.Context, email string) error
}

// CreateRequest is the body for POST /user.
type CreateRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// DeleteRequest is the body for DELETE /user.
type DeleteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Handler handles identity HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// Create handles POST /user.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if _, err := h.store.Create(c.Request.Context(), req.Email); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "user created"})
}

// Delete handles DELETE /user. Deleting an unknown email succeeds.
func (h *Handler) Delete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.store.Delete(c.Request.Context(), req.Email); err != nil {
		h.logger.Error("delete user failed", zap.Error(err), zap.String("email", req.Email))
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{})
}
