package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fuzemeet/backend/internal/models"
)

// FromError maps the domain error taxonomy to an HTTP response. Unknown
// errors surface as a 500 without leaking detail.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrUserExists):
		Conflict(c, err.Error())
	case errors.Is(err, models.ErrSecretRequired):
		BadRequest(c, err.Error())
	case errors.Is(err, models.ErrInvalidMeetingID):
		BadRequest(c, err.Error())
	case errors.Is(err, models.ErrMeetingNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, models.ErrRecordingNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, models.ErrUserAddToPrivate):
		Unauthorized(c, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		Unauthorized(c, err.Error())
	default:
		Internal(c, "internal error")
	}
}
