package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/fuzemeet/backend/internal/models"
	"github.com/fuzemeet/backend/pkg/response"
)

const (
	// ContextUsername is the key for the basic-auth username in gin context.
	ContextUsername = "auth_username"
	// ContextPassword is the key for the basic-auth password in gin context.
	ContextPassword = "auth_password"
)

// BasicAuth extracts the basic-auth credential pair and rejects requests with
// a missing or empty username or password before any authorization logic
// runs. The rejection message matches every other credential failure.
func BasicAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok || username == "" || password == "" {
			response.Unauthorized(c, models.ErrInvalidCredentials.Error())
			c.Abort()
			return
		}
		c.Set(ContextUsername, username)
		c.Set(ContextPassword, password)
		c.Next()
	}
}
