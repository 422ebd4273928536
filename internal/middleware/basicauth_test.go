package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/view", BasicAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"username": c.GetString(ContextUsername),
			"password": c.GetString(ContextPassword),
		})
	})
	return r
}

func TestBasicAuthExtractsCredentials(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/view", nil)
	req.SetBasicAuth("fry@x.com", "nibbler")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fry@x.com")
}

func TestBasicAuthRejectsMissingOrEmpty(t *testing.T) {
	r := newAuthRouter()

	tests := []struct {
		name     string
		username string
		password string
		withAuth bool
	}{
		{"no header", "", "", false},
		{"empty username", "", "nibbler", true},
		{"empty password", "fry@x.com", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/view", nil)
			if tt.withAuth {
				req.SetBasicAuth(tt.username, tt.password)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
