package meetings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzemeet/backend/internal/authz"
	"github.com/fuzemeet/backend/internal/middleware"
	"github.com/fuzemeet/backend/internal/models"
	"github.com/fuzemeet/backend/pkg/utils"
)

// memCoordinator implements Coordinator and authz.Store in memory with the
// same semantics the pgx-backed service has.
type memCoordinator struct {
	nextID   int64
	meetings map[int64]*models.MeetingDetail
}

func newMemCoordinator() *memCoordinator {
	return &memCoordinator{meetings: make(map[int64]*models.MeetingDetail)}
}

func (m *memCoordinator) Create(_ context.Context, host, secret string) (*models.Meeting, *models.Recording, error) {
	m.nextID++
	public := secret != ""
	hash := ""
	if secret != "" {
		hash = utils.HashSecret(secret)
	}
	rec := models.Recording{
		ID:         m.nextID,
		Locator:    fmt.Sprintf("download/%032x", m.nextID),
		OwnerEmail: host,
		Public:     public,
		SecretHash: hash,
	}
	meeting := models.Meeting{ID: m.nextID, HostEmail: host, RecordingID: rec.ID}
	m.meetings[meeting.ID] = &models.MeetingDetail{
		Meeting:   meeting,
		Recording: rec,
		Viewers:   []string{host},
	}
	return &meeting, &rec, nil
}

func (m *memCoordinator) Delete(_ context.Context, meetingID int64, password string) error {
	d, ok := m.meetings[meetingID]
	if !ok {
		return models.ErrMeetingNotFound
	}
	if d.Recording.SecretHash != "" && password != "" {
		if utils.HashSecret(password) != d.Recording.SecretHash {
			return models.ErrInvalidCredentials
		}
	}
	delete(m.meetings, meetingID)
	return nil
}

func (m *memCoordinator) Share(_ context.Context, meetingID int64, email string) error {
	d, ok := m.meetings[meetingID]
	if !ok {
		return models.ErrMeetingNotFound
	}
	if !d.Recording.Public {
		return models.ErrUserAddToPrivate
	}
	d.Viewers = append(d.Viewers, email)
	return nil
}

func (m *memCoordinator) Get(_ context.Context, meetingID int64) (*models.MeetingDetail, error) {
	d, ok := m.meetings[meetingID]
	if !ok {
		return nil, models.ErrMeetingNotFound
	}
	return d, nil
}

func (m *memCoordinator) All(_ context.Context) ([]models.MeetingDetail, error) {
	ids := make([]int64, 0, len(m.meetings))
	for id := range m.meetings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	list := make([]models.MeetingDetail, 0, len(ids))
	for _, id := range ids {
		list = append(list, *m.meetings[id])
	}
	return list, nil
}

func newTestRouter(co *memCoordinator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(co, authz.NewEngine(co, nil), nil)
	r := gin.New()
	r.POST("/meeting", h.Create)
	r.DELETE("/meeting", h.Delete)
	r.PUT("/meeting", h.Share)
	r.GET("/meeting", h.Get)
	r.GET("/view", middleware.BasicAuth(), h.View)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doView(r *gin.Engine, meetingID, username, password string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/view?meeting_id="+meetingID, nil)
	if username != "" || password != "" {
		req.SetBasicAuth(username, password)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
		Error   string         `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestCreateMeeting(t *testing.T) {
	r := newTestRouter(newMemCoordinator())

	w := doJSON(t, r, http.MethodPost, "/meeting", gin.H{"host": "amy@x.com", "password": "nibbler"})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(1), data["meeting_id"])
	assert.Regexp(t, `^download/`, data["recording_url"])
}

func TestCreateMeetingInvalidHost(t *testing.T) {
	r := newTestRouter(newMemCoordinator())

	w := doJSON(t, r, http.MethodPost, "/meeting", gin.H{"host": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShareViewDeleteStory(t *testing.T) {
	co := newMemCoordinator()
	r := newTestRouter(co)

	w := doJSON(t, r, http.MethodPost, "/meeting", gin.H{"host": "amy@x.com", "password": "nibbler"})
	require.Equal(t, http.StatusOK, w.Code)

	// Correct password but not on the grant list yet.
	assert.Equal(t, http.StatusUnauthorized, doView(r, "1", "fry@x.com", "nibbler").Code)

	w = doJSON(t, r, http.MethodPut, "/meeting", gin.H{"meeting_id": 1, "email": "fry@x.com"})
	require.Equal(t, http.StatusOK, w.Code)

	view := doView(r, "1", "fry@x.com", "nibbler")
	require.Equal(t, http.StatusFound, view.Code)
	assert.Regexp(t, `^/download/`, view.Header().Get("Location"))

	// Wrong password still fails for a granted viewer.
	assert.Equal(t, http.StatusUnauthorized, doView(r, "1", "fry@x.com", "wrong").Code)

	w = doJSON(t, r, http.MethodDelete, "/meeting", gin.H{"meeting_id": 1, "password": "nibbler"})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/meeting?meeting_id=1", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doView(r, "1", "fry@x.com", "nibbler").Code)
}

func TestSharePrivateRecording(t *testing.T) {
	co := newMemCoordinator()
	r := newTestRouter(co)

	doJSON(t, r, http.MethodPost, "/meeting", gin.H{"host": "amy@x.com"})

	w := doJSON(t, r, http.MethodPut, "/meeting", gin.H{"meeting_id": 1, "email": "fry@x.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// Grant list must be untouched.
	assert.Equal(t, []string{"amy@x.com"}, co.meetings[1].Viewers)
}

func TestShareUnknownMeeting(t *testing.T) {
	r := newTestRouter(newMemCoordinator())

	w := doJSON(t, r, http.MethodPut, "/meeting", gin.H{"meeting_id": 7, "email": "fry@x.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMeetingPasswordMismatch(t *testing.T) {
	co := newMemCoordinator()
	r := newTestRouter(co)

	doJSON(t, r, http.MethodPost, "/meeting", gin.H{"host": "amy@x.com", "password": "nibbler"})

	w := doJSON(t, r, http.MethodDelete, "/meeting", gin.H{"meeting_id": 1, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, co.meetings, int64(1))
}

func TestDeleteUnknownMeeting(t *testing.T) {
	r := newTestRouter(newMemCoordinator())

	w := doJSON(t, r, http.MethodDelete, "/meeting", gin.H{"meeting_id": 9})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAllMeetings(t *testing.T) {
	co := newMemCoordinator()
	r := newTestRouter(co)

	doJSON(t, r, http.MethodPost, "/meeting", gin.H{"host": "amy@x.com", "password": "nibbler"})
	doJSON(t, r, http.MethodPost, "/meeting", gin.H{"host": "fry@x.com"})

	w := doJSON(t, r, http.MethodGet, "/meeting", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	results, ok := data["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 2)

	first := results[0].(map[string]any)
	assert.Equal(t, "amy@x.com", first["meeting"].(map[string]any)["host"])
	assert.Equal(t, []any{"amy@x.com"}, first["viewers"])
}

func TestGetMeetingByID(t *testing.T) {
	co := newMemCoordinator()
	r := newTestRouter(co)

	doJSON(t, r, http.MethodPost, "/meeting", gin.H{"host": "amy@x.com"})

	w := doJSON(t, r, http.MethodGet, "/meeting?meeting_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(1), data["meeting"].(map[string]any)["id"])
	assert.Equal(t, float64(1), data["recording"].(map[string]any)["id"])
}

func TestGetMeetingInvalidID(t *testing.T) {
	r := newTestRouter(newMemCoordinator())

	for _, raw := range []string{"abc", "-1", "1.5"} {
		w := doJSON(t, r, http.MethodGet, "/meeting?meeting_id="+raw, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "meeting_id=%s", raw)
	}
}

func TestViewRejectsMissingCredentials(t *testing.T) {
	co := newMemCoordinator()
	r := newTestRouter(co)
	doJSON(t, r, http.MethodPost, "/meeting", gin.H{"host": "amy@x.com", "password": "nibbler"})

	assert.Equal(t, http.StatusUnauthorized, doView(r, "1", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doView(r, "1", "amy@x.com", "").Code)
}

func TestViewInvalidMeetingID(t *testing.T) {
	r := newTestRouter(newMemCoordinator())

	assert.Equal(t, http.StatusBadRequest, doView(r, "abc", "amy@x.com", "nibbler").Code)
}
