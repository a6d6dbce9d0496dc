package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/classroomlive/server/internal/events"
	"github.com/classroomlive/server/internal/gateway"
	"github.com/classroomlive/server/internal/middleware"
	"github.com/classroomlive/server/internal/models"
	"github.com/classroomlive/server/internal/rooms"
	"github.com/classroomlive/server/internal/store"
)

type noopRTCMirror struct{}

func (noopRTCMirror) RegisterLecture(string, string, models.LectureStatus) {}
func (noopRTCMirror) UpdateLectureStatus(string, models.LectureStatus)    {}
func (noopRTCMirror) UnregisterLecture(string)                           {}
func (noopRTCMirror) ClearRoom(string) error                              { return nil }

type noopRTCSetup struct{}

func (noopRTCSetup) SetupForRoom(string) {}

func newTestRouter(t *testing.T, caller models.User) (*gin.Engine, models.Room) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
	require.NoError(t, err)
	engine := events.New(st, zap.NewNop())
	registry := rooms.New(st, noopRTCSetup{}, engine, zap.NewNop())
	engine.Bind(registry, noopRTCMirror{})
	gw := gateway.New(engine, registry)
	room, err := registry.CreateRoom(rooms.CreateRoomOptions{Name: "Room A", Capacity: 10})
	require.NoError(t, err)

	h := NewHandler(gw)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, caller.ID)
		c.Set(middleware.ContextUserRole, caller.Role)
		c.Next()
	})
	r.POST("/events", h.CreateEvent)
	r.GET("/events/:id", h.GetEvent)
	return r, room
}

func TestCreateEvent_HTTP_Success(t *testing.T) {
	teacher := models.User{ID: "t1", Role: models.RoleTeacher}
	router, room := newTestRouter(t, teacher)

	body, _ := json.Marshal(CreateEventRequest{
		Name: "Algebra Basics", RoomID: room.ID, TeacherID: "t1",
	})
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateEvent_HTTP_ForbiddenMapsTo403(t *testing.T) {
	teacher := models.User{ID: "t1", Role: models.RoleTeacher}
	router, room := newTestRouter(t, teacher)

	body, _ := json.Marshal(CreateEventRequest{
		Name: "Algebra Basics", RoomID: room.ID, TeacherID: "someone-else",
	})
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetEvent_HTTP_NotFoundMapsTo404(t *testing.T) {
	teacher := models.User{ID: "t1", Role: models.RoleTeacher}
	router, _ := newTestRouter(t, teacher)

	req := httptest.NewRequest(http.MethodGet, "/events/does-not-exist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
