package gateway

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/classroomlive/server/internal/apperr"
	"github.com/classroomlive/server/internal/events"
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

func newTestGateway(t *testing.T) (*Gateway, models.Room) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
	require.NoError(t, err)

	engine := events.New(st, zap.NewNop())
	registry := rooms.New(st, noopRTCSetup{}, engine, zap.NewNop())
	engine.Bind(registry, noopRTCMirror{})

	g := New(engine, registry)
	room, err := registry.CreateRoom(rooms.CreateRoomOptions{Name: "Room A", Capacity: 10})
	require.NoError(t, err)
	return g, room
}

func TestCreateEvent_TeacherMaySelfSchedule(t *testing.T) {
	g, room := newTestGateway(t)
	teacher := models.User{ID: "t1", Role: models.RoleTeacher}

	l, err := g.CreateEvent(teacher, events.CreateEventOptions{
		Name: "Algebra Basics", RoomID: room.ID, TeacherID: "t1", CreatedBy: "t1",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", l.TeacherID)
}

func TestCreateEvent_TeacherCannotScheduleForAnother(t *testing.T) {
	g, room := newTestGateway(t)
	teacher := models.User{ID: "t1", Role: models.RoleTeacher}

	_, err := g.CreateEvent(teacher, events.CreateEventOptions{
		Name: "Algebra Basics", RoomID: room.ID, TeacherID: "t2", CreatedBy: "t1",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestCreateEvent_StudentForbidden(t *testing.T) {
	g, room := newTestGateway(t)
	student := models.User{ID: "s1", Role: models.RoleStudent}

	_, err := g.CreateEvent(student, events.CreateEventOptions{
		Name: "Algebra Basics", RoomID: room.ID, TeacherID: "s1", CreatedBy: "s1",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestUpdateEvent_OnlyOwningTeacherOrAdmin(t *testing.T) {
	g, room := newTestGateway(t)
	owner := models.User{ID: "t1", Role: models.RoleTeacher}
	other := models.User{ID: "t2", Role: models.RoleTeacher}
	admin := models.User{ID: "a1", Role: models.RoleAdmin}

	l, err := g.CreateEvent(owner, events.CreateEventOptions{
		Name: "Algebra Basics", RoomID: room.ID, TeacherID: "t1", CreatedBy: "t1",
	})
	require.NoError(t, err)

	newName := "Algebra Advanced"
	_, err = g.UpdateEvent(other, l.ID, events.UpdatePatch{Name: &newName})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = g.UpdateEvent(owner, l.ID, events.UpdatePatch{Name: &newName})
	require.NoError(t, err)

	newerName := "Algebra Expert"
	_, err = g.UpdateEvent(admin, l.ID, events.UpdatePatch{Name: &newerName})
	require.NoError(t, err)
}

func TestCreateRoom_AdminOnly(t *testing.T) {
	g, _ := newTestGateway(t)
	teacher := models.User{ID: "t1", Role: models.RoleTeacher}
	admin := models.User{ID: "a1", Role: models.RoleAdmin}

	_, err := g.CreateRoom(teacher, rooms.CreateRoomOptions{Name: "Room X", Capacity: 5})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = g.CreateRoom(admin, rooms.CreateRoomOptions{Name: "Room X", Capacity: 5})
	require.NoError(t, err)
}
