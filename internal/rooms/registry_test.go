package rooms

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/classroomlive/server/internal/events"
	"github.com/classroomlive/server/internal/models"
	"github.com/classroomlive/server/internal/store"
)

type fakeRTCSetup struct {
	setupCalls []string
}

func (f *fakeRTCSetup) SetupForRoom(roomID string) {
	f.setupCalls = append(f.setupCalls, roomID)
}

func newTestRegistry(t *testing.T) (*Registry, *fakeRTCSetup, *events.Engine) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
	require.NoError(t, err)

	engine := events.New(st, zap.NewNop())
	rtc := &fakeRTCSetup{}
	reg := New(st, rtc, engine, zap.NewNop())
	engine.Bind(reg, noopRTCMirror{})
	return reg, rtc, engine
}

// noopRTCMirror satisfies events.RTCMirror without pulling in the rtc
// package, keeping this package's tests independent of it.
type noopRTCMirror struct{}

func (noopRTCMirror) RegisterLecture(string, string, models.LectureStatus) {}
func (noopRTCMirror) UpdateLectureStatus(string, models.LectureStatus)    {}
func (noopRTCMirror) UnregisterLecture(string)                           {}
func (noopRTCMirror) ClearRoom(string) error                              { return nil }

func TestCreateRoom_DefaultsFeaturesAndCallsSetup(t *testing.T) {
	reg, rtc, _ := newTestRegistry(t)

	room, err := reg.CreateRoom(CreateRoomOptions{Name: "Room A", Capacity: 20})
	require.NoError(t, err)

	assert.Equal(t, models.DefaultRoomFeatures(), room.Features)
	assert.Equal(t, models.RoomAvailable, room.Status)
	assert.Contains(t, rtc.setupCalls, room.ID)
}

func TestCreateRoom_HonorsExplicitFeatures(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	features := models.RoomFeatures{Video: false, Audio: true, Chat: true, Whiteboard: true, ScreenShare: false}

	room, err := reg.CreateRoom(CreateRoomOptions{Name: "Room B", Capacity: 10, Features: &features})
	require.NoError(t, err)

	assert.Equal(t, features, room.Features)
}

func TestGetRoom_NotFound(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	_, err := reg.GetRoom("does-not-exist")
	require.Error(t, err)
}

func TestSetRoomOccupiedThenAvailable(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	room, err := reg.CreateRoom(CreateRoomOptions{Name: "Room C", Capacity: 5})
	require.NoError(t, err)

	summary := models.CurrentLectureSummary{ID: "lecture_1", Name: "Intro", TeacherID: "t1", Status: models.LectureInProgress}
	require.NoError(t, reg.SetRoomOccupied(room.ID, summary))

	occupied, err := reg.GetRoom(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, occupied.Status)
	require.NotNil(t, occupied.CurrentLecture)
	assert.Equal(t, "lecture_1", occupied.CurrentLecture.ID)

	require.NoError(t, reg.SetRoomAvailable(room.ID))
	available, err := reg.GetRoom(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomAvailable, available.Status)
	assert.Nil(t, available.CurrentLecture)
}

func TestSetRoomOccupied_UnknownRoomReportsNotFound(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	err := reg.SetRoomOccupied("missing", models.CurrentLectureSummary{ID: "l1"})
	require.Error(t, err)
}

func TestStartLectureAndEndLecture_RoundTripThroughEngine(t *testing.T) {
	reg, _, engine := newTestRegistry(t)
	room, err := reg.CreateRoom(CreateRoomOptions{Name: "Room D", Capacity: 15})
	require.NoError(t, err)

	lecture, err := reg.AssignLectureToRoom(room.ID, events.CreateEventOptions{
		Name:      "Algebra Basics",
		TeacherID: "t1",
		CreatedBy: "t1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LectureScheduled, lecture.Status)

	started, err := reg.StartLecture(lecture.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LectureInProgress, started.Status)

	occupiedRoom, err := reg.GetRoom(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, occupiedRoom.Status)

	ended, err := reg.EndLecture(lecture.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LectureCompleted, ended.Status)
	assert.NotNil(t, ended.EndTime)

	availableRoom, err := reg.GetRoom(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomAvailable, availableRoom.Status)

	_ = engine // exercised indirectly through reg; kept for future direct assertions
}

func TestListRooms_ReturnsAllPersisted(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	_, err := reg.CreateRoom(CreateRoomOptions{Name: "Room E", Capacity: 5})
	require.NoError(t, err)
	_, err = reg.CreateRoom(CreateRoomOptions{Name: "Room F", Capacity: 5})
	require.NoError(t, err)

	rooms := reg.ListRooms()
	assert.GreaterOrEqual(t, len(rooms), 2)
}
