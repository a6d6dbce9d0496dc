package events

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/classroomlive/server/internal/apperr"
	"github.com/classroomlive/server/internal/models"
	"github.com/classroomlive/server/internal/store"
)

type fakeMirror struct {
	registered   map[string]string
	statuses     map[string]models.LectureStatus
	cleared      []string
	unregistered []string
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{
		registered: make(map[string]string),
		statuses:   make(map[string]models.LectureStatus),
	}
}

func (f *fakeMirror) RegisterLecture(lectureID, roomID string, status models.LectureStatus) {
	f.registered[lectureID] = roomID
	f.statuses[lectureID] = status
}

func (f *fakeMirror) UpdateLectureStatus(lectureID string, status models.LectureStatus) {
	f.statuses[lectureID] = status
}

func (f *fakeMirror) UnregisterLecture(lectureID string) {
	f.unregistered = append(f.unregistered, lectureID)
	delete(f.registered, lectureID)
	delete(f.statuses, lectureID)
}

func (f *fakeMirror) ClearRoom(roomID string) error {
	f.cleared = append(f.cleared, roomID)
	return nil
}

type fakeRoomBinder struct {
	occupied  map[string]models.CurrentLectureSummary
	available map[string]bool
}

func newFakeRoomBinder() *fakeRoomBinder {
	return &fakeRoomBinder{occupied: make(map[string]models.CurrentLectureSummary), available: make(map[string]bool)}
}

func (f *fakeRoomBinder) SetRoomOccupied(roomID string, lecture models.CurrentLectureSummary) error {
	f.occupied[roomID] = lecture
	delete(f.available, roomID)
	return nil
}

func (f *fakeRoomBinder) SetRoomAvailable(roomID string) error {
	f.available[roomID] = true
	delete(f.occupied, roomID)
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *fakeRoomBinder, *fakeMirror) {
	st, err := store.New(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
	require.NoError(t, err)
	rooms := newFakeRoomBinder()
	rtc := newFakeMirror()
	e := New(st, zap.NewNop())
	e.Bind(rooms, rtc)
	return e, rooms, rtc
}

func TestCreateEvent_ValidatesNameLength(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, err := e.CreateEvent(CreateEventOptions{Name: "ab", RoomID: "room_1", TeacherID: "t1", CreatedBy: "t1"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindEventValidationFailed))
}

func TestCreateEvent_Succeeds(t *testing.T) {
	e, _, _ := newTestEngine(t)
	l, err := e.CreateEvent(CreateEventOptions{Name: "Algebra", Date: "2025-01-01T10:00:00Z", RoomID: "room_1", TeacherID: "t1", CreatedBy: "t1"})
	require.NoError(t, err)
	assert.Equal(t, models.LectureScheduled, l.Status)
	assert.Equal(t, "lecture", l.Type)
	assert.NotEmpty(t, l.ID)
}

func TestUpdateEventStatus_InProgressMirrorsIntoRoomAndRTC(t *testing.T) {
	e, rooms, rtc := newTestEngine(t)
	l, err := e.CreateEvent(CreateEventOptions{Name: "Algebra", RoomID: "room_1", TeacherID: "t1", CreatedBy: "t1"})
	require.NoError(t, err)

	updated, err := e.UpdateEventStatus(l.ID, models.LectureInProgress)
	require.NoError(t, err)
	require.NotNil(t, updated.StartTime)
	assert.Nil(t, updated.EndTime)

	assert.Equal(t, "room_1", rtc.registered[l.ID])
	assert.Equal(t, models.LectureInProgress, rtc.statuses[l.ID])
	summary, ok := rooms.occupied["room_1"]
	require.True(t, ok)
	assert.Equal(t, l.ID, summary.ID)
}

func TestUpdateEventStatus_CompletedClearsRoomAndSetsEndTime(t *testing.T) {
	e, rooms, rtc := newTestEngine(t)
	l, err := e.CreateEvent(CreateEventOptions{Name: "Algebra", RoomID: "room_1", TeacherID: "t1", CreatedBy: "t1"})
	require.NoError(t, err)
	_, err = e.UpdateEventStatus(l.ID, models.LectureInProgress)
	require.NoError(t, err)

	updated, err := e.UpdateEventStatus(l.ID, models.LectureCompleted)
	require.NoError(t, err)
	require.NotNil(t, updated.StartTime)
	require.NotNil(t, updated.EndTime)
	assert.True(t, !updated.EndTime.Before(*updated.StartTime))

	assert.Contains(t, rtc.cleared, "room_1")
	assert.Contains(t, rtc.unregistered, l.ID)
	assert.True(t, rooms.available["room_1"])
}

func TestUpdateEventStatus_RejectsInvalidTransition(t *testing.T) {
	e, _, _ := newTestEngine(t)
	l, err := e.CreateEvent(CreateEventOptions{Name: "Algebra", RoomID: "room_1", TeacherID: "t1", CreatedBy: "t1"})
	require.NoError(t, err)
	_, err = e.UpdateEventStatus(l.ID, models.LectureInProgress)
	require.NoError(t, err)
	_, err = e.UpdateEventStatus(l.ID, models.LectureScheduled)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidStatusTransition))

	_, err = e.UpdateEventStatus(l.ID, models.LectureCompleted)
	require.NoError(t, err)
	_, err = e.UpdateEventStatus(l.ID, models.LectureInProgress)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidStatusTransition))
}

func TestListEvents_FiltersConjunctively(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, err := e.CreateEvent(CreateEventOptions{Name: "Algebra", RoomID: "room_1", TeacherID: "t1", CreatedBy: "t1"})
	require.NoError(t, err)
	_, err = e.CreateEvent(CreateEventOptions{Name: "Geometry", RoomID: "room_2", TeacherID: "t2", CreatedBy: "t2"})
	require.NoError(t, err)

	got := e.ListEvents(ListFilter{RoomID: "room_1"})
	require.Len(t, got, 1)
	assert.Equal(t, "Algebra", got[0].Name)

	got = e.ListEvents(ListFilter{TeacherID: "t2"})
	require.Len(t, got, 1)
	assert.Equal(t, "Geometry", got[0].Name)
}
