package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/classroomlive/server/internal/models"
)

func newTestStore(t *testing.T) (*Store, string) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	s, err := New(path, zap.NewNop())
	require.NoError(t, err)
	return s, path
}

func TestNew_SeedsDefaultRoomWhenFileMissing(t *testing.T) {
	s, path := newTestStore(t)

	room, ok := s.FindRoom(func(r models.Room) bool { return r.ID == DefaultRoomID })
	require.True(t, ok)
	assert.Equal(t, models.RoomAvailable, room.Status)
	assert.Empty(t, s.FindLectures(func(models.Lecture) bool { return true }))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc.Rooms, 1)
}

func TestInsertRoom_PersistsAndIsReadableFromCache(t *testing.T) {
	s, _ := newTestStore(t)

	room := models.Room{ID: "room_1", Name: "Physics", Capacity: 20, Status: models.RoomAvailable}
	_, err := s.InsertRoom(room)
	require.NoError(t, err)

	got, ok := s.FindRoom(func(r models.Room) bool { return r.ID == "room_1" })
	require.True(t, ok)
	assert.Equal(t, "Physics", got.Name)
}

func TestWriteThenReopen_YieldsSameDocument(t *testing.T) {
	s, path := newTestStore(t)
	_, err := s.InsertRoom(models.Room{ID: "room_1", Name: "Physics", Capacity: 20})
	require.NoError(t, err)
	maxParticipants := 40
	_, err = s.InsertLecture(models.Lecture{
		ID: "lecture_1", Name: "Algebra", RoomID: "room_1", Status: models.LectureScheduled,
		MaxParticipants: &maxParticipants,
	})
	require.NoError(t, err)

	reopened, err := New(path, zap.NewNop())
	require.NoError(t, err)

	wantRooms := s.FindRooms(func(models.Room) bool { return true })
	gotRooms := reopened.FindRooms(func(models.Room) bool { return true })
	assert.Equal(t, wantRooms, gotRooms)

	wantLectures := s.FindLectures(func(models.Lecture) bool { return true })
	gotLectures := reopened.FindLectures(func(models.Lecture) bool { return true })
	assert.Equal(t, wantLectures, gotLectures)
}

func TestUpdateRoom_ShallowMergesFirstMatch(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.InsertRoom(models.Room{ID: "room_1", Name: "Physics", Capacity: 20, Status: models.RoomAvailable})
	require.NoError(t, err)

	updated, found, err := s.UpdateRoom(
		func(r models.Room) bool { return r.ID == "room_1" },
		func(r *models.Room) { r.Status = models.RoomOccupied },
	)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.RoomOccupied, updated.Status)
	assert.Equal(t, "Physics", updated.Name)
}

func TestUpdateRoom_NoMatchReportsNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, found, err := s.UpdateRoom(
		func(r models.Room) bool { return r.ID == "does-not-exist" },
		func(r *models.Room) { r.Status = models.RoomOccupied },
	)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteLecture_RemovesAllMatches(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.InsertLecture(models.Lecture{ID: "lecture_1", RoomID: "room_1", Status: models.LectureCancelled})
	require.NoError(t, err)
	_, err = s.InsertLecture(models.Lecture{ID: "lecture_2", RoomID: "room_1", Status: models.LectureCancelled})
	require.NoError(t, err)
	_, err = s.InsertLecture(models.Lecture{ID: "lecture_3", RoomID: "room_2", Status: models.LectureScheduled})
	require.NoError(t, err)

	removed, err := s.DeleteLecture(func(l models.Lecture) bool { return l.RoomID == "room_1" })
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Len(t, s.FindLectures(func(models.Lecture) bool { return true }), 1)
}

func TestFindOne_ById(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.InsertRoom(models.Room{ID: "room_1", Name: "Physics"})
	require.NoError(t, err)

	got, ok := s.FindRoom(ById("room_1", func(r models.Room) string { return r.ID }))
	require.True(t, ok)
	assert.Equal(t, "Physics", got.Name)
}
