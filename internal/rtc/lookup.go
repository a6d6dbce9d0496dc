package rtc

import (
	"sync"

	"go.uber.org/zap"

	"github.com/classroomlive/server/internal/models"
)

type lectureRecord struct {
	ID     string
	Status models.LectureStatus
	RoomID string
}

// LectureLookup is the pair of mutually-consistent maps gating join_room
// (spec §3): roomId -> lectureId and lectureId -> {id, status, roomId}.
type LectureLookup struct {
	mu        sync.Mutex
	byRoom    map[string]string
	byLecture map[string]lectureRecord
	logger    *zap.Logger
}

func newLectureLookup(logger *zap.Logger) *LectureLookup {
	return &LectureLookup{
		byRoom:    make(map[string]string),
		byLecture: make(map[string]lectureRecord),
		logger:    logger,
	}
}

// Register adds or overwrites the lookup entry for lectureID.
func (l *LectureLookup) Register(lectureID, roomID string, status models.LectureStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnIfActive(status)
	l.byLecture[lectureID] = lectureRecord{ID: lectureID, Status: status, RoomID: roomID}
	l.byRoom[roomID] = lectureID
}

// UpdateStatus changes the status of an already-registered lecture without
// touching its room binding.
func (l *LectureLookup) UpdateStatus(lectureID string, status models.LectureStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnIfActive(status)
	rec, ok := l.byLecture[lectureID]
	if !ok {
		return
	}
	rec.Status = status
	l.byLecture[lectureID] = rec
}

// Unregister purges lectureID from both maps.
func (l *LectureLookup) Unregister(lectureID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.byLecture[lectureID]
	if !ok {
		return
	}
	delete(l.byLecture, lectureID)
	if l.byRoom[rec.RoomID] == lectureID {
		delete(l.byRoom, rec.RoomID)
	}
}

// IsRoomAvailable reports whether roomID has a registered lecture with an
// admissible status. An unregistered room is admissible (backward-compat,
// spec §6.2).
func (l *LectureLookup) IsRoomAvailable(roomID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	lectureID, ok := l.byRoom[roomID]
	if !ok {
		return true
	}
	rec, ok := l.byLecture[lectureID]
	if !ok {
		return true
	}
	return models.IsAdmissibleStatus(rec.Status)
}

// LookupByRoom returns the registered lecture record for roomID, if any.
func (l *LectureLookup) LookupByRoom(roomID string) (lectureRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lectureID, ok := l.byRoom[roomID]
	if !ok {
		return lectureRecord{}, false
	}
	rec, ok := l.byLecture[lectureID]
	return rec, ok
}

// RoomForLecture resolves a lecture id to its bound room id, used by
// deallocateResources' dual room-id/event-id compatibility path.
func (l *LectureLookup) RoomForLecture(lectureID string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.byLecture[lectureID]
	if !ok {
		return "", false
	}
	return rec.RoomID, true
}

func (l *LectureLookup) warnIfActive(status models.LectureStatus) {
	if status == models.LectureActive && l.logger != nil {
		l.logger.Warn("lecture registered with legacy status \"active\" instead of \"in-progress\"")
	}
}
