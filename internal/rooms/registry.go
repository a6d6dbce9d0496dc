// Package rooms implements the RoomRegistry of spec §4.4: Room CRUD over
// Store and association of a current lecture with a room. It calls the RTC
// core only to set up a new room's runtime; lecture status changes reach the
// RTC core through the EventEngine, not through this package.
package rooms

import (
	"time"

	"go.uber.org/zap"

	"github.com/classroomlive/server/internal/apperr"
	"github.com/classroomlive/server/internal/events"
	"github.com/classroomlive/server/internal/idgen"
	"github.com/classroomlive/server/internal/models"
	"github.com/classroomlive/server/internal/store"
)

// RTCSetup is the narrow RTC core surface the registry calls on room
// creation (spec §4.4: "on create also calls RTC.setupForRoom(id)").
type RTCSetup interface {
	SetupForRoom(roomID string)
}

// Registry is the RoomRegistry.
type Registry struct {
	store  *store.Store
	rtc    RTCSetup
	engine *events.Engine
	logger *zap.Logger
	ids    *idgen.Generator
}

// New constructs a Registry. engine may be nil if the convenience lecture
// wrappers (StartLecture/EndLecture/AssignLectureToRoom) are not needed by
// the caller; the canonical transition path is always through EventEngine
// directly (spec §4.4).
func New(st *store.Store, rtc RTCSetup, engine *events.Engine, logger *zap.Logger) *Registry {
	return &Registry{store: st, rtc: rtc, engine: engine, logger: logger, ids: idgen.New("room_")}
}

// CreateRoomOptions carries the optional fields CreateRoom accepts.
type CreateRoomOptions struct {
	Name     string
	Capacity int
	Features *models.RoomFeatures
}

// CreateRoom persists a new room with a generated id, defaulting features
// when not supplied, and idempotently sets up its RTC runtime.
func (r *Registry) CreateRoom(opts CreateRoomOptions) (models.Room, error) {
	features := models.DefaultRoomFeatures()
	if opts.Features != nil {
		features = *opts.Features
	}
	now := time.Now().UTC()
	room := models.Room{
		ID:        r.ids.Next(),
		Name:      opts.Name,
		Capacity:  opts.Capacity,
		Status:    models.RoomAvailable,
		Features:  features,
		CreatedAt: now,
		UpdatedAt: now,
	}
	saved, err := r.store.InsertRoom(room)
	if err != nil {
		return models.Room{}, err
	}
	if r.rtc != nil {
		r.rtc.SetupForRoom(saved.ID)
	}
	return saved, nil
}

// GetRoom returns a room by id.
func (r *Registry) GetRoom(id string) (models.Room, error) {
	room, ok := r.store.FindRoom(func(rm models.Room) bool { return rm.ID == id })
	if !ok {
		return models.Room{}, apperr.New(apperr.KindRoomNotFound, "room not found: "+id)
	}
	return room, nil
}

// ListRooms returns every persisted room.
func (r *Registry) ListRooms() []models.Room {
	return r.store.FindRooms(func(models.Room) bool { return true })
}

// SetRoomOccupied implements events.RoomBinder: marks a room occupied with
// the given lecture summary bound to it.
func (r *Registry) SetRoomOccupied(roomID string, lecture models.CurrentLectureSummary) error {
	_, found, err := r.store.UpdateRoom(
		func(rm models.Room) bool { return rm.ID == roomID },
		func(rm *models.Room) {
			rm.Status = models.RoomOccupied
			rm.CurrentLecture = &lecture
			rm.UpdatedAt = time.Now().UTC()
		},
	)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.KindRoomNotFound, "room not found: "+roomID)
	}
	return nil
}

// SetRoomAvailable implements events.RoomBinder: clears a room's bound
// lecture and marks it available again.
func (r *Registry) SetRoomAvailable(roomID string) error {
	_, found, err := r.store.UpdateRoom(
		func(rm models.Room) bool { return rm.ID == roomID },
		func(rm *models.Room) {
			rm.Status = models.RoomAvailable
			rm.CurrentLecture = nil
			rm.UpdatedAt = time.Now().UTC()
		},
	)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.KindRoomNotFound, "room not found: "+roomID)
	}
	return nil
}

// AssignLectureToRoom is a convenience wrapper creating a scheduled lecture
// bound to roomID. The canonical transition path remains EventEngine
// directly (spec §4.4).
func (r *Registry) AssignLectureToRoom(roomID string, opts events.CreateEventOptions) (models.Lecture, error) {
	opts.RoomID = roomID
	return r.engine.CreateEvent(opts)
}

// StartLecture is a convenience wrapper for transitioning lectureID to
// in-progress.
func (r *Registry) StartLecture(lectureID string) (models.Lecture, error) {
	return r.engine.UpdateEventStatus(lectureID, models.LectureInProgress)
}

// EndLecture is a convenience wrapper for transitioning lectureID to
// completed.
func (r *Registry) EndLecture(lectureID string) (models.Lecture, error) {
	return r.engine.UpdateEventStatus(lectureID, models.LectureCompleted)
}
