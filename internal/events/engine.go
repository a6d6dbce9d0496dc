// Package events implements the EventEngine of spec §4.2: lecture CRUD and
// the validated lifecycle state machine, mirroring status transitions into
// the RoomRegistry and RTC core.
package events

import (
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/classroomlive/server/internal/apperr"
	"github.com/classroomlive/server/internal/idgen"
	"github.com/classroomlive/server/internal/models"
	"github.com/classroomlive/server/internal/store"
)

// RoomBinder is the narrow RoomRegistry surface the engine mirrors committed
// status changes into (Store-backed room.status / currentLecture).
type RoomBinder interface {
	SetRoomOccupied(roomID string, lecture models.CurrentLectureSummary) error
	SetRoomAvailable(roomID string) error
}

// RTCMirror is the narrow RTC core surface the engine mirrors lecture
// admissibility into (LectureLookup + room teardown).
type RTCMirror interface {
	RegisterLecture(lectureID, roomID string, status models.LectureStatus)
	UpdateLectureStatus(lectureID string, status models.LectureStatus)
	UnregisterLecture(lectureID string)
	ClearRoom(roomID string) error
}

// Engine is the EventEngine.
type Engine struct {
	store  *store.Store
	rooms  RoomBinder
	rtc    RTCMirror
	logger *zap.Logger
	ids    *idgen.Generator
}

// New constructs an Engine. rooms and rtc may be wired after construction
// via Bind, to break the RoomRegistry<->RTC Core<->Engine construction
// cycle (spec §9).
func New(st *store.Store, logger *zap.Logger) *Engine {
	return &Engine{store: st, logger: logger, ids: idgen.New("lecture_")}
}

// Bind wires the RoomRegistry and RTC core collaborators once both exist.
func (e *Engine) Bind(rooms RoomBinder, rtc RTCMirror) {
	e.rooms = rooms
	e.rtc = rtc
}

// CreateEventOptions carries the validated fields of createEvent.
type CreateEventOptions struct {
	Name            string
	Date            string
	RoomID          string
	TeacherID       string
	CreatedBy       string
	Description     string
	MaxParticipants *int
}

// CreateEvent validates options and persists a new lecture with
// status = scheduled.
func (e *Engine) CreateEvent(opts CreateEventOptions) (models.Lecture, error) {
	if err := validateLectureFields(opts.Name, opts.Description, opts.MaxParticipants); err != nil {
		return models.Lecture{}, err
	}
	if opts.RoomID == "" {
		return models.Lecture{}, apperr.New(apperr.KindEventValidationFailed, "roomId is required")
	}
	if opts.TeacherID == "" {
		return models.Lecture{}, apperr.New(apperr.KindEventValidationFailed, "teacherId is required")
	}

	now := time.Now().UTC()
	lecture := models.Lecture{
		ID:              e.ids.Next(),
		Name:            opts.Name,
		Date:            opts.Date,
		RoomID:          opts.RoomID,
		Type:            "lecture",
		Status:          models.LectureScheduled,
		TeacherID:       opts.TeacherID,
		CreatedBy:       opts.CreatedBy,
		Description:     opts.Description,
		MaxParticipants: opts.MaxParticipants,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	saved, err := e.store.InsertLecture(lecture)
	if err != nil {
		return models.Lecture{}, apperr.Wrap(apperr.KindLectureSchedulingFailed, "persist lecture", err)
	}
	return saved, nil
}

// GetEvent returns a lecture by id.
func (e *Engine) GetEvent(id string) (models.Lecture, error) {
	l, ok := e.store.FindLecture(func(l models.Lecture) bool { return l.ID == id })
	if !ok {
		return models.Lecture{}, apperr.New(apperr.KindEventNotFound, "lecture not found: "+id)
	}
	return l, nil
}

// ListFilter conjunctively filters ListEvents. Zero-valued fields are
// ignored.
type ListFilter struct {
	RoomID    string
	TeacherID string
	Status    models.LectureStatus
}

// ListEvents returns lectures matching filter, applied conjunctively.
func (e *Engine) ListEvents(filter ListFilter) []models.Lecture {
	return e.store.FindLectures(func(l models.Lecture) bool {
		if filter.RoomID != "" && l.RoomID != filter.RoomID {
			return false
		}
		if filter.TeacherID != "" && l.TeacherID != filter.TeacherID {
			return false
		}
		if filter.Status != "" && l.Status != filter.Status {
			return false
		}
		return true
	})
}

// UpdatePatch holds the optional fields UpdateEvent may change. A nil
// pointer field means "leave unchanged".
type UpdatePatch struct {
	Name            *string
	Date            *string
	Description     *string
	MaxParticipants **int
}

// UpdateEvent validates and shallow-merges patch into the lecture.
func (e *Engine) UpdateEvent(id string, patch UpdatePatch) (models.Lecture, error) {
	existing, err := e.GetEvent(id)
	if err != nil {
		return models.Lecture{}, err
	}

	name := existing.Name
	if patch.Name != nil {
		name = *patch.Name
	}
	description := existing.Description
	if patch.Description != nil {
		description = *patch.Description
	}
	maxParticipants := existing.MaxParticipants
	if patch.MaxParticipants != nil {
		maxParticipants = *patch.MaxParticipants
	}
	if err := validateLectureFields(name, description, maxParticipants); err != nil {
		return models.Lecture{}, err
	}

	updated, found, err := e.store.UpdateLecture(
		func(l models.Lecture) bool { return l.ID == id },
		func(l *models.Lecture) {
			if patch.Name != nil {
				l.Name = *patch.Name
			}
			if patch.Date != nil {
				l.Date = *patch.Date
			}
			if patch.Description != nil {
				l.Description = *patch.Description
			}
			if patch.MaxParticipants != nil {
				l.MaxParticipants = *patch.MaxParticipants
			}
			l.UpdatedAt = time.Now().UTC()
		},
	)
	if err != nil {
		return models.Lecture{}, apperr.Wrap(apperr.KindLectureUpdateFailed, "persist lecture update", err)
	}
	if !found {
		return models.Lecture{}, apperr.New(apperr.KindEventNotFound, "lecture not found: "+id)
	}
	return updated, nil
}

// CancelEvent is shorthand for a transition to cancelled.
func (e *Engine) CancelEvent(id string) (models.Lecture, error) {
	l, err := e.UpdateEventStatus(id, models.LectureCancelled)
	if err != nil {
		return models.Lecture{}, apperr.Wrap(apperr.KindLectureCancellationFailed, "cancel lecture", err)
	}
	return l, nil
}

// UpdateEventStatus validates the transition, persists it with the
// appropriate timing stamps, and mirrors it into RoomRegistry/RTC core.
func (e *Engine) UpdateEventStatus(id string, newStatus models.LectureStatus) (models.Lecture, error) {
	existing, err := e.GetEvent(id)
	if err != nil {
		return models.Lecture{}, err
	}
	if !models.CanTransition(existing.Status, newStatus) {
		return models.Lecture{}, apperr.New(
			apperr.KindInvalidStatusTransition,
			string(existing.Status)+" -> "+string(newStatus)+" is not allowed",
		)
	}

	now := time.Now().UTC()
	updated, found, err := e.store.UpdateLecture(
		func(l models.Lecture) bool { return l.ID == id },
		func(l *models.Lecture) {
			l.Status = newStatus
			l.UpdatedAt = now
			if newStatus == models.LectureInProgress && l.StartTime == nil {
				l.StartTime = &now
			}
			if newStatus == models.LectureCompleted && l.EndTime == nil {
				l.EndTime = &now
			}
		},
	)
	if err != nil {
		return models.Lecture{}, apperr.Wrap(apperr.KindLectureUpdateFailed, "persist status transition", err)
	}
	if !found {
		return models.Lecture{}, apperr.New(apperr.KindEventNotFound, "lecture not found: "+id)
	}

	// The status transition is already committed in Store at this point;
	// everything below is best-effort mirroring (spec §7).
	e.mirror(updated)
	return updated, nil
}

func (e *Engine) mirror(l models.Lecture) {
	switch l.Status {
	case models.LectureInProgress:
		if e.rtc != nil {
			e.rtc.RegisterLecture(l.ID, l.RoomID, l.Status)
		}
		if e.rooms != nil {
			summary := models.CurrentLectureSummary{ID: l.ID, Name: l.Name, TeacherID: l.TeacherID, Status: l.Status}
			if err := e.rooms.SetRoomOccupied(l.RoomID, summary); err != nil && e.logger != nil {
				e.logger.Error("failed to mark room occupied", zap.String("roomId", l.RoomID), zap.Error(err))
			}
		}
	case models.LectureDelayed:
		if e.rtc != nil {
			e.rtc.UpdateLectureStatus(l.ID, l.Status)
		}
	case models.LectureCompleted, models.LectureCancelled:
		if e.rtc != nil {
			if err := e.rtc.ClearRoom(l.RoomID); err != nil && e.logger != nil {
				e.logger.Error("failed to clear room", zap.String("roomId", l.RoomID), zap.Error(err))
			}
			e.rtc.UnregisterLecture(l.ID)
		}
		if e.rooms != nil {
			if err := e.rooms.SetRoomAvailable(l.RoomID); err != nil && e.logger != nil {
				e.logger.Error("failed to mark room available", zap.String("roomId", l.RoomID), zap.Error(err))
			}
		}
	}
}

func validateLectureFields(name, description string, maxParticipants *int) error {
	if n := utf8.RuneCountInString(name); n < 3 || n > 100 {
		return apperr.New(apperr.KindEventValidationFailed, "name must be between 3 and 100 characters")
	}
	if description != "" {
		if n := utf8.RuneCountInString(description); n < 10 || n > 500 {
			return apperr.New(apperr.KindEventValidationFailed, "description must be between 10 and 500 characters")
		}
	}
	if maxParticipants != nil && (*maxParticipants < 1 || *maxParticipants > 100) {
		return apperr.New(apperr.KindEventValidationFailed, "maxParticipants must be between 1 and 100")
	}
	return nil
}
