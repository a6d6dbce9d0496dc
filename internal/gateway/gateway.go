// Package gateway implements the Façade of spec §4.5: the single
// authorization-checked entry point that programmatic and HTTP callers use
// to reach EventEngine and RoomRegistry. It never talks to Store directly.
package gateway

import (
	"github.com/classroomlive/server/internal/apperr"
	"github.com/classroomlive/server/internal/events"
	"github.com/classroomlive/server/internal/models"
	"github.com/classroomlive/server/internal/rooms"
)

// Gateway is the Façade.
type Gateway struct {
	engine *events.Engine
	rooms  *rooms.Registry
}

// New constructs a Gateway over an already-bound EventEngine and
// RoomRegistry pair.
func New(engine *events.Engine, registry *rooms.Registry) *Gateway {
	return &Gateway{engine: engine, rooms: registry}
}

// requireRole rejects a caller whose role is not in allowed.
func requireRole(caller models.User, allowed ...models.Role) error {
	for _, r := range allowed {
		if caller.Role == r {
			return nil
		}
	}
	return apperr.New(apperr.KindForbidden, "role "+string(caller.Role)+" is not permitted to perform this action")
}

// requireOwnerOrAdmin rejects a non-admin teacher acting on a lecture they
// do not own.
func requireOwnerOrAdmin(caller models.User, lecture models.Lecture) error {
	if caller.Role == models.RoleAdmin {
		return nil
	}
	if caller.Role == models.RoleTeacher && caller.ID == lecture.TeacherID {
		return nil
	}
	return apperr.New(apperr.KindForbidden, "caller does not own this lecture")
}

// CreateEvent creates a lecture. Only teachers and admins may schedule
// lectures; a teacher may only schedule under their own TeacherID.
func (g *Gateway) CreateEvent(caller models.User, opts events.CreateEventOptions) (models.Lecture, error) {
	if err := requireRole(caller, models.RoleTeacher, models.RoleAdmin); err != nil {
		return models.Lecture{}, err
	}
	if caller.Role == models.RoleTeacher && opts.TeacherID != caller.ID {
		return models.Lecture{}, apperr.New(apperr.KindForbidden, "teachers may only schedule lectures under their own id")
	}
	return g.engine.CreateEvent(opts)
}

// GetEvent returns a lecture by id. Readable by anyone authenticated.
func (g *Gateway) GetEvent(id string) (models.Lecture, error) {
	return g.engine.GetEvent(id)
}

// ListEvents lists lectures matching filter. Readable by anyone
// authenticated.
func (g *Gateway) ListEvents(filter events.ListFilter) []models.Lecture {
	return g.engine.ListEvents(filter)
}

// UpdateEvent updates a lecture's mutable fields. Only the owning teacher
// or an admin may do so.
func (g *Gateway) UpdateEvent(caller models.User, id string, patch events.UpdatePatch) (models.Lecture, error) {
	existing, err := g.engine.GetEvent(id)
	if err != nil {
		return models.Lecture{}, err
	}
	if err := requireOwnerOrAdmin(caller, existing); err != nil {
		return models.Lecture{}, err
	}
	return g.engine.UpdateEvent(id, patch)
}

// CancelEvent cancels a lecture. Only the owning teacher or an admin may
// do so.
func (g *Gateway) CancelEvent(caller models.User, id string) (models.Lecture, error) {
	existing, err := g.engine.GetEvent(id)
	if err != nil {
		return models.Lecture{}, err
	}
	if err := requireOwnerOrAdmin(caller, existing); err != nil {
		return models.Lecture{}, err
	}
	return g.engine.CancelEvent(id)
}

// UpdateEventStatus transitions a lecture's status. Only the owning
// teacher or an admin may do so.
func (g *Gateway) UpdateEventStatus(caller models.User, id string, status models.LectureStatus) (models.Lecture, error) {
	existing, err := g.engine.GetEvent(id)
	if err != nil {
		return models.Lecture{}, err
	}
	if err := requireOwnerOrAdmin(caller, existing); err != nil {
		return models.Lecture{}, err
	}
	return g.engine.UpdateEventStatus(id, status)
}

// CreateRoom creates a room. Only admins may provision rooms.
func (g *Gateway) CreateRoom(caller models.User, opts rooms.CreateRoomOptions) (models.Room, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return models.Room{}, err
	}
	return g.rooms.CreateRoom(opts)
}

// GetRoom returns a room by id. Readable by anyone authenticated.
func (g *Gateway) GetRoom(id string) (models.Room, error) {
	return g.rooms.GetRoom(id)
}

// ListRooms lists every room. Readable by anyone authenticated.
func (g *Gateway) ListRooms() []models.Room {
	return g.rooms.ListRooms()
}
