// Package rtc implements the RTC Core of spec §4.3: the connection-oriented,
// room-sharded state machine for participants, chat history, the active
// media stream, and WebRTC signal relay, with authorization for
// teacher-only controls and forced-disconnect semantics.
package rtc

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/classroomlive/server/internal/models"
)

// Core owns every RoomRuntime and the LectureLookup gating admission.
type Core struct {
	mu     sync.Mutex
	rooms  map[string]*roomState
	lookup *LectureLookup
	logger *zap.Logger
	clock  func() time.Time
}

// New constructs an empty Core.
func New(logger *zap.Logger) *Core {
	return &Core{
		rooms:  make(map[string]*roomState),
		lookup: newLectureLookup(logger),
		logger: logger,
		clock:  time.Now,
	}
}

func (c *Core) getRoom(roomID string) (*roomState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rs, ok := c.rooms[roomID]
	return rs, ok
}

// SetupForRoom creates a RoomRuntime for roomID if one does not already
// exist. It is idempotent and must never clobber existing participants
// (spec §4.3.6: "a prior defect").
func (c *Core) SetupForRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.rooms[roomID]; ok {
		return
	}
	c.rooms[roomID] = newRoomState(roomID)
}

// AllocateResources is a no-op marker (spec §4.3.6).
func (c *Core) AllocateResources(eventID string) {}

// DeallocateResources removes all runtime state for the room whose id
// equals eventID, or, if no such room exists, resolves eventID through
// LectureLookup as a lecture id and clears the room it is bound to
// (spec §4.3.6, §9 open question).
func (c *Core) DeallocateResources(eventID string) error {
	if _, ok := c.getRoom(eventID); ok {
		return c.ClearRoom(eventID)
	}
	if roomID, ok := c.lookup.RoomForLecture(eventID); ok {
		return c.ClearRoom(roomID)
	}
	return nil
}

// ClearRoom atomically purges a single room's runtime state and broadcasts
// room_cleared to any still-attached connections (spec §4.3.5).
func (c *Core) ClearRoom(roomID string) error {
	rs, ok := c.getRoom(roomID)
	if !ok {
		return nil
	}
	rs.mu.Lock()
	rs.runtime = models.NewRoomRuntime(roomID)
	rs.broadcaster.publish(EventRoomCleared, roomClearedPayload{
		RoomID:    roomID,
		Reason:    "Lecture ended",
		Timestamp: c.clock(),
	})
	rs.mu.Unlock()
	return nil
}

// Shutdown notifies every connected client that its room is closing and
// disconnects them, so clients reconnect into a clean state rather than
// hanging on a socket the process is about to drop.
func (c *Core) Shutdown() {
	c.mu.Lock()
	roomStates := make([]*roomState, 0, len(c.rooms))
	for _, rs := range c.rooms {
		roomStates = append(roomStates, rs)
	}
	c.mu.Unlock()

	for _, rs := range roomStates {
		rs.mu.Lock()
		roomID := rs.runtime.RoomID
		b := rs.broadcaster
		conns := make([]Conn, 0, b.size())
		b.mu.RLock()
		for _, conn := range b.subs {
			conns = append(conns, conn)
		}
		b.mu.RUnlock()

		b.publish(EventRoomCleared, roomClearedPayload{
			RoomID:    roomID,
			Reason:    "Server shutting down",
			Timestamp: c.clock(),
		})
		rs.mu.Unlock()

		for _, conn := range conns {
			conn.Close()
		}
	}
}

// GetRoomParticipants returns a snapshot of a room's participants from
// memory, never from Store.
func (c *Core) GetRoomParticipants(roomID string) []models.Participant {
	rs, ok := c.getRoom(roomID)
	if !ok {
		return nil
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.snapshotParticipants()
}

// --- LectureLookup mirror surface (implements events.RTCMirror) ---

func (c *Core) RegisterLecture(lectureID, roomID string, status models.LectureStatus) {
	c.lookup.Register(lectureID, roomID, status)
}

func (c *Core) UpdateLectureStatus(lectureID string, status models.LectureStatus) {
	c.lookup.UpdateStatus(lectureID, status)
}

func (c *Core) UnregisterLecture(lectureID string) {
	c.lookup.Unregister(lectureID)
}

// IsRoomAvailable reports whether a room currently admits join_room.
func (c *Core) IsRoomAvailable(roomID string) bool {
	return c.lookup.IsRoomAvailable(roomID)
}
