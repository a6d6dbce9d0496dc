package rtc

import (
	"time"

	"github.com/classroomlive/server/internal/apperr"
	"github.com/classroomlive/server/internal/models"
)

// requireTeacherOrAdmin resolves the requester's participant record in the
// room and checks their role: ParticipantNotFound when the requester is not
// in the room, Unauthorized when their role is neither teacher nor admin.
// No inbound wire event reaches these controls; they are called on Core
// directly.
func (rs *roomState) requireTeacherOrAdmin(requesterID string) (*models.Participant, error) {
	p, found := rs.findParticipantByUserID(requesterID)
	if !found {
		return nil, apperr.New(apperr.KindParticipantNotFound, "requester not found: "+requesterID)
	}
	if p.User.Role != models.RoleTeacher && p.User.Role != models.RoleAdmin {
		return nil, apperr.New(apperr.KindUnauthorized, "requester is not a teacher or admin")
	}
	return p, nil
}

// MuteAllParticipants broadcasts mute_all to the room (spec §4.3.3).
func (c *Core) MuteAllParticipants(roomID, requesterID string) error {
	rs, ok := c.getRoom(roomID)
	if !ok {
		return apperr.New(apperr.KindRoomNotFound, "room not found: "+roomID)
	}
	now := c.clock()
	rs.mu.Lock()
	if _, err := rs.requireTeacherOrAdmin(requesterID); err != nil {
		rs.mu.Unlock()
		return err
	}
	for _, p := range rs.runtime.Participants {
		if p.User.Role != models.RoleTeacher && p.User.Role != models.RoleAdmin {
			p.Muted = true
		}
	}
	rs.broadcaster.publish(EventMuteAll, muteAllPayload{RequestedBy: requesterID, Timestamp: now})
	rs.mu.Unlock()
	return nil
}

// MuteParticipant emits muted_by_teacher to the target socket only
// (spec §4.3.3).
func (c *Core) MuteParticipant(roomID, targetUserID, requesterID string) error {
	rs, ok := c.getRoom(roomID)
	if !ok {
		return apperr.New(apperr.KindRoomNotFound, "room not found: "+roomID)
	}
	now := c.clock()
	rs.mu.Lock()
	if _, err := rs.requireTeacherOrAdmin(requesterID); err != nil {
		rs.mu.Unlock()
		return err
	}
	target, found := rs.findParticipantByUserID(targetUserID)
	if !found {
		rs.mu.Unlock()
		return apperr.New(apperr.KindParticipantNotFound, "participant not found: "+targetUserID)
	}
	target.Muted = true
	socketID := target.SocketID
	rs.broadcaster.publishTo(socketID, EventMutedByTeacher, mutedByTeacherPayload{RequestedBy: requesterID, Timestamp: now})
	rs.mu.Unlock()
	return nil
}

// KickParticipant removes targetUserID from the room, notifies it and the
// room, and force-closes the underlying connection within 2 seconds
// regardless of whether the client self-disconnects (spec §4.3.3).
func (c *Core) KickParticipant(roomID, targetUserID, requesterID, reason string) error {
	rs, ok := c.getRoom(roomID)
	if !ok {
		return apperr.New(apperr.KindRoomNotFound, "room not found: "+roomID)
	}
	now := c.clock()
	rs.mu.Lock()
	if _, err := rs.requireTeacherOrAdmin(requesterID); err != nil {
		rs.mu.Unlock()
		return err
	}
	target, found := rs.findParticipantByUserID(targetUserID)
	if !found {
		rs.mu.Unlock()
		return apperr.New(apperr.KindParticipantNotFound, "participant not found: "+targetUserID)
	}
	socketID := target.SocketID
	conn, _ := rs.broadcaster.get(socketID)
	delete(rs.runtime.Participants, socketID)
	rs.broadcaster.publishTo(socketID, EventKickedFromRoom, kickedFromRoomPayload{
		RoomID: roomID, Reason: reason, KickedBy: requesterID, Timestamp: now,
	})
	rs.broadcaster.unsubscribe(socketID)
	rs.broadcaster.publish(EventParticipantKicked, participantKickedPayload{UserID: targetUserID, Reason: reason})
	rs.mu.Unlock()

	if conn != nil {
		go forceCloseWithin(conn, 2*time.Second)
	}
	return nil
}

// forceCloseWithin closes conn after a short grace period, giving a
// well-behaved client a chance to self-disconnect first while defeating
// misbehaving ones (spec §4.3.3: "MUST close the socket unilaterally").
func forceCloseWithin(conn Conn, grace time.Duration) {
	time.Sleep(grace)
	conn.Close()
}

// HandleDisconnect is called once per socket close: for every room the
// socket belonged to, it removes the entry and broadcasts user_left; if the
// socket's user was the active streamer, the stream is cleared too
// (spec §4.3.4).
func (c *Core) HandleDisconnect(socketID string, roomIDs []string) {
	for _, roomID := range roomIDs {
		c.disconnectFromRoom(roomID, socketID)
	}
}

func (c *Core) disconnectFromRoom(roomID, socketID string) {
	rs, ok := c.getRoom(roomID)
	if !ok {
		return
	}
	rs.mu.Lock()
	p, existed := rs.runtime.Participants[socketID]
	delete(rs.runtime.Participants, socketID)
	rs.broadcaster.unsubscribe(socketID)

	var streamStopped bool
	if existed && rs.runtime.Stream != nil && rs.runtime.Stream.StreamerID == p.User.ID {
		rs.runtime.Stream = nil
		streamStopped = true
	}
	rs.touch(c.clock())
	if existed {
		rs.broadcaster.publish(EventUserLeft, userLeftPayload{SocketID: socketID, UserID: p.User.ID})
		if streamStopped {
			rs.broadcaster.publish(EventStreamStopped, struct{}{})
		}
	}
	rs.mu.Unlock()
}
