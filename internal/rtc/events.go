package rtc

import (
	"go.uber.org/zap"

	"github.com/classroomlive/server/internal/apperr"
	"github.com/classroomlive/server/internal/models"
)

// JoinRoom handles join_room {roomId, user}. It checks admissibility via
// LectureLookup, builds a Participant, inserts it, and emits welcome +
// room_state to the joiner alone and user_joined to the pre-existing
// members only (spec §4.3.2).
func (c *Core) JoinRoom(roomID string, user models.User, conn Conn) {
	if !c.lookup.IsRoomAvailable(roomID) {
		c.emitJoinRoomError(roomID, conn)
		return
	}

	c.mu.Lock()
	rs, ok := c.rooms[roomID]
	if !ok {
		rs = newRoomState(roomID)
		c.rooms[roomID] = rs
	}
	c.mu.Unlock()

	now := c.clock()
	rs.mu.Lock()
	participant := models.NewParticipant(user, conn.SocketID(), now)
	rs.runtime.Participants[conn.SocketID()] = &participant
	rs.broadcaster.subscribe(conn.SocketID(), conn)
	rs.touch(now)

	state := roomStatePayload{
		Stream:       streamView(rs.runtime.Stream),
		Participants: toParticipantViews(rs.snapshotParticipants()),
		Messages:     toMessageViews(rs.snapshotMessages()),
	}
	joined := userJoinedPayload{
		UserID:      user.ID,
		Username:    user.Username,
		SocketID:    conn.SocketID(),
		Role:        string(user.Role),
		DisplayName: user.DisplayName,
		Status:      string(user.Status),
	}

	conn.Send(EventWelcome, welcomePayload{Message: "Connected to room", Timestamp: now})
	conn.Send(EventRoomState, state)
	rs.broadcaster.publishExcept(conn.SocketID(), EventUserJoined, joined)
	rs.mu.Unlock()
}

func (c *Core) emitJoinRoomError(roomID string, conn Conn) {
	rec, ok := c.lookup.LookupByRoom(roomID)
	status := models.LectureStatus("")
	if ok {
		status = rec.Status
	}
	conn.Send(EventJoinRoomError, joinRoomErrorPayload{
		Code:          JoinRoomErrorCode,
		Message:       joinRoomErrorMessage(status),
		LectureStatus: string(status),
		RoomID:        roomID,
	})
}

func joinRoomErrorMessage(status models.LectureStatus) string {
	switch status {
	case models.LectureScheduled:
		return "This lecture has not started yet"
	case models.LectureCompleted:
		return "This lecture has ended"
	case models.LectureCancelled:
		return "This lecture has been cancelled"
	case models.LectureDelayed:
		return "This lecture is delayed"
	default:
		return "This room is currently unavailable"
	}
}

// LeaveRoom handles leave_room roomId: detach the socket and broadcast
// user_left to the remaining members.
func (c *Core) LeaveRoom(roomID, socketID string) {
	rs, ok := c.getRoom(roomID)
	if !ok {
		return
	}
	rs.mu.Lock()
	p, existed := rs.runtime.Participants[socketID]
	delete(rs.runtime.Participants, socketID)
	rs.broadcaster.unsubscribe(socketID)
	rs.touch(c.clock())
	if existed {
		rs.broadcaster.publish(EventUserLeft, userLeftPayload{SocketID: socketID, UserID: p.User.ID})
	}
	rs.mu.Unlock()
}

// SendMessage handles send_message roomId, {userId, username, content}: it
// stamps a server timestamp and monotonic seq, appends to the bounded FIFO,
// and broadcasts new_message.
func (c *Core) SendMessage(roomID, userID, username, content string) error {
	rs, ok := c.getRoom(roomID)
	if !ok {
		return apperr.New(apperr.KindRoomNotFound, "room not found: "+roomID)
	}
	now := c.clock()
	rs.mu.Lock()
	msg := rs.runtime.AppendMessage(userID, username, content, now)
	rs.broadcaster.publish(EventNewMessage, newMessagePayload{
		UserID: userID, Username: username, Content: content, Timestamp: now, Seq: msg.Seq,
	})
	rs.mu.Unlock()

	if c.logger != nil {
		c.logger.Debug("chat message", zap.String("roomId", roomID), zap.String("preview", truncatePreview(content)))
	}
	return nil
}

// truncatePreview matches the boundary behavior of spec §8: exactly 50
// chars logged untruncated, 51+ truncated with a "..." suffix.
func truncatePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= 50 {
		return content
	}
	return string(runes[:50]) + "..."
}

// StartStream handles start_stream {roomId, userId, quality}.
func (c *Core) StartStream(roomID, userID string, quality models.StreamQuality) error {
	rs, ok := c.getRoom(roomID)
	if !ok {
		return apperr.New(apperr.KindRoomNotFound, "room not found: "+roomID)
	}
	now := c.clock()
	rs.mu.Lock()
	rs.runtime.Stream = &models.StreamState{StreamerID: userID, Quality: quality, StartedAt: now}
	if p, found := rs.findParticipantByUserID(userID); found {
		p.IsStreaming = true
	}
	rs.touch(now)
	stream := *rs.runtime.Stream
	rs.broadcaster.publish(EventStreamStarted, streamStartedPayload{
		StreamerID: stream.StreamerID, Quality: string(stream.Quality), StartedAt: stream.StartedAt,
	})
	rs.mu.Unlock()
	return nil
}

// StopStream handles stop_stream {roomId}.
func (c *Core) StopStream(roomID string) error {
	rs, ok := c.getRoom(roomID)
	if !ok {
		return apperr.New(apperr.KindRoomNotFound, "room not found: "+roomID)
	}
	rs.mu.Lock()
	var streamerID string
	if rs.runtime.Stream != nil {
		streamerID = rs.runtime.Stream.StreamerID
	}
	rs.runtime.Stream = nil
	if p, found := rs.findParticipantByUserID(streamerID); found {
		p.IsStreaming = false
	}
	rs.touch(c.clock())
	rs.broadcaster.publish(EventStreamStopped, struct{}{})
	rs.mu.Unlock()
	return nil
}

func streamView(s *models.StreamState) interface{} {
	if s == nil {
		return nil
	}
	return streamStartedPayload{StreamerID: s.StreamerID, Quality: string(s.Quality), StartedAt: s.StartedAt}
}

// ForwardWebRTCSignal relays webrtc_offer/webrtc_answer/webrtc_ice_candidate
// to the named peer only, unmodified, under the matching outbound event
// name. The server never parses the payload (spec §4.3.2).
func (c *Core) ForwardWebRTCSignal(roomID, fromSocketID, peerID, event string, payload interface{}) {
	rs, ok := c.getRoom(roomID)
	if !ok {
		return
	}
	rs.broadcaster.publishTo(peerID, event, webrtcSignalPayloadFor(event, fromSocketID, payload))
}

func webrtcSignalPayloadFor(event, fromSocketID string, payload interface{}) webrtcSignalPayload {
	out := webrtcSignalPayload{FromPeerID: fromSocketID}
	switch event {
	case EventWebRTCOffer:
		out.Offer = payload
	case EventWebRTCAnswer:
		out.Answer = payload
	case EventWebRTCIceCandidate:
		out.Candidate = payload
	}
	return out
}

// RecordingStarted handles recording_started {roomId, teacherId}.
func (c *Core) RecordingStarted(roomID, teacherID string) error {
	rs, ok := c.getRoom(roomID)
	if !ok {
		return apperr.New(apperr.KindRoomNotFound, "room not found: "+roomID)
	}
	now := c.clock()
	rs.broadcaster.publish(EventLectureRecordingStarted, recordingStartedPayload{TeacherID: teacherID, Timestamp: now})
	return nil
}

// RecordingStopped handles recording_stopped {roomId, teacherId, duration}.
func (c *Core) RecordingStopped(roomID, teacherID string, duration float64) error {
	rs, ok := c.getRoom(roomID)
	if !ok {
		return apperr.New(apperr.KindRoomNotFound, "room not found: "+roomID)
	}
	now := c.clock()
	rs.broadcaster.publish(EventLectureRecordingStopped, recordingStoppedPayload{TeacherID: teacherID, Duration: duration, Timestamp: now})
	return nil
}

// RaiseHand handles raise_hand {roomId, userId}.
func (c *Core) RaiseHand(roomID, userID string) error {
	return c.toggleHand(roomID, userID, true)
}

// LowerHand handles lower_hand {roomId, userId}.
func (c *Core) LowerHand(roomID, userID string) error {
	return c.toggleHand(roomID, userID, false)
}

func (c *Core) toggleHand(roomID, userID string, raised bool) error {
	rs, ok := c.getRoom(roomID)
	if !ok {
		return apperr.New(apperr.KindRoomNotFound, "room not found: "+roomID)
	}
	now := c.clock()
	rs.mu.Lock()
	p, found := rs.findParticipantByUserID(userID)
	if !found {
		rs.mu.Unlock()
		return apperr.New(apperr.KindParticipantNotFound, "participant not found: "+userID)
	}
	if raised {
		p.RaiseHand(now)
	} else {
		p.LowerHand()
	}
	username := p.User.Username
	if raised {
		rs.broadcaster.publish(EventHandRaised, handRaisedPayload{UserID: userID, Username: username, Timestamp: now})
	} else {
		rs.broadcaster.publish(EventHandLowered, handLoweredPayload{UserID: userID, Timestamp: now})
	}
	rs.mu.Unlock()
	return nil
}
