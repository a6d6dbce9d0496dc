package rtc

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/classroomlive/server/internal/models"
)

type joinRoomData struct {
	RoomID string      `json:"roomId"`
	User   models.User `json:"user"`
}

type leaveRoomData struct {
	RoomID string `json:"roomId"`
}

type sendMessageData struct {
	RoomID  string `json:"roomId"`
	UserID  string `json:"userId"`
	Username string `json:"username"`
	Content string `json:"content"`
}

type startStreamData struct {
	RoomID  string               `json:"roomId"`
	UserID  string               `json:"userId"`
	Quality models.StreamQuality `json:"quality"`
}

type stopStreamData struct {
	RoomID string `json:"roomId"`
}

type webrtcSignalData struct {
	RoomID    string          `json:"roomId"`
	PeerID    string          `json:"peerId"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

type recordingStartedData struct {
	RoomID    string `json:"roomId"`
	TeacherID string `json:"teacherId"`
}

type recordingStoppedData struct {
	RoomID    string  `json:"roomId"`
	TeacherID string  `json:"teacherId"`
	Duration  float64 `json:"duration"`
}

type handData struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

// dispatch decodes msg.Data per event and invokes the matching Core
// operation. Decode or Core failures emit `error` to the offending socket
// and never propagate — a malformed message must not crash the process
// (spec §7).
func (c *Client) dispatch(msg WSMessage) {
	switch msg.Event {
	case EventJoinRoom:
		var data joinRoomData
		if !c.decode(msg, &data) {
			return
		}
		c.rememberRoom(data.RoomID)
		c.core.JoinRoom(data.RoomID, data.User, c)

	case EventLeaveRoom:
		var data leaveRoomData
		if !c.decode(msg, &data) {
			return
		}
		c.forgetRoom(data.RoomID)
		c.core.LeaveRoom(data.RoomID, c.socketID)

	case EventSendMessage:
		var data sendMessageData
		if !c.decode(msg, &data) {
			return
		}
		c.reportErr(c.core.SendMessage(data.RoomID, data.UserID, data.Username, data.Content))

	case EventStartStream:
		var data startStreamData
		if !c.decode(msg, &data) {
			return
		}
		c.reportErr(c.core.StartStream(data.RoomID, data.UserID, data.Quality))

	case EventStopStream:
		var data stopStreamData
		if !c.decode(msg, &data) {
			return
		}
		c.reportErr(c.core.StopStream(data.RoomID))

	case EventWebRTCOffer, EventWebRTCAnswer, EventWebRTCIceCandidate:
		var data webrtcSignalData
		if !c.decode(msg, &data) {
			return
		}
		payload := signalPayload(msg.Event, data)
		c.core.ForwardWebRTCSignal(data.RoomID, c.socketID, data.PeerID, msg.Event, payload)

	case EventRecordingStarted:
		var data recordingStartedData
		if !c.decode(msg, &data) {
			return
		}
		c.reportErr(c.core.RecordingStarted(data.RoomID, data.TeacherID))

	case EventRecordingStopped:
		var data recordingStoppedData
		if !c.decode(msg, &data) {
			return
		}
		c.reportErr(c.core.RecordingStopped(data.RoomID, data.TeacherID, data.Duration))

	case EventRaiseHand:
		var data handData
		if !c.decode(msg, &data) {
			return
		}
		c.reportErr(c.core.RaiseHand(data.RoomID, data.UserID))

	case EventLowerHand:
		var data handData
		if !c.decode(msg, &data) {
			return
		}
		c.reportErr(c.core.LowerHand(data.RoomID, data.UserID))

	default:
		// unrecognized event: ignore per the relay's pure-passthrough contract
	}
}

func signalPayload(event string, data webrtcSignalData) json.RawMessage {
	switch event {
	case EventWebRTCOffer:
		return data.Offer
	case EventWebRTCAnswer:
		return data.Answer
	default:
		return data.Candidate
	}
}

func (c *Client) decode(msg WSMessage, v interface{}) bool {
	if len(msg.Data) == 0 {
		return true
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		if c.logger != nil {
			c.logger.Warn("malformed wire payload", zap.String("event", msg.Event), zap.Error(err))
		}
		c.Send(EventError, errorPayload{Message: "malformed payload for " + msg.Event})
		return false
	}
	return true
}

func (c *Client) reportErr(err error) {
	if err == nil {
		return
	}
	if c.logger != nil {
		c.logger.Warn("rtc operation failed", zap.Error(err))
	}
	c.Send(EventError, errorPayload{Message: err.Error()})
}
