package rtc

import "encoding/json"

// WSMessage is the wire envelope: an event name plus its raw JSON payload,
// mirrored on both inbound and outbound frames (spec §6.1/§6.2).
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound event names (client -> server).
const (
	EventJoinRoom           = "join_room"
	EventLeaveRoom          = "leave_room"
	EventSendMessage        = "send_message"
	EventStartStream        = "start_stream"
	EventStopStream         = "stop_stream"
	EventWebRTCOffer        = "webrtc_offer"
	EventWebRTCAnswer       = "webrtc_answer"
	EventWebRTCIceCandidate = "webrtc_ice_candidate"
	EventRecordingStarted   = "recording_started"
	EventRecordingStopped   = "recording_stopped"
	EventRaiseHand          = "raise_hand"
	EventLowerHand          = "lower_hand"
)

// Outbound event names (server -> client).
const (
	EventWelcome                  = "welcome"
	EventRoomState                = "room_state"
	EventUserJoined               = "user_joined"
	EventUserLeft                 = "user_left"
	EventNewMessage                = "new_message"
	EventStreamStarted            = "stream_started"
	EventStreamStopped            = "stream_stopped"
	EventLectureRecordingStarted  = "lecture_recording_started"
	EventLectureRecordingStopped  = "lecture_recording_stopped"
	EventMuteAll                  = "mute_all"
	EventMutedByTeacher           = "muted_by_teacher"
	EventKickedFromRoom           = "kicked_from_room"
	EventParticipantKicked        = "participant_kicked"
	EventHandRaised               = "hand_raised"
	EventHandLowered              = "hand_lowered"
	EventRoomCleared              = "room_cleared"
	EventJoinRoomError            = "join_room_error"
	EventError                    = "error"
)

// JoinRoomErrorCode is always this literal value per spec §6.2.
const JoinRoomErrorCode = "ROOM_UNAVAILABLE"
