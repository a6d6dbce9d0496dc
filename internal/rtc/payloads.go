package rtc

import (
	"time"

	"github.com/classroomlive/server/internal/models"
)

type welcomePayload struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type roomStatePayload struct {
	Stream       interface{}            `json:"stream"`
	Participants []participantView      `json:"participants"`
	Messages     []messageView          `json:"messages"`
}

type participantView struct {
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	Role           string `json:"role"`
	DisplayName    string `json:"displayName,omitempty"`
	Status         string `json:"status,omitempty"`
	SocketID       string `json:"socketId"`
	CanStream      bool   `json:"canStream"`
	CanChat        bool   `json:"canChat"`
	CanScreenShare bool   `json:"canScreenShare"`
	IsStreaming    bool   `json:"isStreaming"`
	HandRaised     bool   `json:"handRaised"`
}

type messageView struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Seq       uint64    `json:"seq"`
}

type userJoinedPayload struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	SocketID    string `json:"socketId"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName,omitempty"`
	Status      string `json:"status,omitempty"`
}

type userLeftPayload struct {
	SocketID string `json:"socketId"`
	UserID   string `json:"userId,omitempty"`
}

type newMessagePayload struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Seq       uint64    `json:"seq"`
}

type streamStartedPayload struct {
	StreamerID string    `json:"streamerId"`
	Quality    string    `json:"quality"`
	StartedAt  time.Time `json:"startedAt"`
}

type webrtcSignalPayload struct {
	FromPeerID string      `json:"fromPeerId"`
	Offer      interface{} `json:"offer,omitempty"`
	Answer     interface{} `json:"answer,omitempty"`
	Candidate  interface{} `json:"candidate,omitempty"`
}

type recordingStartedPayload struct {
	TeacherID string    `json:"teacherId"`
	Timestamp time.Time `json:"timestamp"`
}

type recordingStoppedPayload struct {
	TeacherID string    `json:"teacherId"`
	Duration  float64   `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}

type muteAllPayload struct {
	RequestedBy string    `json:"requestedBy"`
	Timestamp   time.Time `json:"timestamp"`
}

type mutedByTeacherPayload struct {
	RequestedBy string    `json:"requestedBy"`
	Reason      string    `json:"reason,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type kickedFromRoomPayload struct {
	RoomID    string    `json:"roomId"`
	Reason    string    `json:"reason,omitempty"`
	KickedBy  string    `json:"kickedBy"`
	Timestamp time.Time `json:"timestamp"`
}

type participantKickedPayload struct {
	UserID string `json:"userId"`
	Reason string `json:"reason,omitempty"`
}

type handRaisedPayload struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

type handLoweredPayload struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type roomClearedPayload struct {
	RoomID    string    `json:"roomId"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

type joinRoomErrorPayload struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	LectureStatus string `json:"lectureStatus,omitempty"`
	RoomID        string `json:"roomId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func toParticipantView(p models.Participant) participantView {
	return participantView{
		UserID:         p.User.ID,
		Username:       p.User.Username,
		Role:           string(p.User.Role),
		DisplayName:    p.User.DisplayName,
		Status:         string(p.User.Status),
		SocketID:       p.SocketID,
		CanStream:      p.CanStream,
		CanChat:        p.CanChat,
		CanScreenShare: p.CanScreenShare,
		IsStreaming:    p.IsStreaming,
		HandRaised:     p.HandRaised,
	}
}

func toParticipantViews(ps []models.Participant) []participantView {
	out := make([]participantView, 0, len(ps))
	for _, p := range ps {
		out = append(out, toParticipantView(p))
	}
	return out
}

func toMessageView(m models.ChatMessage) messageView {
	return messageView{UserID: m.UserID, Username: m.Username, Content: m.Content, Timestamp: m.Timestamp, Seq: m.Seq}
}

func toMessageViews(ms []models.ChatMessage) []messageView {
	out := make([]messageView, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMessageView(m))
	}
	return out
}
