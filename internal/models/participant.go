package models

import "time"

// Participant is ephemeral: it lives only in a RoomRuntime and is never
// persisted. JoinedAt is stamped once, at join_room time.
type Participant struct {
	User

	SocketID        string     `json:"socketId"`
	JoinedAt        time.Time  `json:"joinedAt"`
	CanStream       bool       `json:"canStream"`
	CanChat         bool       `json:"canChat"`
	CanScreenShare  bool       `json:"canScreenShare"`
	IsStreaming     bool       `json:"isStreaming"`
	HandRaised      bool       `json:"handRaised"`
	HandRaisedAt    *time.Time `json:"handRaisedAt,omitempty"`
	Muted           bool       `json:"muted"`
}

// NewParticipant seeds stream/chat/screen-share permissions from the role,
// mirroring spec §3's "teachers and admins can stream by default".
func NewParticipant(u User, socketID string, joinedAt time.Time) Participant {
	return Participant{
		User:           u,
		SocketID:       socketID,
		JoinedAt:       joinedAt,
		CanStream:      u.Role.CanStream(),
		CanChat:        true,
		CanScreenShare: u.Role.CanStream(),
	}
}

// RaiseHand marks the participant's hand raised at t, if not already raised.
func (p *Participant) RaiseHand(t time.Time) {
	if p.HandRaised {
		return
	}
	p.HandRaised = true
	raisedAt := t
	p.HandRaisedAt = &raisedAt
}

// LowerHand clears a raised hand.
func (p *Participant) LowerHand() {
	p.HandRaised = false
	p.HandRaisedAt = nil
}
