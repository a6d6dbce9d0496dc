package rtc

import (
	"sync"
	"time"

	"github.com/classroomlive/server/internal/models"
)

// roomState is the critical section around a single RoomRuntime: every
// mutation of participants/messages/stream and every broadcast that follows
// from it happens under mu, preserving the ordering guarantees of spec §5.
type roomState struct {
	mu          sync.Mutex
	runtime     *models.RoomRuntime
	broadcaster *broadcaster
}

func newRoomState(roomID string) *roomState {
	return &roomState{
		runtime:     models.NewRoomRuntime(roomID),
		broadcaster: newBroadcaster(),
	}
}

// findParticipantByUserID scans the (small) participant set for a matching
// user id. Callers must hold mu.
func (rs *roomState) findParticipantByUserID(userID string) (*models.Participant, bool) {
	for _, p := range rs.runtime.Participants {
		if p.User.ID == userID {
			return p, true
		}
	}
	return nil, false
}

// snapshotParticipants returns a defensive copy of the current participant
// list. Callers must hold mu, or not care about races (GetRoomParticipants
// takes its own lock).
func (rs *roomState) snapshotParticipants() []models.Participant {
	out := make([]models.Participant, 0, len(rs.runtime.Participants))
	for _, p := range rs.runtime.Participants {
		out = append(out, *p)
	}
	return out
}

func (rs *roomState) snapshotMessages() []models.ChatMessage {
	out := make([]models.ChatMessage, len(rs.runtime.Messages))
	copy(out, rs.runtime.Messages)
	return out
}

func (rs *roomState) touch(t time.Time) {
	rs.runtime.LastActivity = t
}
