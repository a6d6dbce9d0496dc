package models

import "time"

// LectureStatus is the validated status state machine value of a Lecture.
type LectureStatus string

const (
	LectureScheduled  LectureStatus = "scheduled"
	LectureDelayed    LectureStatus = "delayed"
	LectureInProgress LectureStatus = "in-progress"
	LectureCompleted  LectureStatus = "completed"
	LectureCancelled  LectureStatus = "cancelled"

	// LectureActive is an internal synonym accepted by manual registration
	// paths (see spec Open Question "active vs in-progress"). The event
	// engine itself never writes this value; it only ever emits
	// LectureInProgress. Callers that register a lecture directly against
	// the RTC core's lecture lookup (bypassing the event engine) may still
	// use it, and it is treated as admissible wherever LectureInProgress is.
	LectureActive LectureStatus = "active"
)

// Lecture is persisted. StartTime is set exactly once, on the
// scheduled/delayed -> in-progress transition. EndTime is set exactly once,
// on the in-progress -> completed transition. Neither is ever cleared.
type Lecture struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Date            string        `json:"date"`
	RoomID          string        `json:"roomId"`
	Type            string        `json:"type"`
	Status          LectureStatus `json:"status"`
	TeacherID       string        `json:"teacherId"`
	CreatedBy       string        `json:"createdBy"`
	Description     string        `json:"description,omitempty"`
	MaxParticipants *int          `json:"maxParticipants,omitempty"`
	StartTime       *time.Time    `json:"startTime,omitempty"`
	EndTime         *time.Time    `json:"endTime,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// allowedTransitions is the closed lecture status state machine of spec §4.2.
var allowedTransitions = map[LectureStatus][]LectureStatus{
	LectureScheduled:  {LectureInProgress, LectureCancelled, LectureDelayed},
	LectureDelayed:    {LectureInProgress, LectureCancelled},
	LectureInProgress: {LectureCompleted, LectureCancelled},
	LectureCompleted:  nil,
	LectureCancelled:  nil,
}

// CanTransition reports whether from -> to is an allowed lecture status
// transition.
func CanTransition(from, to LectureStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsAdmissibleStatus reports whether a lecture status gates a room open for
// joining (spec §4.3.1 and the "active" synonym of §9).
func IsAdmissibleStatus(s LectureStatus) bool {
	return s == LectureInProgress || s == LectureActive
}
