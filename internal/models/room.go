package models

import "time"

// RoomStatus is the persisted lifecycle status of a Room.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomScheduled   RoomStatus = "scheduled"
	RoomMaintenance RoomStatus = "maintenance"
)

// RoomFeatures toggles the five optional capabilities a Room may expose.
type RoomFeatures struct {
	Video       bool `json:"video"`
	Audio       bool `json:"audio"`
	Chat        bool `json:"chat"`
	Whiteboard  bool `json:"whiteboard"`
	ScreenShare bool `json:"screenShare"`
}

// DefaultRoomFeatures matches RoomRegistry's defaults when a caller does not
// specify features explicitly.
func DefaultRoomFeatures() RoomFeatures {
	return RoomFeatures{Video: true, Audio: true, Chat: true, Whiteboard: false, ScreenShare: true}
}

// CurrentLectureSummary is the denormalized lecture snapshot a Room carries
// while a lecture is bound to it. Nil when no lecture is bound.
type CurrentLectureSummary struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	TeacherID string         `json:"teacherId"`
	Status    LectureStatus  `json:"status"`
}

// Room is persisted. Participants are never part of this struct: they live
// only in RTC core memory (see RoomRuntime).
type Room struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	Capacity        int                     `json:"capacity"`
	Status          RoomStatus              `json:"status"`
	Features        RoomFeatures            `json:"features"`
	CurrentLecture  *CurrentLectureSummary  `json:"currentLecture"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}
