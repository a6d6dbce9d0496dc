package store

import (
	"time"

	"github.com/classroomlive/server/internal/models"
)

// Document is the single-file JSON shape persisted to disk (spec §6.3).
type Document struct {
	Rooms    []models.Room    `json:"rooms"`
	Lectures []models.Lecture `json:"lectures"`
}

func (d *Document) clone() *Document {
	rooms := make([]models.Room, len(d.Rooms))
	copy(rooms, d.Rooms)
	lectures := make([]models.Lecture, len(d.Lectures))
	copy(lectures, d.Lectures)
	return &Document{Rooms: rooms, Lectures: lectures}
}

// DefaultRoomID is the stable id seeded when no store file exists yet
// (spec §6.3).
const DefaultRoomID = "test-room-1"

func seedDocument() *Document {
	now := time.Now().UTC()
	return &Document{
		Rooms: []models.Room{
			{
				ID:        DefaultRoomID,
				Name:      "Default Room",
				Capacity:  30,
				Status:    models.RoomAvailable,
				Features:  models.DefaultRoomFeatures(),
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		Lectures: []models.Lecture{},
	}
}
