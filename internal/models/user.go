// Package models holds the data types shared across the store, the event
// engine, and the RTC core: Users, Rooms, Lectures, and the ephemeral
// Participant/RoomRuntime types that never touch disk.
package models

// Role is the three-way identity role carried on every connection.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// PresenceStatus is a user's coarse online state.
type PresenceStatus string

const (
	StatusOnline  PresenceStatus = "online"
	StatusAway    PresenceStatus = "away"
	StatusOffline PresenceStatus = "offline"
)

// User is the identity carried on each connection. The server treats Role
// as ground truth from the join payload; identity establishment happens
// upstream of this package.
type User struct {
	ID          string         `json:"id"`
	Username    string         `json:"username"`
	Role        Role           `json:"role"`
	Status      PresenceStatus `json:"status,omitempty"`
	DisplayName string         `json:"displayName,omitempty"`
	Email       string         `json:"email,omitempty"`
}

// CanStream reports whether a role is allowed to stream / screen-share.
func (r Role) CanStream() bool {
	return r == RoleTeacher || r == RoleAdmin
}
