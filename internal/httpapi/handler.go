// Package httpapi exposes the Gateway façade over HTTP: lecture scheduling
// and room provisioning endpoints, guarded by the JWT middleware upstream.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/classroomlive/server/internal/events"
	"github.com/classroomlive/server/internal/gateway"
	"github.com/classroomlive/server/internal/middleware"
	"github.com/classroomlive/server/internal/models"
	"github.com/classroomlive/server/internal/rooms"
	"github.com/classroomlive/server/pkg/response"
)

// Handler adapts the Gateway to gin routes.
type Handler struct {
	gw *gateway.Gateway
}

// NewHandler builds a Handler.
func NewHandler(gw *gateway.Gateway) *Handler {
	return &Handler{gw: gw}
}

func callerFrom(c *gin.Context) models.User {
	id, _ := c.Get(middleware.ContextUserID)
	role, _ := c.Get(middleware.ContextUserRole)
	userID, _ := id.(string)
	userRole, _ := role.(models.Role)
	return models.User{ID: userID, Role: userRole}
}

// CreateEventRequest is the body for POST /events.
type CreateEventRequest struct {
	Name            string `json:"name" binding:"required"`
	Date            string `json:"date"`
	RoomID          string `json:"roomId" binding:"required"`
	TeacherID       string `json:"teacherId" binding:"required"`
	Description     string `json:"description"`
	MaxParticipants *int   `json:"maxParticipants"`
}

// CreateEvent handles POST /events.
func (h *Handler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	caller := callerFrom(c)
	lecture, err := h.gw.CreateEvent(caller, events.CreateEventOptions{
		Name:            req.Name,
		Date:            req.Date,
		RoomID:          req.RoomID,
		TeacherID:       req.TeacherID,
		CreatedBy:       caller.ID,
		Description:     req.Description,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, lecture)
}

// GetEvent handles GET /events/:id.
func (h *Handler) GetEvent(c *gin.Context) {
	lecture, err := h.gw.GetEvent(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, lecture)
}

// ListEvents handles GET /events.
func (h *Handler) ListEvents(c *gin.Context) {
	filter := events.ListFilter{
		RoomID:    c.Query("roomId"),
		TeacherID: c.Query("teacherId"),
		Status:    models.LectureStatus(c.Query("status")),
	}
	response.OK(c, h.gw.ListEvents(filter))
}

// UpdateEventRequest is the body for PATCH /events/:id.
type UpdateEventRequest struct {
	Name            *string `json:"name"`
	Date            *string `json:"date"`
	Description     *string `json:"description"`
	MaxParticipants **int   `json:"maxParticipants"`
}

// UpdateEvent handles PATCH /events/:id.
func (h *Handler) UpdateEvent(c *gin.Context) {
	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	lecture, err := h.gw.UpdateEvent(callerFrom(c), c.Param("id"), events.UpdatePatch{
		Name:            req.Name,
		Date:            req.Date,
		Description:     req.Description,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, lecture)
}

// CancelEvent handles DELETE /events/:id.
func (h *Handler) CancelEvent(c *gin.Context) {
	lecture, err := h.gw.CancelEvent(callerFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, lecture)
}

// UpdateStatusRequest is the body for PATCH /events/:id/status.
type UpdateStatusRequest struct {
	Status models.LectureStatus `json:"status" binding:"required"`
}

// UpdateEventStatus handles PATCH /events/:id/status.
func (h *Handler) UpdateEventStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	lecture, err := h.gw.UpdateEventStatus(callerFrom(c), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, lecture)
}

// CreateRoomRequest is the body for POST /rooms.
type CreateRoomRequest struct {
	Name     string              `json:"name" binding:"required"`
	Capacity int                 `json:"capacity"`
	Features *models.RoomFeatures `json:"features"`
}

// CreateRoom handles POST /rooms.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	room, err := h.gw.CreateRoom(callerFrom(c), rooms.CreateRoomOptions{
		Name:     req.Name,
		Capacity: req.Capacity,
		Features: req.Features,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, room)
}

// GetRoom handles GET /rooms/:id.
func (h *Handler) GetRoom(c *gin.Context) {
	room, err := h.gw.GetRoom(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, room)
}

// ListRooms handles GET /rooms.
func (h *Handler) ListRooms(c *gin.Context) {
	response.OK(c, h.gw.ListRooms())
}
