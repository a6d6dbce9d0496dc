package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/classroomlive/server/internal/apperr"
	"github.com/classroomlive/server/pkg/response"
)

// writeError maps a closed apperr.Kind to the matching HTTP response.
func writeError(c *gin.Context, err error) {
	kind, ok := apperr.KindOf(err)
	if !ok {
		response.Internal(c, err.Error())
		return
	}
	switch kind {
	case apperr.KindEventNotFound, apperr.KindRoomNotFound, apperr.KindParticipantNotFound:
		response.NotFound(c, err.Error())
	case apperr.KindUnauthorized:
		response.Unauthorized(c, err.Error())
	case apperr.KindForbidden:
		response.Forbidden(c, err.Error())
	case apperr.KindEventValidationFailed, apperr.KindInvalidStatusTransition:
		response.BadRequest(c, err.Error())
	case apperr.KindRoomFull:
		response.Conflict(c, err.Error())
	case apperr.KindDatabaseReadError, apperr.KindDatabaseWriteError:
		response.ServiceUnavailable(c, err.Error())
	default:
		response.Internal(c, err.Error())
	}
}
