package handler

import (
	"time"

	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// currentUserID pulls the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return "", false
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		utils.Unauthorized(c, "Invalid user session")
		return "", false
	}
	return id, true
}

// requestLocation resolves the caller's timezone from the X-Timezone
// header. Daily boundaries follow this zone; absent or bad names mean UTC.
func requestLocation(c *gin.Context) *time.Location {
	return utils.ResolveLocation(c.GetHeader("X-Timezone"))
}

// respondError maps the engine's error taxonomy onto HTTP responses.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case usecase.IsCode(err, usecase.CodeInvalidArgument):
		utils.BadRequest(c, err.Error())
	case usecase.IsCode(err, usecase.CodeDocumentMissing):
		utils.NotFound(c, err.Error())
	case usecase.IsCode(err, usecase.CodeRemoteUnavailable):
		// The primary batch did not commit; the client owns retry.
		utils.ServiceUnavailable(c, "Service temporarily unavailable, please retry")
	case usecase.IsCode(err, usecase.CodePermissionDenied):
		utils.Forbidden(c, err.Error())
	default:
		utils.InternalError(c, fallback)
	}
}
