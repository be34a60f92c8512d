package handler

import (
	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/mileusna/useragent"
)

// deviceLabel condenses the User-Agent header into a short device tag
// stored on session-start markers.
func deviceLabel(c *gin.Context) string {
	ua := useragent.Parse(c.GetHeader("User-Agent"))
	if ua.Name == "" {
		return "unknown"
	}
	label := ua.Name
	if ua.OS != "" {
		label += " / " + ua.OS
	}
	if ua.Mobile {
		label += " (mobile)"
	}
	return label
}

// StartCounterHandler opens a dhikr counter session (Idle -> Active).
func StartCounterHandler(c *gin.Context, counterService *usecase.CounterService) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("validation", "invalid_session_request")
		utils.BadRequest(c, "Invalid request")
		return
	}

	session, err := counterService.Start(c.Request.Context(), userID, req.DhikrName, req.Target, deviceLabel(c))
	if err != nil {
		respondError(c, err, "Failed to start counter session")
		return
	}
	utils.Created(c, session)
}

// IncrementCounterHandler records one tap on the active session.
func IncrementCounterHandler(c *gin.Context, counterService *usecase.CounterService) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, completed, err := counterService.Increment(c.Request.Context(), userID, requestLocation(c))
	if err != nil {
		respondError(c, err, "Failed to increment counter")
		return
	}
	utils.Success(c, gin.H{"count": count, "completed": completed})
}

// CompleteCounterHandler explicitly completes an open-ended session and
// credits its count to the user's stats.
func CompleteCounterHandler(c *gin.Context, counterService *usecase.CounterService) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := counterService.Complete(c.Request.Context(), userID, requestLocation(c)); err != nil {
		respondError(c, err, "Failed to complete counter session")
		return
	}

	state, session := counterService.Current(userID)
	utils.Success(c, dto.CounterResponse{State: string(state), Session: session})
}

// ResetCounterHandler abandons the session. The in-progress count is
// discarded without crediting anything.
func ResetCounterHandler(c *gin.Context, counterService *usecase.CounterService) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := counterService.Reset(userID); err != nil {
		respondError(c, err, "Failed to reset counter")
		return
	}
	utils.Success(c, gin.H{"message": "Counter reset"})
}

// GetCounterHandler reports the current session state.
func GetCounterHandler(c *gin.Context, counterService *usecase.CounterService) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	state, session := counterService.Current(userID)
	utils.Success(c, dto.CounterResponse{State: string(state), Session: session})
}
