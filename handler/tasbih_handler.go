package handler

import (
	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// TapTasbihHandler records one local tasbih tap. Taps only touch the
// local counters; nothing reaches the remote stats until save.
func TapTasbihHandler(c *gin.Context, tasbihService *usecase.TasbihService) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	daily, err := tasbihService.Tap(c.Request.Context(), userID, requestLocation(c))
	if err != nil {
		respondError(c, err, "Failed to record tap")
		return
	}
	utils.Success(c, gin.H{"daily_count": daily})
}

// GetTasbihHandler reports both local counters. The daily count and the
// remote dhikr_count_today are intentionally separate numbers.
func GetTasbihHandler(c *gin.Context, tasbihService *usecase.TasbihService) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	loc := requestLocation(c)
	daily, err := tasbihService.DailyCount(ctx, userID, loc)
	if err != nil {
		respondError(c, err, "Failed to load tasbih counts")
		return
	}
	session, err := tasbihService.SessionCount(ctx, userID)
	if err != nil {
		respondError(c, err, "Failed to load tasbih counts")
		return
	}
	utils.Success(c, dto.TasbihResponse{DailyCount: daily, SessionCount: session})
}

// SaveTasbihHandler credits the unsaved session count to the user's stats
// and clears the accumulator.
func SaveTasbihHandler(c *gin.Context, tasbihService *usecase.TasbihService) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	credited, err := tasbihService.SaveSession(c.Request.Context(), userID, requestLocation(c))
	if err != nil {
		respondError(c, err, "Failed to save tasbih session")
		return
	}
	utils.Success(c, gin.H{"credited": credited})
}

// ResetTasbihHandler discards the unsaved session count.
func ResetTasbihHandler(c *gin.Context, tasbihService *usecase.TasbihService) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := tasbihService.ResetSession(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Failed to reset tasbih session")
		return
	}
	utils.Success(c, gin.H{"message": "Session reset"})
}
