package handler

import (
	"crypto/subtle"

	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// RecordPrayerHandler credits one completed prayer for the current user.
func RecordPrayerHandler(c *gin.Context, progressService *usecase.ProgressService) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.RecordPrayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("validation", "invalid_prayer_request")
		utils.BadRequest(c, "Invalid request")
		return
	}

	err := progressService.RecordPrayerCompletion(c.Request.Context(), userID, req.PrayerName, req.Location(), requestLocation(c))
	if err != nil {
		respondError(c, err, "Failed to record prayer")
		return
	}

	utils.Success(c, gin.H{"message": "Prayer recorded"})
}

// RecordDhikrHandler credits a batch of dhikr repetitions.
func RecordDhikrHandler(c *gin.Context, progressService *usecase.ProgressService) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.RecordDhikrRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("validation", "invalid_dhikr_request")
		utils.BadRequest(c, "Invalid request")
		return
	}

	err := progressService.RecordDhikrCount(c.Request.Context(), userID, req.Count, requestLocation(c))
	if err != nil {
		respondError(c, err, "Failed to record dhikr")
		return
	}

	utils.Success(c, gin.H{"message": "Dhikr recorded"})
}

// RecordQuranHandler credits minutes of Quran reading.
func RecordQuranHandler(c *gin.Context, progressService *usecase.ProgressService) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.RecordQuranRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("validation", "invalid_quran_request")
		utils.BadRequest(c, "Invalid request")
		return
	}

	err := progressService.RecordQuranMinutes(c.Request.Context(), userID, req.Minutes, requestLocation(c))
	if err != nil {
		respondError(c, err, "Failed to record reading time")
		return
	}

	utils.Success(c, gin.H{"message": "Reading time recorded"})
}

// RecordDuaHandler credits recited duas (default one).
func RecordDuaHandler(c *gin.Context, progressService *usecase.ProgressService) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.RecordDuaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("validation", "invalid_dua_request")
		utils.BadRequest(c, "Invalid request")
		return
	}

	err := progressService.RecordDuaCount(c.Request.Context(), userID, req.Amount(), requestLocation(c))
	if err != nil {
		respondError(c, err, "Failed to record dua")
		return
	}

	utils.Success(c, gin.H{"message": "Dua recorded"})
}

// ResetDailyHandler zeroes today's counters and daily goals for one user.
// Called by the external scheduler at local midnight, never by clients.
func ResetDailyHandler(c *gin.Context, progressService *usecase.ProgressService) {
	key := utils.GetEnvAsString("INTERNAL_API_KEY", "")
	if key == "" || subtle.ConstantTimeCompare([]byte(c.GetHeader("X-Internal-Key")), []byte(key)) != 1 {
		utils.Forbidden(c, "Forbidden")
		return
	}

	userID := c.Param("userId")
	if err := progressService.ResetDaily(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Failed to reset daily counters")
		return
	}

	utils.Success(c, gin.H{"message": "Daily counters reset"})
}
