package handler

import (
	"strconv"
	"time"

	"main/model"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GetPrayerTimesHandler looks up prayer times for the given coordinates
// and date. Missing coordinates fall back to the configured default
// location instead of failing (degraded mode for denied geolocation).
func GetPrayerTimesHandler(c *gin.Context, prayerTimesService *services.PrayerTimesService) {
	date := c.Query("date")
	if date == "" {
		date = utils.DateKey(time.Now(), requestLocation(c))
	}

	var location *model.GeoPoint
	latStr, lonStr := c.Query("latitude"), c.Query("longitude")
	if latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil {
			utils.BadRequest(c, "Invalid coordinates")
			return
		}
		location = &model.GeoPoint{Latitude: lat, Longitude: lon}
	}

	times, err := prayerTimesService.GetTimes(c.Request.Context(), location, date)
	if err != nil {
		respondError(c, err, "Failed to load prayer times")
		return
	}
	utils.Success(c, times)
}
