package handler

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	"main/dto"
	"main/model"
	"main/repository"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GetDashboardHandler assembles the stats dashboard: lifetime stats,
// today's rollup and the goal list. First call for a new user creates the
// zeroed stats document and the default goal set.
func GetDashboardHandler(c *gin.Context, progressService *usecase.ProgressService, statsRepo *repository.StatsRepo, dailyRepo *repository.DailyStatsRepo, goalsRepo *repository.GoalsRepo) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := progressService.InitializeDashboard(ctx, userID); err != nil {
		respondError(c, err, "Failed to initialize dashboard")
		return
	}

	stats, err := statsRepo.GetUserStats(ctx, userID)
	if err != nil {
		respondError(c, err, "Failed to load stats")
		return
	}

	today := utils.DateKey(time.Now(), requestLocation(c))
	day, err := dailyRepo.GetDailyStats(ctx, userID, today)
	if err != nil {
		// The daily rollup is auxiliary; the dashboard still renders.
		log.Printf("failed to load daily stats for %s: %v", userID, err)
		day = nil
	}

	goals, err := goalsRepo.ListGoals(ctx, userID)
	if err != nil {
		respondError(c, err, "Failed to load goals")
		return
	}

	utils.Success(c, dto.DashboardResponse{Stats: stats, Today: day, Goals: goals})
}

// GetUserStatsHandler returns the lifetime stats document.
func GetUserStatsHandler(c *gin.Context, statsRepo *repository.StatsRepo) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := statsRepo.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load stats")
		return
	}
	if stats == nil {
		utils.NotFound(c, "No stats recorded yet")
		return
	}
	utils.Success(c, stats)
}

// GetDailyStatsHandler returns one day's rollup (default: today).
func GetDailyStatsHandler(c *gin.Context, dailyRepo *repository.DailyStatsRepo) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		date = utils.DateKey(time.Now(), requestLocation(c))
	}

	day, err := dailyRepo.GetDailyStats(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err, "Failed to load daily stats")
		return
	}
	if day == nil {
		utils.Success(c, &model.DailyStats{UserID: userID, Date: date, Activities: []model.Activity{}})
		return
	}
	utils.Success(c, day)
}

// GetWeeklyStatsHandler returns the last seven daily rollups.
func GetWeeklyStatsHandler(c *gin.Context, dailyRepo *repository.DailyStatsRepo) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	loc := requestLocation(c)
	now := time.Now()
	to := utils.DateKey(now, loc)
	from := utils.DateKey(now.AddDate(0, 0, -6), loc)

	days, err := dailyRepo.GetDateRange(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err, "Failed to load weekly stats")
		return
	}
	utils.Success(c, gin.H{"from": from, "to": to, "days": days})
}

// StreamStatsHandler pushes live stats updates over SSE, backed by the
// store's change stream. Updates from other devices can arrive out of
// causal order relative to this client's own writes.
func StreamStatsHandler(c *gin.Context, statsRepo *repository.StatsRepo) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	stream, err := statsRepo.WatchUserStats(ctx, userID)
	if err != nil {
		respondError(c, err, "Failed to open stats stream")
		return
	}
	defer stream.Close(ctx)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		if !stream.Next(ctx) {
			return false
		}
		var event struct {
			FullDocument model.UserStats `bson:"fullDocument"`
		}
		if err := stream.Decode(&event); err != nil {
			log.Printf("failed to decode stats change event: %v", err)
			return true
		}
		payload, err := json.Marshal(event.FullDocument)
		if err != nil {
			return true
		}
		c.SSEvent("stats", string(payload))
		return true
	})
}

// GetPrayerHistoryHandler returns recent prayer log entries.
func GetPrayerHistoryHandler(c *gin.Context, progressRepo *repository.ProgressRepo) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	logs, err := progressRepo.RecentPrayerLogs(c.Request.Context(), userID, 50)
	if err != nil {
		respondError(c, err, "Failed to load prayer history")
		return
	}
	utils.Success(c, gin.H{"logs": logs})
}
