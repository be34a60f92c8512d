package handler

import (
	"time"

	"main/dto"
	"main/model"
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListGoalsHandler returns all of the user's goals.
func ListGoalsHandler(c *gin.Context, goalsRepo *repository.GoalsRepo) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	goals, err := goalsRepo.ListGoals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load goals")
		return
	}
	utils.Success(c, gin.H{"goals": goals})
}

// CreateGoalHandler adds a custom goal alongside the defaults.
func CreateGoalHandler(c *gin.Context, goalsRepo *repository.GoalsRepo) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("validation", "invalid_goal_request")
		utils.BadRequest(c, "Invalid request")
		return
	}

	now := time.Now()
	goal := &model.Goal{
		GoalID:      uuid.New().String(),
		UserID:      userID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
		Period:      req.Period,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := goalsRepo.CreateGoal(c.Request.Context(), goal); err != nil {
		respondError(c, err, "Failed to create goal")
		return
	}
	utils.Created(c, goal)
}
