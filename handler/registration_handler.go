package handler

import (
	"time"

	"main/dto"
	"main/model"
	"main/repository"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func RegistrationHandler(c *gin.Context, userRepo *repository.UserRepo) {
	var req dto.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("validation", "invalid_registration_request")
		utils.TrackAuthAttempt("failure", "registration")
		utils.BadRequest(c, "Invalid request")
		return
	}

	ctx := c.Request.Context()
	existing, err := userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		utils.InternalError(c, "Failed to check username")
		return
	}
	if existing != nil {
		utils.Conflict(c, "Username already taken")
		return
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		utils.TrackError("auth", "password_hash_failed")
		utils.BadRequest(c, err.Error())
		return
	}

	user := &model.User{
		UserID:    utils.GenerateUserID(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashed,
		CreatedAt: time.Now(),
	}

	if err := userRepo.AddUser(ctx, user); err != nil {
		utils.TrackAuthAttempt("failure", "registration")
		utils.InternalError(c, "Failed to create user")
		return
	}

	utils.TrackAuthAttempt("success", "registration")
	utils.Created(c, gin.H{"user_id": user.UserID, "username": user.Username})
}
