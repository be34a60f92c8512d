package handler

import (
	"main/dto"
	"main/repository"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func LoginHandler(c *gin.Context, userRepo *repository.UserRepo) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("auth", "invalid_request")
		utils.TrackAuthAttempt("failure", "validation")
		utils.BadRequest(c, "Invalid request")
		return
	}

	user, err := userRepo.FindUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		utils.TrackError("auth", "user_lookup")
		utils.TrackAuthAttempt("failure", "user_lookup")
		utils.Unauthorized(c, "Invalid username")
		return
	}
	if user == nil {
		utils.TrackAuthAttempt("failure", "user_not_found")
		utils.Unauthorized(c, "Invalid username")
		return
	}

	match, err := services.VerifyPassword(user.Password, req.Password)
	if err != nil || !match {
		utils.TrackAuthAttempt("failure", "invalid_password")
		utils.Unauthorized(c, "Incorrect password")
		return
	}

	token, err := services.GenerateJWT(user.UserID)
	if err != nil {
		utils.TrackError("auth", "token_generation")
		utils.InternalError(c, "Failed to generate token")
		return
	}
	refresh, err := services.GenerateRefreshToken(user.UserID)
	if err != nil {
		utils.TrackError("auth", "token_generation")
		utils.InternalError(c, "Failed to generate token")
		return
	}

	utils.TrackAuthAttempt("success", "login")
	utils.Success(c, dto.TokenResponse{Token: token, RefreshToken: refresh, UserID: user.UserID})
}

// GetUserProfileHandler returns the authenticated user's profile.
func GetUserProfileHandler(c *gin.Context, userRepo *repository.UserRepo) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := userRepo.FindUser(c.Request.Context(), userID)
	if err != nil {
		utils.InternalError(c, "Failed to load profile")
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}
	utils.Success(c, user)
}
