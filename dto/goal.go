package dto

import "main/model"

type CreateGoalRequest struct {
	Type        model.ActivityType `json:"type" binding:"required,oneof=prayer dhikr quran dua"`
	Title       string             `json:"title" binding:"required,max=100"`
	Description string             `json:"description" binding:"max=500"`
	Target      int                `json:"target" binding:"required,gt=0"`
	Period      model.GoalPeriod   `json:"period" binding:"required,oneof=daily weekly monthly"`
}
