package dto

import "main/model"

type StartSessionRequest struct {
	DhikrName string `json:"dhikr_name" binding:"required,max=200"`
	// Target 0 means an open-ended session completed explicitly.
	Target int `json:"target" binding:"min=0"`
}

type CounterResponse struct {
	State   string              `json:"state"`
	Session *model.DhikrSession `json:"session,omitempty"`
}

type TasbihResponse struct {
	DailyCount   int64 `json:"daily_count"`
	SessionCount int64 `json:"session_count"`
}
