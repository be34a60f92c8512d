package dto

import "main/model"

type RecordPrayerRequest struct {
	PrayerName string   `json:"prayer_name" binding:"required"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// Location returns the optional coordinates; both must be present.
func (r *RecordPrayerRequest) Location() *model.GeoPoint {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &model.GeoPoint{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type RecordDhikrRequest struct {
	Count int `json:"count" binding:"min=0"`
}

type RecordQuranRequest struct {
	Minutes int `json:"minutes" binding:"min=0"`
}

type RecordDuaRequest struct {
	// Count defaults to 1 when omitted.
	Count *int `json:"count,omitempty" binding:"omitempty,min=0"`
}

func (r *RecordDuaRequest) Amount() int {
	if r.Count == nil {
		return 1
	}
	return *r.Count
}

type DashboardResponse struct {
	Stats *model.UserStats  `json:"stats"`
	Today *model.DailyStats `json:"today,omitempty"`
	Goals []*model.Goal     `json:"goals"`
}
