package model

import "time"

type GeoPoint struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// PrayerLog is an append-only audit record. It is written in the same
// atomic batch as the counter increments and never read back by the core.
type PrayerLog struct {
	LogID       string    `bson:"_id" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	PrayerName  string    `bson:"prayer_name" json:"prayer_name"`
	Date        string    `bson:"date" json:"date"` // YYYY-MM-DD, local to the user
	CompletedAt time.Time `bson:"completed_at" json:"completed_at"`
	Location    *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`
}
