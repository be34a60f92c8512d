package model

import "time"

// PrayerTimes holds the named prayer timestamps for one date and location,
// as returned by the remote computation API.
type PrayerTimes struct {
	Date      string            `json:"date"` // YYYY-MM-DD
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Method    int               `json:"method"`
	Timings   map[string]string `json:"timings"` // e.g. "Fajr" -> "05:12"
	FetchedAt time.Time         `json:"fetched_at"`
}
