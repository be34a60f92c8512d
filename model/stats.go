package model

import "time"

// UserStats is the single authoritative progress document for a user.
// Lifetime counters only ever grow through atomic increments; the *_today
// snapshot fields are zeroed once per day by the external reset job.
type UserStats struct {
	UserID                string     `bson:"user_id" json:"user_id"`
	PrayersCompleted      int        `bson:"prayers_completed" json:"prayers_completed"`
	PrayersCompletedToday int        `bson:"prayers_completed_today" json:"prayers_completed_today"`
	DhikrCount            int        `bson:"dhikr_count" json:"dhikr_count"`
	DhikrCountToday       int        `bson:"dhikr_count_today" json:"dhikr_count_today"`
	QuranReadingTime      int        `bson:"quran_reading_time" json:"quran_reading_time"`
	QuranReadingTimeToday int        `bson:"quran_reading_time_today" json:"quran_reading_time_today"`
	TotalDuas             int        `bson:"total_duas" json:"total_duas"`
	DuasToday             int        `bson:"duas_today" json:"duas_today"`
	StreakDays            int        `bson:"streak_days" json:"streak_days"`
	LastActiveDate        *time.Time `bson:"last_active_date,omitempty" json:"last_active_date,omitempty"`
	LastUpdated           time.Time  `bson:"last_updated" json:"last_updated"`
	CreatedAt             time.Time  `bson:"created_at" json:"created_at"`
}
