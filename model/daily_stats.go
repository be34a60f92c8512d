package model

import "time"

type ActivityType string

const (
	ActivityPrayer ActivityType = "prayer"
	ActivityDhikr  ActivityType = "dhikr"
	ActivityQuran  ActivityType = "quran"
	ActivityDua    ActivityType = "dua"
)

// MaxDailyActivities bounds the per-day activity log. Overflow silently
// drops the oldest entries; it is never an error.
const MaxDailyActivities = 50

// Activity is an immutable log entry, only ever prepended to a DailyStats
// document (newest at index 0).
type Activity struct {
	ActivityID string            `bson:"activity_id" json:"activity_id"`
	Type       ActivityType      `bson:"type" json:"type"`
	Title      string            `bson:"title" json:"title"`
	Subtitle   string            `bson:"subtitle" json:"subtitle"`
	Timestamp  time.Time         `bson:"timestamp" json:"timestamp"`
	Metadata   map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// DailyStats is the per-user per-calendar-date rollup, keyed by
// user_id + date. A new document is used for each day; documents are
// never mutated after their day ends.
type DailyStats struct {
	UserID           string     `bson:"user_id" json:"user_id"`
	Date             string     `bson:"date" json:"date"` // YYYY-MM-DD, local to the user
	PrayersCompleted int        `bson:"prayers_completed" json:"prayers_completed"`
	DhikrCount       int        `bson:"dhikr_count" json:"dhikr_count"`
	QuranReadingTime int        `bson:"quran_reading_time" json:"quran_reading_time"`
	DuasRead         int        `bson:"duas_read" json:"duas_read"`
	Activities       []Activity `bson:"activities" json:"activities"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
}

// PrependActivity inserts a at the head of the activity log and truncates
// to MaxDailyActivities. This is the canonical in-memory form of the
// $push/$position/$slice update the Mongo repository issues.
func (d *DailyStats) PrependActivity(a Activity) {
	activities := make([]Activity, 0, len(d.Activities)+1)
	activities = append(activities, a)
	activities = append(activities, d.Activities...)
	if len(activities) > MaxDailyActivities {
		activities = activities[:MaxDailyActivities]
	}
	d.Activities = activities
}
