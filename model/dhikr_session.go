package model

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// DhikrSession is the remote marker for a counter session. All writes to
// it are best-effort; the in-memory counter keeps working if they fail.
type DhikrSession struct {
	SessionID       string        `bson:"_id" json:"session_id"`
	UserID          string        `bson:"user_id" json:"user_id"`
	DhikrName       string        `bson:"dhikr_name" json:"dhikr_name"`
	Target          int           `bson:"target" json:"target"`
	Count           int           `bson:"count" json:"count"`
	Status          SessionStatus `bson:"status" json:"status"`
	DeviceInfo      string        `bson:"device_info,omitempty" json:"device_info,omitempty"`
	StartedAt       time.Time     `bson:"started_at" json:"started_at"`
	CompletedAt     *time.Time    `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	DurationSeconds int           `bson:"duration_seconds,omitempty" json:"duration_seconds,omitempty"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}
