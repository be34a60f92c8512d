package model

import "time"

type GoalPeriod string

const (
	PeriodDaily   GoalPeriod = "daily"
	PeriodWeekly  GoalPeriod = "weekly"
	PeriodMonthly GoalPeriod = "monthly"
)

type Goal struct {
	GoalID      string       `bson:"_id" json:"id"`
	UserID      string       `bson:"user_id" json:"user_id"`
	Type        ActivityType `bson:"type" json:"type"`
	Title       string       `bson:"title" json:"title" binding:"required"`
	Description string       `bson:"description" json:"description"`
	Target      int          `bson:"target" json:"target"`
	Current     int          `bson:"current" json:"current"`
	Period      GoalPeriod   `bson:"period" json:"period"`
	IsCompleted bool         `bson:"is_completed" json:"is_completed"`
	CreatedAt   time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `bson:"updated_at" json:"updated_at"`
}

// Apply adds amount of progress, clamping at the target. IsCompleted is
// kept consistent with current/target. This mirrors the aggregation
// pipeline update the Mongo repository runs per matched goal.
func (g *Goal) Apply(amount int) {
	g.Current += amount
	if g.Current > g.Target {
		g.Current = g.Target
	}
	g.IsCompleted = g.Current >= g.Target
}
