package usecase

import "time"

const dateLayout = "2006-01-02"

// ComputeStreak derives the user's consecutive-active-days count from the
// last recorded activity date. Comparison is by calendar date only, in
// today's location, so time-of-day never matters.
//
// Calling it again on the same day with the same inputs returns the same
// value, so multiple activities in one day cannot double-credit a streak.
// A gap of two or more days, or a last-active date in the future (clock
// skew), resets the streak to 1.
func ComputeStreak(previousStreak int, lastActiveDate *time.Time, today time.Time) int {
	if lastActiveDate == nil {
		return 1
	}

	last := lastActiveDate.In(today.Location()).Format(dateLayout)
	switch last {
	case today.Format(dateLayout):
		// Already credited today. A zero previous streak still counts as
		// one active day: the counter write that set last_active_date may
		// land before the first streak derivation for a brand-new user.
		if previousStreak < 1 {
			return 1
		}
		return previousStreak
	case today.AddDate(0, 0, -1).Format(dateLayout):
		return previousStreak + 1
	default:
		return 1
	}
}
