package model

import (
	"fmt"
	"testing"
	"time"
)

func TestPrependActivity(t *testing.T) {
	t.Run("Newest entry goes to index 0", func(t *testing.T) {
		day := &DailyStats{UserID: "user-1", Date: "2026-08-30"}
		day.PrependActivity(Activity{ActivityID: "a1", Type: ActivityDhikr})
		day.PrependActivity(Activity{ActivityID: "a2", Type: ActivityPrayer})

		if len(day.Activities) != 2 {
			t.Fatalf("expected 2 activities, got %d", len(day.Activities))
		}
		if day.Activities[0].ActivityID != "a2" {
			t.Errorf("expected newest activity first, got %s", day.Activities[0].ActivityID)
		}
	})

	t.Run("Log is bounded at 50 entries", func(t *testing.T) {
		day := &DailyStats{UserID: "user-1", Date: "2026-08-30"}
		for i := 0; i < MaxDailyActivities; i++ {
			day.PrependActivity(Activity{
				ActivityID: fmt.Sprintf("a%d", i),
				Type:       ActivityDhikr,
				Timestamp:  time.Now(),
			})
		}
		if len(day.Activities) != MaxDailyActivities {
			t.Fatalf("expected %d activities, got %d", MaxDailyActivities, len(day.Activities))
		}

		// 51st append evicts the oldest (a0), keeps the newest at index 0.
		day.PrependActivity(Activity{ActivityID: "a50", Type: ActivityPrayer})

		if len(day.Activities) != MaxDailyActivities {
			t.Fatalf("expected %d activities after overflow, got %d", MaxDailyActivities, len(day.Activities))
		}
		if day.Activities[0].ActivityID != "a50" {
			t.Errorf("expected a50 at index 0, got %s", day.Activities[0].ActivityID)
		}
		last := day.Activities[len(day.Activities)-1].ActivityID
		if last != "a1" {
			t.Errorf("expected oldest surviving entry a1, got %s", last)
		}
	})
}
