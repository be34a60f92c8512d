package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"main/model"
	"main/utils"

	"github.com/google/uuid"
)

// DefaultRemoteTimeout bounds every primary remote operation. Exceeding it
// surfaces CodeRemoteUnavailable instead of hanging the caller.
const DefaultRemoteTimeout = 10 * time.Second

// ProgressDelta is one activity event: a type, a magnitude and the local
// calendar date it lands on. The store must apply it with additive
// increments only, never read-modify-write, so concurrent deltas commute.
type ProgressDelta struct {
	UserID     string
	Type       model.ActivityType
	Amount     int
	PrayerName string
	Location   *model.GeoPoint
	Date       string // YYYY-MM-DD in the user's timezone
	OccurredAt time.Time
}

// ProgressStore commits the primary batch: the UserStats increments, the
// DailyStats upsert-increment and (for prayers) the PrayerLog append,
// all-or-nothing.
type ProgressStore interface {
	CommitProgress(ctx context.Context, delta ProgressDelta) error
}

type StatsStore interface {
	// GetUserStats returns (nil, nil) when the user has no stats document.
	GetUserStats(ctx context.Context, userID string) (*model.UserStats, error)
	EnsureUserStats(ctx context.Context, userID string) error
	SetStreak(ctx context.Context, userID string, days int, at time.Time) error
	ResetDailyCounters(ctx context.Context, userID string) error
}

type ActivityStore interface {
	AppendActivity(ctx context.Context, userID, date string, activity model.Activity) error
}

// GoalUpdater is the goal-progress side of the engine; implemented by
// GoalService.
type GoalUpdater interface {
	ApplyGoalProgress(ctx context.Context, userID string, goalType model.ActivityType, amount int) error
	EnsureDefaultGoals(ctx context.Context, userID string) error
	ResetDailyGoals(ctx context.Context, userID string) error
}

// ProgressService is the progress aggregation engine. All collaborators
// are injected so tests can substitute fakes; there is no ambient state.
type ProgressService struct {
	Progress   ProgressStore
	Stats      StatsStore
	Activities ActivityStore
	Goals      GoalUpdater
	Tasks      *TaskRunner
	Timeout    time.Duration
	Now        func() time.Time
}

func (s *ProgressService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ProgressService) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultRemoteTimeout
}

// RecordPrayerCompletion credits one completed prayer. The prayer log entry
// rides in the same atomic batch as the counter increments.
func (s *ProgressService) RecordPrayerCompletion(ctx context.Context, userID, prayerName string, location *model.GeoPoint, tz *time.Location) error {
	if prayerName == "" {
		return Errorf(CodeInvalidArgument, "progress.prayer", "prayer name is required")
	}
	return s.record(ctx, ProgressDelta{
		UserID:     userID,
		Type:       model.ActivityPrayer,
		Amount:     1,
		PrayerName: prayerName,
		Location:   location,
	}, tz)
}

// RecordDhikrCount credits a batch of dhikr repetitions, typically flushed
// from a completed counter session.
func (s *ProgressService) RecordDhikrCount(ctx context.Context, userID string, count int, tz *time.Location) error {
	return s.record(ctx, ProgressDelta{
		UserID: userID,
		Type:   model.ActivityDhikr,
		Amount: count,
	}, tz)
}

// RecordQuranMinutes credits minutes of Quran reading.
func (s *ProgressService) RecordQuranMinutes(ctx context.Context, userID string, minutes int, tz *time.Location) error {
	return s.record(ctx, ProgressDelta{
		UserID: userID,
		Type:   model.ActivityQuran,
		Amount: minutes,
	}, tz)
}

// RecordDuaCount credits recited duas.
func (s *ProgressService) RecordDuaCount(ctx context.Context, userID string, count int, tz *time.Location) error {
	return s.record(ctx, ProgressDelta{
		UserID: userID,
		Type:   model.ActivityDua,
		Amount: count,
	}, tz)
}

func (s *ProgressService) record(ctx context.Context, delta ProgressDelta, tz *time.Location) error {
	op := "progress." + string(delta.Type)
	if delta.UserID == "" {
		return Errorf(CodeInvalidArgument, op, "user id is required")
	}
	if delta.Amount < 0 {
		return Errorf(CodeInvalidArgument, op, "amount must be non-negative, got %d", delta.Amount)
	}

	now := s.now()
	delta.OccurredAt = now
	delta.Date = utils.DateKey(now, tz)

	cctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	if err := s.Progress.CommitProgress(cctx, delta); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return E(CodeRemoteUnavailable, op, err)
		}
		if IsCode(err, CodeRemoteUnavailable) || IsCode(err, CodeInvalidArgument) {
			return err
		}
		return E(CodeRemoteUnavailable, op, err)
	}

	utils.TrackProgressEvent(string(delta.Type))

	// Secondary effects. Best-effort, unordered, never rolled into the
	// primary result: the user's "did it count?" signal depends only on
	// the batch that already committed.
	activity := buildActivity(delta)
	userID, date, goalType, amount := delta.UserID, delta.Date, delta.Type, delta.Amount
	s.Tasks.Submit("activity_append", func(ctx context.Context) error {
		return s.Activities.AppendActivity(ctx, userID, date, activity)
	})
	s.Tasks.Submit("goal_progress", func(ctx context.Context) error {
		return s.Goals.ApplyGoalProgress(ctx, userID, goalType, amount)
	})
	s.Tasks.Submit("streak_refresh", func(ctx context.Context) error {
		return s.RefreshStreak(ctx, userID, tz)
	})

	return nil
}

// RefreshStreak re-derives streak_days from last_active_date. It reads
// current stats before writing and is deliberately not atomic with the
// counter increments; streak correctness depends only on date transitions.
func (s *ProgressService) RefreshStreak(ctx context.Context, userID string, tz *time.Location) error {
	if userID == "" {
		return Errorf(CodeInvalidArgument, "progress.streak", "user id is required")
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	stats, err := s.Stats.GetUserStats(cctx, userID)
	if err != nil {
		return E(CodeRemoteUnavailable, "progress.streak", err)
	}
	if stats == nil {
		// No activity has ever been recorded; nothing to derive.
		return nil
	}

	today := s.now()
	if tz != nil {
		today = today.In(tz)
	}
	streak := ComputeStreak(stats.StreakDays, stats.LastActiveDate, today)
	if streak == stats.StreakDays {
		return nil
	}

	if err := s.Stats.SetStreak(cctx, userID, streak, s.now()); err != nil {
		return E(CodeRemoteUnavailable, "progress.streak", err)
	}
	utils.TrackStreakUpdate()
	return nil
}

// InitializeDashboard makes sure the user's stats document and default
// goal set exist. Called on first dashboard load after sign-in.
func (s *ProgressService) InitializeDashboard(ctx context.Context, userID string) error {
	if userID == "" {
		return Errorf(CodeInvalidArgument, "progress.init", "user id is required")
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	if err := s.Stats.EnsureUserStats(cctx, userID); err != nil {
		return E(CodeRemoteUnavailable, "progress.init", err)
	}
	if err := s.Goals.EnsureDefaultGoals(cctx, userID); err != nil {
		return err
	}
	return nil
}

// ResetDaily zeroes the *_today counters and daily goal progress. The
// external scheduler invokes this at the user's local midnight; the engine
// never self-triggers it.
func (s *ProgressService) ResetDaily(ctx context.Context, userID string) error {
	if userID == "" {
		return Errorf(CodeInvalidArgument, "progress.reset", "user id is required")
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	if err := s.Stats.ResetDailyCounters(cctx, userID); err != nil {
		return E(CodeRemoteUnavailable, "progress.reset", err)
	}
	return s.Goals.ResetDailyGoals(cctx, userID)
}

func buildActivity(delta ProgressDelta) model.Activity {
	activity := model.Activity{
		ActivityID: uuid.New().String(),
		Type:       delta.Type,
		Timestamp:  delta.OccurredAt,
	}
	switch delta.Type {
	case model.ActivityPrayer:
		activity.Title = "Prayer Completed"
		activity.Subtitle = fmt.Sprintf("%s prayer completed", delta.PrayerName)
		activity.Metadata = map[string]string{"prayer": delta.PrayerName}
	case model.ActivityDhikr:
		activity.Title = "Dhikr Session"
		activity.Subtitle = fmt.Sprintf("%d dhikr completed", delta.Amount)
	case model.ActivityQuran:
		activity.Title = "Quran Reading"
		activity.Subtitle = fmt.Sprintf("%d minutes read", delta.Amount)
	case model.ActivityDua:
		activity.Title = "Dua Recited"
		activity.Subtitle = fmt.Sprintf("%d duas read", delta.Amount)
	}
	return activity
}
