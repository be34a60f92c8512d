package usecase

import (
	"context"
	"time"

	"main/model"
	"main/utils"

	"github.com/google/uuid"
)

// GoalStore is the goal-document slice of the remote store.
type GoalStore interface {
	// OpenDailyGoals returns the user's not-yet-completed daily goals of
	// the given type. Zero matches is a normal outcome.
	OpenDailyGoals(ctx context.Context, userID string, goalType model.ActivityType) ([]*model.Goal, error)
	// ApplyProgress adds amount to every listed goal in one batched write,
	// clamping current at target and recomputing is_completed.
	ApplyProgress(ctx context.Context, goalIDs []string, amount int) error
	CountUserGoals(ctx context.Context, userID string) (int64, error)
	CreateGoals(ctx context.Context, goals []*model.Goal) error
	ResetDailyGoals(ctx context.Context, userID string) error
}

type GoalService struct {
	Store GoalStore
	Now   func() time.Time
}

func (s *GoalService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ApplyGoalProgress advances every open daily goal matching goalType.
// The design does not assume a single open goal per type; all matches are
// updated in one batch. Zero matches is a no-op, not an error.
func (s *GoalService) ApplyGoalProgress(ctx context.Context, userID string, goalType model.ActivityType, amount int) error {
	if userID == "" {
		return Errorf(CodeInvalidArgument, "goals.apply", "user id is required")
	}
	if amount < 0 {
		return Errorf(CodeInvalidArgument, "goals.apply", "amount must be non-negative, got %d", amount)
	}
	if amount == 0 {
		return nil
	}

	goals, err := s.Store.OpenDailyGoals(ctx, userID, goalType)
	if err != nil {
		return E(CodeRemoteUnavailable, "goals.apply", err)
	}
	if len(goals) == 0 {
		return nil
	}

	ids := make([]string, 0, len(goals))
	for _, g := range goals {
		ids = append(ids, g.GoalID)
	}
	if err := s.Store.ApplyProgress(ctx, ids, amount); err != nil {
		return E(CodeRemoteUnavailable, "goals.apply", err)
	}

	utils.TrackGoalProgress(string(goalType))
	return nil
}

// EnsureDefaultGoals seeds the one-per-type daily goal set, but only for
// users with no goals at all. Existing users keep whatever they have.
func (s *GoalService) EnsureDefaultGoals(ctx context.Context, userID string) error {
	if userID == "" {
		return Errorf(CodeInvalidArgument, "goals.defaults", "user id is required")
	}

	count, err := s.Store.CountUserGoals(ctx, userID)
	if err != nil {
		return E(CodeRemoteUnavailable, "goals.defaults", err)
	}
	if count > 0 {
		return nil
	}

	now := s.now()
	defaults := []*model.Goal{
		{Type: model.ActivityPrayer, Title: "Daily Prayers", Description: "Complete all five daily prayers", Target: 5},
		{Type: model.ActivityDhikr, Title: "Daily Dhikr", Description: "Complete 100 dhikr repetitions", Target: 100},
		{Type: model.ActivityQuran, Title: "Quran Reading", Description: "Read Quran for 30 minutes", Target: 30},
		{Type: model.ActivityDua, Title: "Daily Duas", Description: "Recite 10 duas", Target: 10},
	}
	for _, g := range defaults {
		g.GoalID = uuid.New().String()
		g.UserID = userID
		g.Period = model.PeriodDaily
		g.CreatedAt = now
		g.UpdatedAt = now
	}

	if err := s.Store.CreateGoals(ctx, defaults); err != nil {
		return E(CodeRemoteUnavailable, "goals.defaults", err)
	}
	return nil
}

// ResetDailyGoals zeroes progress on all daily-period goals. Invoked by
// the external scheduler, never self-triggered.
func (s *GoalService) ResetDailyGoals(ctx context.Context, userID string) error {
	if userID == "" {
		return Errorf(CodeInvalidArgument, "goals.reset", "user id is required")
	}
	if err := s.Store.ResetDailyGoals(ctx, userID); err != nil {
		return E(CodeRemoteUnavailable, "goals.reset", err)
	}
	return nil
}
