package usecase

import (
	"context"
	"testing"
	"time"

	"main/model"
)

func TestApplyGoalProgressClampsAtTarget(t *testing.T) {
	store := newMemGoalStore()
	store.add(&model.Goal{
		GoalID:  "g1",
		UserID:  "user-1",
		Type:    model.ActivityDhikr,
		Target:  100,
		Current: 90,
		Period:  model.PeriodDaily,
	})
	svc := &GoalService{Store: store}

	if err := svc.ApplyGoalProgress(context.Background(), "user-1", model.ActivityDhikr, 50); err != nil {
		t.Fatalf("ApplyGoalProgress returned error: %v", err)
	}

	g := store.get("g1")
	if g.Current != 100 {
		t.Errorf("current = %d, want 100 (clamped at target)", g.Current)
	}
	if !g.IsCompleted {
		t.Error("goal should be marked completed at target")
	}
}

func TestApplyGoalProgressSkipsCompletedGoals(t *testing.T) {
	store := newMemGoalStore()
	store.add(&model.Goal{
		GoalID:      "done",
		UserID:      "user-1",
		Type:        model.ActivityPrayer,
		Target:      5,
		Current:     5,
		Period:      model.PeriodDaily,
		IsCompleted: true,
	})
	svc := &GoalService{Store: store}

	if err := svc.ApplyGoalProgress(context.Background(), "user-1", model.ActivityPrayer, 1); err != nil {
		t.Fatalf("ApplyGoalProgress returned error: %v", err)
	}
	if g := store.get("done"); g.Current != 5 {
		t.Errorf("completed goal advanced to %d, want 5", g.Current)
	}
}

func TestApplyGoalProgressNoMatchingGoalsIsNoop(t *testing.T) {
	svc := &GoalService{Store: newMemGoalStore()}
	if err := svc.ApplyGoalProgress(context.Background(), "user-1", model.ActivityQuran, 15); err != nil {
		t.Errorf("expected nil error with no matching goals, got %v", err)
	}
}

func TestApplyGoalProgressValidation(t *testing.T) {
	svc := &GoalService{Store: newMemGoalStore()}

	err := svc.ApplyGoalProgress(context.Background(), "", model.ActivityDhikr, 10)
	if !IsCode(err, CodeInvalidArgument) {
		t.Errorf("missing user id: got %v, want invalid_argument", err)
	}

	err = svc.ApplyGoalProgress(context.Background(), "user-1", model.ActivityDhikr, -3)
	if !IsCode(err, CodeInvalidArgument) {
		t.Errorf("negative amount: got %v, want invalid_argument", err)
	}

	if err := svc.ApplyGoalProgress(context.Background(), "user-1", model.ActivityDhikr, 0); err != nil {
		t.Errorf("zero amount should be a no-op, got %v", err)
	}
}

func TestEnsureDefaultGoalsSeedsOnlyEmptyUsers(t *testing.T) {
	store := newMemGoalStore()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := &GoalService{Store: store, Now: func() time.Time { return now }}

	if err := svc.EnsureDefaultGoals(context.Background(), "user-1"); err != nil {
		t.Fatalf("EnsureDefaultGoals returned error: %v", err)
	}

	count, _ := store.CountUserGoals(context.Background(), "user-1")
	if count != 4 {
		t.Fatalf("seeded %d goals, want 4", count)
	}

	targets := map[model.ActivityType]int{}
	for _, g := range store.goals {
		if g.Period != model.PeriodDaily {
			t.Errorf("goal %s period = %q, want daily", g.Type, g.Period)
		}
		targets[g.Type] = g.Target
	}
	want := map[model.ActivityType]int{
		model.ActivityPrayer: 5,
		model.ActivityDhikr:  100,
		model.ActivityQuran:  30,
		model.ActivityDua:    10,
	}
	for typ, target := range want {
		if targets[typ] != target {
			t.Errorf("%s target = %d, want %d", typ, targets[typ], target)
		}
	}

	// A second call must not duplicate the set.
	if err := svc.EnsureDefaultGoals(context.Background(), "user-1"); err != nil {
		t.Fatalf("second EnsureDefaultGoals returned error: %v", err)
	}
	count, _ = store.CountUserGoals(context.Background(), "user-1")
	if count != 4 {
		t.Errorf("goal count after repeat = %d, want 4", count)
	}
}

func TestEnsureDefaultGoalsLeavesExistingUsersAlone(t *testing.T) {
	store := newMemGoalStore()
	store.add(&model.Goal{
		GoalID: "custom",
		UserID: "user-1",
		Type:   model.ActivityQuran,
		Target: 60,
		Period: model.PeriodDaily,
	})
	svc := &GoalService{Store: store}

	if err := svc.EnsureDefaultGoals(context.Background(), "user-1"); err != nil {
		t.Fatalf("EnsureDefaultGoals returned error: %v", err)
	}
	count, _ := store.CountUserGoals(context.Background(), "user-1")
	if count != 1 {
		t.Errorf("goal count = %d, want 1 (no defaults for users with goals)", count)
	}
}

func TestResetDailyGoals(t *testing.T) {
	store := newMemGoalStore()
	store.add(&model.Goal{
		GoalID:      "g1",
		UserID:      "user-1",
		Type:        model.ActivityDhikr,
		Target:      100,
		Current:     100,
		Period:      model.PeriodDaily,
		IsCompleted: true,
	})
	svc := &GoalService{Store: store}

	if err := svc.ResetDailyGoals(context.Background(), "user-1"); err != nil {
		t.Fatalf("ResetDailyGoals returned error: %v", err)
	}
	g := store.get("g1")
	if g.Current != 0 || g.IsCompleted {
		t.Errorf("after reset current=%d completed=%v, want 0/false", g.Current, g.IsCompleted)
	}
}
