package usecase

import (
	"context"
	"testing"
	"time"
)

func newTestTasbihService(now time.Time) (*TasbihService, *memKVCache, *memRecorder) {
	cache := newMemKVCache()
	recorder := &memRecorder{}
	svc := &TasbihService{
		Cache:    cache,
		Recorder: recorder,
		Now:      func() time.Time { return now },
	}
	return svc, cache, recorder
}

func TestTasbihTapAdvancesBothCounters(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	svc, _, recorder := newTestTasbihService(now)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		daily, err := svc.Tap(ctx, "user-1", time.UTC)
		if err != nil {
			t.Fatalf("Tap %d returned error: %v", i, err)
		}
		if daily != int64(i) {
			t.Errorf("daily after tap %d = %d, want %d", i, daily, i)
		}
	}

	session, err := svc.SessionCount(ctx, "user-1")
	if err != nil {
		t.Fatalf("SessionCount returned error: %v", err)
	}
	if session != 5 {
		t.Errorf("session count = %d, want 5", session)
	}
	if recorder.total() != 0 {
		t.Errorf("taps alone credited %d to the aggregator, want 0", recorder.total())
	}
}

func TestTasbihSaveCreditsAndClearsSessionOnly(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	svc, _, recorder := newTestTasbihService(now)
	ctx := context.Background()

	for i := 0; i < 33; i++ {
		if _, err := svc.Tap(ctx, "user-1", time.UTC); err != nil {
			t.Fatalf("Tap returned error: %v", err)
		}
	}

	saved, err := svc.SaveSession(ctx, "user-1", time.UTC)
	if err != nil {
		t.Fatalf("SaveSession returned error: %v", err)
	}
	if saved != 33 {
		t.Errorf("saved = %d, want 33", saved)
	}
	if recorder.total() != 33 {
		t.Errorf("credited = %d, want 33", recorder.total())
	}

	session, _ := svc.SessionCount(ctx, "user-1")
	if session != 0 {
		t.Errorf("session count after save = %d, want 0", session)
	}
	daily, _ := svc.DailyCount(ctx, "user-1", time.UTC)
	if daily != 33 {
		t.Errorf("daily count after save = %d, want 33 untouched", daily)
	}
}

// tapDuringCreditRecorder issues one extra tap while the save's credit is
// in flight, like a second device tapping mid-save.
type tapDuringCreditRecorder struct {
	svc     *TasbihService
	credits []int
}

func (r *tapDuringCreditRecorder) RecordDhikrCount(ctx context.Context, userID string, count int, tz *time.Location) error {
	r.credits = append(r.credits, count)
	_, err := r.svc.Tap(ctx, userID, tz)
	return err
}

func TestTasbihSaveKeepsTapsLandedDuringCredit(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newTestTasbihService(now)
	recorder := &tapDuringCreditRecorder{svc: svc}
	svc.Recorder = recorder
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Tap(ctx, "user-1", time.UTC); err != nil {
			t.Fatalf("Tap returned error: %v", err)
		}
	}

	saved, err := svc.SaveSession(ctx, "user-1", time.UTC)
	if err != nil {
		t.Fatalf("SaveSession returned error: %v", err)
	}
	if saved != 5 {
		t.Errorf("saved = %d, want 5", saved)
	}
	if len(recorder.credits) != 1 || recorder.credits[0] != 5 {
		t.Errorf("credits = %v, want [5]", recorder.credits)
	}

	// The tap that landed mid-save survives for the next save instead of
	// being wiped with the credited amount.
	session, err := svc.SessionCount(ctx, "user-1")
	if err != nil {
		t.Fatalf("SessionCount returned error: %v", err)
	}
	if session != 1 {
		t.Errorf("session count after save = %d, want 1", session)
	}
	daily, _ := svc.DailyCount(ctx, "user-1", time.UTC)
	if daily != 6 {
		t.Errorf("daily count = %d, want 6", daily)
	}
}

func TestTasbihSaveEmptySessionIsNoop(t *testing.T) {
	svc, _, recorder := newTestTasbihService(time.Now())

	saved, err := svc.SaveSession(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("SaveSession returned error: %v", err)
	}
	if saved != 0 || recorder.total() != 0 {
		t.Errorf("empty save: saved=%d credited=%d, want 0/0", saved, recorder.total())
	}
}

func TestTasbihResetDiscardsSessionWithoutCredit(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	svc, _, recorder := newTestTasbihService(now)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, err := svc.Tap(ctx, "user-1", time.UTC); err != nil {
			t.Fatalf("Tap returned error: %v", err)
		}
	}
	if err := svc.ResetSession(ctx, "user-1"); err != nil {
		t.Fatalf("ResetSession returned error: %v", err)
	}

	session, _ := svc.SessionCount(ctx, "user-1")
	if session != 0 {
		t.Errorf("session count after reset = %d, want 0", session)
	}
	if recorder.total() != 0 {
		t.Errorf("reset credited %d, want 0", recorder.total())
	}
	daily, _ := svc.DailyCount(ctx, "user-1", time.UTC)
	if daily != 10 {
		t.Errorf("daily count after reset = %d, want 10", daily)
	}
}

func TestTasbihDailyCountRollsOverByDate(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 23, 50, 0, 0, time.UTC)
	svc, cache, _ := newTestTasbihService(day1)
	ctx := context.Background()

	if _, err := svc.Tap(ctx, "user-1", time.UTC); err != nil {
		t.Fatalf("Tap returned error: %v", err)
	}

	// Same cache, next calendar day: the daily key changes, the session
	// accumulator carries over.
	svc2 := &TasbihService{
		Cache:    cache,
		Recorder: &memRecorder{},
		Now:      func() time.Time { return day1.Add(20 * time.Minute) },
	}
	daily, err := svc2.DailyCount(ctx, "user-1", time.UTC)
	if err != nil {
		t.Fatalf("DailyCount returned error: %v", err)
	}
	if daily != 0 {
		t.Errorf("daily count on new date = %d, want 0", daily)
	}
	session, _ := svc2.SessionCount(ctx, "user-1")
	if session != 1 {
		t.Errorf("session count on new date = %d, want 1", session)
	}
}

func TestTasbihValidation(t *testing.T) {
	svc, _, _ := newTestTasbihService(time.Now())
	ctx := context.Background()

	if _, err := svc.Tap(ctx, "", nil); !IsCode(err, CodeInvalidArgument) {
		t.Errorf("Tap: got %v, want invalid_argument", err)
	}
	if _, err := svc.SaveSession(ctx, "", nil); !IsCode(err, CodeInvalidArgument) {
		t.Errorf("SaveSession: got %v, want invalid_argument", err)
	}
	if err := svc.ResetSession(ctx, ""); !IsCode(err, CodeInvalidArgument) {
		t.Errorf("ResetSession: got %v, want invalid_argument", err)
	}
}
