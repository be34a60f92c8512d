package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestCounterService(recorder *memRecorder) (*CounterService, *memSessionStore, *TaskRunner) {
	sessions := newMemSessionStore()
	tasks := NewTaskRunner(1, 128, time.Second)
	svc := NewCounterService(sessions, recorder, tasks)
	return svc, sessions, tasks
}

func TestCounterLifecycle(t *testing.T) {
	recorder := &memRecorder{}
	svc, sessions, tasks := newTestCounterService(recorder)
	ctx := context.Background()

	if state, _ := svc.Current("user-1"); state != CounterIdle {
		t.Fatalf("initial state = %q, want idle", state)
	}

	session, err := svc.Start(ctx, "user-1", "SubhanAllah", 0, "iPhone")
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if session.SessionID == "" {
		t.Error("session id not assigned")
	}

	for i := 0; i < 3; i++ {
		if _, _, err := svc.Increment(ctx, "user-1", time.UTC); err != nil {
			t.Fatalf("Increment %d returned error: %v", i, err)
		}
	}
	if state, cur := svc.Current("user-1"); state != CounterActive || cur.Count != 3 {
		t.Fatalf("after taps: state=%q count=%d, want active/3", state, cur.Count)
	}

	if err := svc.Complete(ctx, "user-1", time.UTC); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if state, _ := svc.Current("user-1"); state != CounterCompleted {
		t.Errorf("after complete: state = %q, want completed", state)
	}
	if got := recorder.total(); got != 3 {
		t.Errorf("credited %d, want 3", got)
	}

	tasks.Close()
	if len(sessions.started) != 1 {
		t.Errorf("started markers = %d, want 1", len(sessions.started))
	}
	if sessions.completed[session.SessionID] != 3 {
		t.Errorf("completed marker count = %d, want 3", sessions.completed[session.SessionID])
	}
}

func TestCounterAutoCompletesAtTarget(t *testing.T) {
	recorder := &memRecorder{}
	svc, _, tasks := newTestCounterService(recorder)
	defer tasks.Close()
	ctx := context.Background()

	if _, err := svc.Start(ctx, "user-1", "Alhamdulillah", 3, ""); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	var completed bool
	for i := 0; i < 3; i++ {
		var err error
		_, completed, err = svc.Increment(ctx, "user-1", time.UTC)
		if err != nil {
			t.Fatalf("Increment %d returned error: %v", i, err)
		}
	}
	if !completed {
		t.Error("third tap should auto-complete a target-3 session")
	}
	if got := recorder.total(); got != 3 {
		t.Errorf("credited %d, want 3", got)
	}

	// The completed session accepts no further taps.
	if _, _, err := svc.Increment(ctx, "user-1", time.UTC); !IsCode(err, CodeDocumentMissing) {
		t.Errorf("tap after completion: got %v, want document_missing", err)
	}
}

func TestCounterResetCreditsNothing(t *testing.T) {
	recorder := &memRecorder{}
	svc, _, tasks := newTestCounterService(recorder)
	defer tasks.Close()
	ctx := context.Background()

	if _, err := svc.Start(ctx, "user-1", "Astaghfirullah", 0, ""); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	for i := 0; i < 7; i++ {
		if _, _, err := svc.Increment(ctx, "user-1", time.UTC); err != nil {
			t.Fatalf("Increment returned error: %v", err)
		}
	}

	if err := svc.Reset("user-1"); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	if state, _ := svc.Current("user-1"); state != CounterIdle {
		t.Errorf("after reset: state = %q, want idle", state)
	}
	if got := recorder.total(); got != 0 {
		t.Errorf("abandoned session credited %d, want 0", got)
	}
}

func TestCounterCompleteRetriesAfterRecorderFailure(t *testing.T) {
	recorder := &memRecorder{err: errors.New("store down")}
	svc, _, tasks := newTestCounterService(recorder)
	defer tasks.Close()
	ctx := context.Background()

	if _, err := svc.Start(ctx, "user-1", "SubhanAllah", 0, ""); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if _, _, err := svc.Increment(ctx, "user-1", time.UTC); err != nil {
		t.Fatalf("Increment returned error: %v", err)
	}

	if err := svc.Complete(ctx, "user-1", time.UTC); err == nil {
		t.Fatal("Complete should fail while the recorder is down")
	}
	// The session stays active so the count is not lost.
	if state, cur := svc.Current("user-1"); state != CounterActive || cur.Count != 1 {
		t.Fatalf("after failed complete: state=%q count=%d, want active/1", state, cur.Count)
	}

	recorder.mu.Lock()
	recorder.err = nil
	recorder.mu.Unlock()

	if err := svc.Complete(ctx, "user-1", time.UTC); err != nil {
		t.Fatalf("retry Complete returned error: %v", err)
	}
	if got := recorder.total(); got != 1 {
		t.Errorf("credited %d after retry, want 1", got)
	}
}

func TestCounterConcurrentCompletesCreditOnce(t *testing.T) {
	recorder := &memRecorder{delay: 20 * time.Millisecond}
	svc, _, tasks := newTestCounterService(recorder)
	defer tasks.Close()
	ctx := context.Background()

	if _, err := svc.Start(ctx, "user-1", "SubhanAllah", 0, ""); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, _, err := svc.Increment(ctx, "user-1", time.UTC); err != nil {
			t.Fatalf("Increment returned error: %v", err)
		}
	}

	// A client retry racing the original request: both completes pass
	// through the service at the same time while the credit is slow.
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Complete(ctx, "user-1", time.UTC)
		}(i)
	}
	wg.Wait()

	if got := recorder.total(); got != 10 {
		t.Errorf("credited %d across concurrent completes, want 10 exactly once", got)
	}
	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case IsCode(err, CodeDocumentMissing):
			rejected++
		default:
			t.Errorf("unexpected complete error: %v", err)
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Errorf("complete outcomes = %d success / %d rejected, want 1/1", succeeded, rejected)
	}
	if state, _ := svc.Current("user-1"); state != CounterCompleted {
		t.Errorf("final state = %q, want completed", state)
	}
}

func TestCounterOperationsWithoutSession(t *testing.T) {
	svc, _, tasks := newTestCounterService(&memRecorder{})
	defer tasks.Close()
	ctx := context.Background()

	if _, _, err := svc.Increment(ctx, "user-1", nil); !IsCode(err, CodeDocumentMissing) {
		t.Errorf("Increment: got %v, want document_missing", err)
	}
	if err := svc.Complete(ctx, "user-1", nil); !IsCode(err, CodeDocumentMissing) {
		t.Errorf("Complete: got %v, want document_missing", err)
	}
	if err := svc.Reset("user-1"); !IsCode(err, CodeDocumentMissing) {
		t.Errorf("Reset: got %v, want document_missing", err)
	}
}

func TestCounterHapticFiresPerTap(t *testing.T) {
	svc, _, tasks := newTestCounterService(&memRecorder{})
	defer tasks.Close()

	var fired int
	svc.Haptic = func(userID string) { fired++ }

	ctx := context.Background()
	if _, err := svc.Start(ctx, "user-1", "SubhanAllah", 0, ""); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, _, err := svc.Increment(ctx, "user-1", nil); err != nil {
			t.Fatalf("Increment returned error: %v", err)
		}
	}
	if fired != 5 {
		t.Errorf("haptic fired %d times, want 5", fired)
	}
}
