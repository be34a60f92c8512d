package usecase

import (
	"context"
	"sync"
	"time"

	"main/model"

	"github.com/google/uuid"
)

type CounterState string

const (
	CounterIdle       CounterState = "idle"
	CounterActive     CounterState = "active"
	CounterCompleting CounterState = "completing"
	CounterCompleted  CounterState = "completed"
)

// SessionStore persists counter session markers. Every call is
// best-effort: failures never block local counting.
type SessionStore interface {
	MarkStarted(ctx context.Context, session *model.DhikrSession) error
	MarkProgress(ctx context.Context, sessionID string, count int) error
	MarkCompleted(ctx context.Context, sessionID string, count int, duration time.Duration) error
}

// ProgressRecorder is the aggregator integration point. Only explicit
// session completion goes through it; abandoned sessions credit nothing.
type ProgressRecorder interface {
	RecordDhikrCount(ctx context.Context, userID string, count int, tz *time.Location) error
}

type counterSession struct {
	state   CounterState
	session *model.DhikrSession
}

// CounterService runs the per-user dhikr counter state machine:
// Idle -> Active -> Completing -> Completed, with reset back to Idle.
// Completing is the in-flight aggregator credit; it blocks concurrent
// completes and taps, and rolls back to Active if the credit fails.
type CounterService struct {
	Sessions SessionStore
	Recorder ProgressRecorder
	Tasks    *TaskRunner
	// Haptic fires on every tap. On the backend this is a push-style
	// notification hook; nil disables it.
	Haptic func(userID string)
	Now    func() time.Time

	mu       sync.Mutex
	counters map[string]*counterSession
}

func NewCounterService(sessions SessionStore, recorder ProgressRecorder, tasks *TaskRunner) *CounterService {
	return &CounterService{
		Sessions: sessions,
		Recorder: recorder,
		Tasks:    tasks,
		counters: make(map[string]*counterSession),
	}
}

func (s *CounterService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Start transitions Idle -> Active, allocating a session id and pushing a
// best-effort session-start marker.
func (s *CounterService) Start(ctx context.Context, userID, dhikrName string, target int, deviceInfo string) (*model.DhikrSession, error) {
	if userID == "" {
		return nil, Errorf(CodeInvalidArgument, "counter.start", "user id is required")
	}
	if target < 0 {
		return nil, Errorf(CodeInvalidArgument, "counter.start", "target must be non-negative, got %d", target)
	}

	now := s.now()
	session := &model.DhikrSession{
		SessionID:  uuid.New().String(),
		UserID:     userID,
		DhikrName:  dhikrName,
		Target:     target,
		Status:     model.SessionActive,
		DeviceInfo: deviceInfo,
		StartedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	s.counters[userID] = &counterSession{state: CounterActive, session: session}
	s.mu.Unlock()

	marker := *session
	s.Tasks.Submit("session_start", func(ctx context.Context) error {
		return s.Sessions.MarkStarted(ctx, &marker)
	})
	return session, nil
}

// Increment adds one tap. When the count reaches the session target the
// session completes automatically and the final count is credited to the
// aggregator.
func (s *CounterService) Increment(ctx context.Context, userID string, tz *time.Location) (count int, completed bool, err error) {
	if userID == "" {
		return 0, false, Errorf(CodeInvalidArgument, "counter.increment", "user id is required")
	}

	s.mu.Lock()
	c, ok := s.counters[userID]
	if !ok || c.state != CounterActive {
		s.mu.Unlock()
		return 0, false, Errorf(CodeDocumentMissing, "counter.increment", "no active counter session")
	}
	c.session.Count++
	count = c.session.Count
	sessionID := c.session.SessionID
	reachedTarget := c.session.Target > 0 && count >= c.session.Target
	s.mu.Unlock()

	if s.Haptic != nil {
		s.Haptic(userID)
	}
	s.Tasks.Submit("session_progress", func(ctx context.Context) error {
		return s.Sessions.MarkProgress(ctx, sessionID, count)
	})

	if reachedTarget {
		if err := s.Complete(ctx, userID, tz); err != nil {
			return count, false, err
		}
		return count, true, nil
	}
	return count, false, nil
}

// Complete transitions Active -> Completing -> Completed, persists the
// final session record and credits the full count to the aggregator. The
// session leaves Active before the aggregator call, so a racing second
// complete (client retry, or auto-complete crossing an explicit one)
// cannot credit the count twice. If the aggregator call fails the session
// rolls back to Active so the caller can retry without losing the count.
func (s *CounterService) Complete(ctx context.Context, userID string, tz *time.Location) error {
	if userID == "" {
		return Errorf(CodeInvalidArgument, "counter.complete", "user id is required")
	}

	s.mu.Lock()
	c, ok := s.counters[userID]
	if !ok || c.state != CounterActive {
		s.mu.Unlock()
		return Errorf(CodeDocumentMissing, "counter.complete", "no active counter session")
	}
	c.state = CounterCompleting
	finalCount := c.session.Count
	sessionID := c.session.SessionID
	startedAt := c.session.StartedAt
	s.mu.Unlock()

	if err := s.Recorder.RecordDhikrCount(ctx, userID, finalCount, tz); err != nil {
		s.mu.Lock()
		// Roll back only if this session is still the one in the map; a
		// reset or restart during the call wins.
		if cur, ok := s.counters[userID]; ok && cur == c && cur.state == CounterCompleting {
			cur.state = CounterActive
		}
		s.mu.Unlock()
		return err
	}

	now := s.now()
	duration := now.Sub(startedAt)

	s.mu.Lock()
	if cur, ok := s.counters[userID]; ok && cur == c {
		cur.state = CounterCompleted
		cur.session.Status = model.SessionCompleted
		cur.session.CompletedAt = &now
		cur.session.DurationSeconds = int(duration.Seconds())
	}
	s.mu.Unlock()

	s.Tasks.Submit("session_complete", func(ctx context.Context) error {
		return s.Sessions.MarkCompleted(ctx, sessionID, finalCount, duration)
	})
	return nil
}

// Reset discards the in-progress count and returns to Idle. No partial
// credit: abandoned sessions never reach the aggregator.
func (s *CounterService) Reset(userID string) error {
	if userID == "" {
		return Errorf(CodeInvalidArgument, "counter.reset", "user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.counters[userID]; !ok {
		return Errorf(CodeDocumentMissing, "counter.reset", "no counter session")
	}
	delete(s.counters, userID)
	return nil
}

// Current reports the session state without mutating it. Idle sessions
// report a zero count.
func (s *CounterService) Current(userID string) (CounterState, *model.DhikrSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[userID]
	if !ok {
		return CounterIdle, nil
	}
	copied := *c.session
	return c.state, &copied
}
