package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"main/model"
)

// memStore is an in-memory double for the document store, applying the
// same all-or-nothing semantics as the Mongo transaction.
type memStore struct {
	mu         sync.Mutex
	stats      map[string]*model.UserStats
	daily      map[string]*model.DailyStats
	prayerLogs []model.PrayerLog
	commitErr  error
}

func newMemStore() *memStore {
	return &memStore{
		stats: make(map[string]*model.UserStats),
		daily: make(map[string]*model.DailyStats),
	}
}

func dayKey(userID, date string) string {
	return userID + ":" + date
}

func (m *memStore) CommitProgress(ctx context.Context, delta ProgressDelta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.commitErr != nil {
		return m.commitErr
	}

	s, ok := m.stats[delta.UserID]
	if !ok {
		s = &model.UserStats{UserID: delta.UserID, CreatedAt: delta.OccurredAt}
		m.stats[delta.UserID] = s
	}
	day, ok := m.daily[dayKey(delta.UserID, delta.Date)]
	if !ok {
		day = &model.DailyStats{UserID: delta.UserID, Date: delta.Date}
		m.daily[dayKey(delta.UserID, delta.Date)] = day
	}

	switch delta.Type {
	case model.ActivityPrayer:
		s.PrayersCompleted += delta.Amount
		s.PrayersCompletedToday += delta.Amount
		day.PrayersCompleted += delta.Amount
	case model.ActivityDhikr:
		s.DhikrCount += delta.Amount
		s.DhikrCountToday += delta.Amount
		day.DhikrCount += delta.Amount
	case model.ActivityQuran:
		s.QuranReadingTime += delta.Amount
		s.QuranReadingTimeToday += delta.Amount
		day.QuranReadingTime += delta.Amount
	case model.ActivityDua:
		s.TotalDuas += delta.Amount
		s.DuasToday += delta.Amount
		day.DuasRead += delta.Amount
	default:
		return fmt.Errorf("unknown activity type %q", delta.Type)
	}

	occurred := delta.OccurredAt
	s.LastActiveDate = &occurred
	s.LastUpdated = occurred

	if delta.Type == model.ActivityPrayer {
		m.prayerLogs = append(m.prayerLogs, model.PrayerLog{
			UserID:      delta.UserID,
			PrayerName:  delta.PrayerName,
			Date:        delta.Date,
			CompletedAt: delta.OccurredAt,
			Location:    delta.Location,
		})
	}
	return nil
}

func (m *memStore) GetUserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[userID]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (m *memStore) EnsureUserStats(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stats[userID]; !ok {
		m.stats[userID] = &model.UserStats{UserID: userID, CreatedAt: time.Now()}
	}
	return nil
}

func (m *memStore) SetStreak(ctx context.Context, userID string, days int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[userID]
	if !ok {
		return errors.New("no stats document")
	}
	s.StreakDays = days
	s.LastUpdated = at
	return nil
}

func (m *memStore) ResetDailyCounters(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stats[userID]; ok {
		s.PrayersCompletedToday = 0
		s.DhikrCountToday = 0
		s.QuranReadingTimeToday = 0
		s.DuasToday = 0
	}
	return nil
}

func (m *memStore) AppendActivity(ctx context.Context, userID, date string, activity model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	day, ok := m.daily[dayKey(userID, date)]
	if !ok {
		day = &model.DailyStats{UserID: userID, Date: date}
		m.daily[dayKey(userID, date)] = day
	}
	day.PrependActivity(activity)
	return nil
}

func (m *memStore) userStats(userID string) model.UserStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[userID]
	if !ok {
		return model.UserStats{}
	}
	return *s
}

func (m *memStore) dailyStats(userID, date string) model.DailyStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.daily[dayKey(userID, date)]
	if !ok {
		return model.DailyStats{}
	}
	return *d
}

// memGoalStore backs GoalService in tests, reusing Goal.Apply for the
// clamp rule the pipeline update enforces in production.
type memGoalStore struct {
	mu      sync.Mutex
	goals   map[string]*model.Goal
	listErr error
}

func newMemGoalStore() *memGoalStore {
	return &memGoalStore{goals: make(map[string]*model.Goal)}
}

func (m *memGoalStore) add(g *model.Goal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[g.GoalID] = g
}

func (m *memGoalStore) get(id string) model.Goal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.goals[id]
}

func (m *memGoalStore) OpenDailyGoals(ctx context.Context, userID string, goalType model.ActivityType) ([]*model.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*model.Goal
	for _, g := range m.goals {
		if g.UserID == userID && g.Type == goalType && g.Period == model.PeriodDaily && !g.IsCompleted {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memGoalStore) ApplyProgress(ctx context.Context, goalIDs []string, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range goalIDs {
		if g, ok := m.goals[id]; ok {
			g.Apply(amount)
		}
	}
	return nil
}

func (m *memGoalStore) CountUserGoals(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, g := range m.goals {
		if g.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *memGoalStore) CreateGoals(ctx context.Context, goals []*model.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range goals {
		m.goals[g.GoalID] = g
	}
	return nil
}

func (m *memGoalStore) ResetDailyGoals(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.goals {
		if g.UserID == userID && g.Period == model.PeriodDaily {
			g.Current = 0
			g.IsCompleted = false
		}
	}
	return nil
}

// memSessionStore records best-effort session markers.
type memSessionStore struct {
	mu        sync.Mutex
	started   []model.DhikrSession
	progress  map[string]int
	completed map[string]int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{
		progress:  make(map[string]int),
		completed: make(map[string]int),
	}
}

func (m *memSessionStore) MarkStarted(ctx context.Context, session *model.DhikrSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, *session)
	return nil
}

func (m *memSessionStore) MarkProgress(ctx context.Context, sessionID string, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress[sessionID] = count
	return nil
}

func (m *memSessionStore) MarkCompleted(ctx context.Context, sessionID string, count int, duration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed[sessionID] = count
	return nil
}

// memRecorder captures aggregator credits from the counter front-ends.
// A non-zero delay simulates remote commit latency for race tests.
type memRecorder struct {
	mu      sync.Mutex
	delay   time.Duration
	credits []int
	err     error
}

func (m *memRecorder) RecordDhikrCount(ctx context.Context, userID string, count int, tz *time.Location) error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.credits = append(m.credits, count)
	return nil
}

func (m *memRecorder) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := 0
	for _, c := range m.credits {
		sum += c
	}
	return sum
}

// memKVCache is a map-backed KVCache.
type memKVCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemKVCache() *memKVCache {
	return &memKVCache{values: make(map[string]string)}
}

func (m *memKVCache) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKVCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memKVCache) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memKVCache) Increment(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var current int64
	fmt.Sscanf(m.values[key], "%d", &current)
	current += delta
	m.values[key] = fmt.Sprintf("%d", current)
	return current, nil
}
