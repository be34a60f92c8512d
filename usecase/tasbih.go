package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"main/utils"
)

// KVCache is the device-local cache contract: TTL memoization plus atomic
// counters. Backed by Redis in production, a map in tests.
type KVCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
	Increment(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)
}

const tasbihCountTTL = 48 * time.Hour

// TasbihService keeps two deliberately independent counters per user: a
// local date-keyed daily tap count (cheap, offline-friendly, incremented
// on every tap) and a session accumulator that is only credited to the
// remote stats when the user explicitly saves. The daily tap count and
// the remote dhikr_count_today are never reconciled; this matches the
// product behavior.
type TasbihService struct {
	Cache    KVCache
	Recorder ProgressRecorder
	Now      func() time.Time
}

func (s *TasbihService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func dailyKey(userID, date string) string {
	return fmt.Sprintf("tasbih:daily:%s:%s", userID, date)
}

func sessionKey(userID string) string {
	return fmt.Sprintf("tasbih:session:%s", userID)
}

// Tap records one local tap: both the daily count and the session
// accumulator advance. Nothing is written to the remote stats.
func (s *TasbihService) Tap(ctx context.Context, userID string, tz *time.Location) (int64, error) {
	if userID == "" {
		return 0, Errorf(CodeInvalidArgument, "tasbih.tap", "user id is required")
	}

	date := utils.DateKey(s.now(), tz)
	daily, err := s.Cache.Increment(ctx, dailyKey(userID, date), 1, tasbihCountTTL)
	if err != nil {
		return 0, E(CodeRemoteUnavailable, "tasbih.tap", err)
	}
	if _, err := s.Cache.Increment(ctx, sessionKey(userID), 1, tasbihCountTTL); err != nil {
		return daily, E(CodeRemoteUnavailable, "tasbih.tap", err)
	}
	return daily, nil
}

// DailyCount returns today's local tap count.
func (s *TasbihService) DailyCount(ctx context.Context, userID string, tz *time.Location) (int64, error) {
	if userID == "" {
		return 0, Errorf(CodeInvalidArgument, "tasbih.daily", "user id is required")
	}
	return s.readCount(ctx, dailyKey(userID, utils.DateKey(s.now(), tz)))
}

// SessionCount returns the unsaved session accumulator.
func (s *TasbihService) SessionCount(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, Errorf(CodeInvalidArgument, "tasbih.session", "user id is required")
	}
	return s.readCount(ctx, sessionKey(userID))
}

// SaveSession credits the accumulated session count to the aggregator and
// deducts exactly that amount from the accumulator. Subtracting instead of
// deleting means taps landing while the credit is in flight survive for
// the next save. The local daily tap count is left untouched.
func (s *TasbihService) SaveSession(ctx context.Context, userID string, tz *time.Location) (int64, error) {
	if userID == "" {
		return 0, Errorf(CodeInvalidArgument, "tasbih.save", "user id is required")
	}

	count, err := s.readCount(ctx, sessionKey(userID))
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.Recorder.RecordDhikrCount(ctx, userID, int(count), tz); err != nil {
		return 0, err
	}
	if _, err := s.Cache.Increment(ctx, sessionKey(userID), -count, tasbihCountTTL); err != nil {
		// The credit landed; a stale accumulator is the lesser problem
		// and expires on its own.
		utils.TrackError("cache", "tasbih_session_clear_failed")
	}
	return count, nil
}

// ResetSession discards the unsaved accumulator without crediting it.
func (s *TasbihService) ResetSession(ctx context.Context, userID string) error {
	if userID == "" {
		return Errorf(CodeInvalidArgument, "tasbih.reset", "user id is required")
	}
	if err := s.Cache.Remove(ctx, sessionKey(userID)); err != nil {
		return E(CodeRemoteUnavailable, "tasbih.reset", err)
	}
	return nil
}

func (s *TasbihService) readCount(ctx context.Context, key string) (int64, error) {
	raw, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		return 0, E(CodeRemoteUnavailable, "tasbih.read", err)
	}
	if !ok {
		return 0, nil
	}
	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, Errorf(CodeInvalidArgument, "tasbih.read", "corrupt counter value %q", raw)
	}
	return count, nil
}
