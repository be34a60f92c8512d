package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"main/model"
	"main/usecase"
	"main/utils"
)

const prayerTimesCacheTTL = 12 * time.Hour

// PrayerTimesService queries the remote prayer-times computation API by
// coordinates and date, memoizing results in the cache. The API is a pure
// external function; nothing here touches the progress engine.
type PrayerTimesService struct {
	Cache      usecase.KVCache
	HTTPClient *http.Client
	BaseURL    string
	Method     int
	// DefaultLocation is the degraded-mode fallback used when the caller
	// has no coordinates (geolocation denied or timed out).
	DefaultLocation model.GeoPoint
}

func NewPrayerTimesService(cache usecase.KVCache) *PrayerTimesService {
	return &PrayerTimesService{
		Cache:      cache,
		HTTPClient: &http.Client{Timeout: usecase.DefaultRemoteTimeout},
		BaseURL:    utils.GetEnvAsString("PRAYER_TIMES_API_URL", "https://api.aladhan.com/v1"),
		Method:     utils.GetEnvAsInt("PRAYER_TIMES_METHOD", 2),
		DefaultLocation: model.GeoPoint{
			Latitude:  utils.GetEnvAsFloat("DEFAULT_LATITUDE", 21.4225),
			Longitude: utils.GetEnvAsFloat("DEFAULT_LONGITUDE", 39.8262),
		},
	}
}

type aladhanResponse struct {
	Code int `json:"code"`
	Data struct {
		Timings map[string]string `json:"timings"`
	} `json:"data"`
}

// GetTimes returns the named prayer timestamps for the date. A nil
// location falls back to the configured default rather than failing.
func (s *PrayerTimesService) GetTimes(ctx context.Context, location *model.GeoPoint, date string) (*model.PrayerTimes, error) {
	if date == "" {
		return nil, usecase.Errorf(usecase.CodeInvalidArgument, "prayertimes.get", "date is required")
	}
	if location == nil {
		log.Printf("prayer times requested without coordinates, using default location")
		loc := s.DefaultLocation
		location = &loc
	}

	cacheKey := fmt.Sprintf("prayer_times:%.3f:%.3f:%s:%d", location.Latitude, location.Longitude, date, s.Method)
	if cached, ok, err := s.Cache.Get(ctx, cacheKey); err == nil && ok {
		var times model.PrayerTimes
		if err := json.Unmarshal([]byte(cached), &times); err == nil {
			return &times, nil
		}
		// Corrupt cache entry; fall through to refetch.
		_ = s.Cache.Remove(ctx, cacheKey)
	}

	times, err := s.fetch(ctx, location, date)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(times); err == nil {
		if err := s.Cache.Set(ctx, cacheKey, string(encoded), prayerTimesCacheTTL); err != nil {
			utils.TrackError("cache", "prayer_times_cache_failed")
		}
	}
	return times, nil
}

func (s *PrayerTimesService) fetch(ctx context.Context, location *model.GeoPoint, date string) (*model.PrayerTimes, error) {
	endpoint := fmt.Sprintf("%s/timings/%s", s.BaseURL, url.PathEscape(date))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, usecase.E(usecase.CodeInvalidArgument, "prayertimes.fetch", err)
	}
	q := req.URL.Query()
	q.Set("latitude", fmt.Sprintf("%f", location.Latitude))
	q.Set("longitude", fmt.Sprintf("%f", location.Longitude))
	q.Set("method", fmt.Sprintf("%d", s.Method))
	req.URL.RawQuery = q.Encode()

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		utils.TrackError("external", "prayer_times_fetch_failed")
		return nil, usecase.E(usecase.CodeRemoteUnavailable, "prayertimes.fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.TrackError("external", "prayer_times_bad_status")
		return nil, usecase.Errorf(usecase.CodeRemoteUnavailable, "prayertimes.fetch", "unexpected status %d", resp.StatusCode)
	}

	var parsed aladhanResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		utils.TrackError("external", "prayer_times_decode_failed")
		return nil, usecase.E(usecase.CodeRemoteUnavailable, "prayertimes.fetch", err)
	}

	return &model.PrayerTimes{
		Date:      date,
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
		Method:    s.Method,
		Timings:   parsed.Data.Timings,
		FetchedAt: time.Now(),
	}, nil
}
