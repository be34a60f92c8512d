package utils

import "time"

const DateLayout = "2006-01-02"

// ResolveLocation maps an IANA timezone name to a location, falling back
// to UTC for empty or unknown names. The "today" boundary for daily
// rollups is whatever this returns; callers send their zone per request.
func ResolveLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DateKey formats t as the YYYY-MM-DD calendar date in loc (UTC when nil).
// Every daily-stats document key and streak comparison goes through here.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}
