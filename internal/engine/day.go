// ABOUTME: Local calendar-day helpers shared by every day comparison.
// ABOUTME: Day keys come from local year/month/day, never from UTC serialization.
package engine

import (
	"fmt"
	"time"
)

// DayKeyLayout is the YYYY-MM-DD layout used for day keys.
const DayKeyLayout = "2006-01-02"

// LocalDayKey returns the YYYY-MM-DD key of t's calendar day in loc.
// A nil loc uses t's own location.
func LocalDayKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// StartOfDay returns midnight of t's calendar day in loc.
// A nil loc uses t's own location.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// AddDays moves a day start by n calendar days. Calendar arithmetic keeps
// midnight across DST changes where adding 24h would not.
func AddDays(day time.Time, n int) time.Time {
	return day.AddDate(0, 0, n)
}

// ParseDayKey parses a YYYY-MM-DD key as midnight in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DayKeyLayout, key, loc)
}

// MaxWindowDays bounds calendar windows requested by callers.
const MaxWindowDays = 366

// WindowAround returns the start and length of a rolling window covering
// pastDays before now's day, now's day, and futureDays after it.
func WindowAround(now time.Time, pastDays, futureDays int) (time.Time, int) {
	if pastDays < 0 {
		pastDays = 0
	}
	if futureDays < 0 {
		futureDays = 0
	}
	start := AddDays(StartOfDay(now, nil), -pastDays)
	return start, pastDays + futureDays + 1
}
