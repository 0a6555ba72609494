package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar-day layout used for every date key.
const DateLayout = "2006-01-02"

// NoDateKey buckets orders that carry no delivery date.
const NoDateKey = "no-date"

var dateLayouts = []string{
	DateLayout,
	"02/01/2006",
	"2/1/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate accepts ISO dates, day-first slash dates and timestamps, and
// returns midnight of that calendar day in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return StartOfDay(t.In(loc)), nil
		}
	}
	// Timestamps with a date prefix, e.g. "2026-03-01T10:00:00.000Z"
	if len(s) > len(DateLayout) {
		if t, err := time.ParseInLocation(DateLayout, s[:len(DateLayout)], loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateKey formats a calendar day as YYYY-MM-DD. Keys sort chronologically.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays moves a calendar day forward, staying on midnight across DST changes.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}
