package util

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// StartOfDay is local midnight of the day containing t, in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay is the last nanosecond before the next local midnight. Days that
// contain a DST transition are 23 or 25 hours long.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	start := StartOfDay(t, loc)
	next := time.Date(start.Year(), start.Month(), start.Day()+1, 0, 0, 0, 0, loc)
	return next.Add(-time.Nanosecond)
}

// DayRange returns [StartOfDay, EndOfDay] for t.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	return StartOfDay(t, loc), EndOfDay(t, loc)
}

// ParseDate parses a YYYY-MM-DD query value as local midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}
