package engine

import (
	"math"
	"time"
)

// DayIndex returns how many local calendar days lie between start and now,
// so the start day itself is day 0. It returns -1 for a zero start.
func DayIndex(start, now time.Time) int {
	if start.IsZero() {
		return -1
	}
	s := midnight(start.In(now.Location()))
	n := midnight(now)
	// Round rather than truncate so DST days of 23 or 25 hours count as one.
	return int(math.Round(n.Sub(s).Hours() / 24))
}

// CompletionDate returns the calendar date of completionDay, or the zero time
// when the start date is unknown.
func CompletionDate(start time.Time, completionDay int) time.Time {
	if start.IsZero() {
		return time.Time{}
	}
	return midnight(start).AddDate(0, 0, completionDay)
}

// Midnight returns the start of t's local day.
func Midnight(t time.Time) time.Time {
	return midnight(t)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
