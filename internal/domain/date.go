package domain

import (
	"errors"
	"time"
)

var ErrBadDate = errors.New("invalid date")

// ParseDate accepts YYYY-MM-DD or full RFC 3339 input and normalizes it to
// UTC midnight, the granularity every availability computation runs at.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return TruncateToDay(t), nil
}

func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the length of [start, end) in whole days.
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
