// Package datetime provides the shared date arithmetic for subscription
// scheduling. All dates are handled in UTC.
package datetime

import (
	"math"
	"time"
)

const (
	// DateFormat is the standard date-only format (YYYY-MM-DD).
	DateFormat = "2006-01-02"

	// DisplayDateFormat is for human-readable dates.
	DisplayDateFormat = "Jan 2, 2006"
)

// ParseDate parses a date string in YYYY-MM-DD format into a UTC time.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// FormatDate returns the date in YYYY-MM-DD format.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

// FormatDisplay returns a human-readable date ("Jan 2, 2006").
func FormatDisplay(t time.Time) string {
	return t.UTC().Format(DisplayDateFormat)
}

// DaysUntil returns the number of days from now until target, rounded up.
// A target earlier than now yields a negative count. The ceiling matters:
// a target 12 hours away still counts as 1 day, matching how renewal and
// expiry windows are presented to the user.
func DaysUntil(target, now time.Time) int {
	diff := target.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// WithinWindow reports whether target falls inside [from, from+days],
// inclusive of both ends.
func WithinWindow(target, from time.Time, days int) bool {
	end := from.AddDate(0, 0, days)
	return !target.Before(from) && !target.After(end)
}
