package util

import (
	"fmt"
	"time"
)

// Date layouts used across the CLI output.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// FormatDate renders a timestamp as a calendar date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(DateLayout)
}

// FormatDateTime renders a timestamp with seconds precision.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(DateTimeLayout)
}

// TimeAgo renders how long ago t was, relative to now, in the coarsest
// sensible unit.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	elapsed := now.Sub(t)
	if elapsed < 0 {
		elapsed = 0
	}

	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return plural(int(elapsed.Minutes()), "minute")
	case elapsed < 24*time.Hour:
		return plural(int(elapsed.Hours()), "hour")
	case elapsed < 30*24*time.Hour:
		return plural(int(elapsed.Hours()/24), "day")
	case elapsed < 365*24*time.Hour:
		return plural(int(elapsed.Hours()/(24*30)), "month")
	default:
		return plural(int(elapsed.Hours()/(24*365)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}

	return fmt.Sprintf("%d %ss ago", n, unit)
}
