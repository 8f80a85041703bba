package util

import (
	"strconv"
	"time"
)

// DateLayout is the calendar date format providers use for observations.
const DateLayout = "2006-01-02"

// ParseDate tries YYYY-MM-DD, RFC3339 and unix seconds, in that order.
// Results are UTC.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// FormatDate renders t as YYYY-MM-DD, or "" for a nil time.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
