package util

import (
	"strconv"
	"time"
)

// RunDateLayout is the artifact date format.
const RunDateLayout = "2006-01-02"

// RunDate formats a timestamp as an artifact run date.
func RunDate(t time.Time) string {
	return t.Format(RunDateLayout)
}

// ParseRunDate parses a run date string. Returns (t, true) if it parsed.
func ParseRunDate(s string) (time.Time, bool) {
	t, err := time.Parse(RunDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseTime tries RFC3339, RFC3339Nano, run-date, and unix seconds.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, ok := ParseRunDate(s); ok {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns def if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}
