package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Captures "N [units] ago", e.g. "2 days ago", "36 hours ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(week|day|hour|minute)s?\s+ago$`)

// Captures "N [units]", e.g. "1 hour", "15 minutes".
var granularityRe = regexp.MustCompile(`^(\d+)\s+(week|day|hour|minute)s?$`)

// ParseRelativeTime converts strings like "2 days ago" into a time.Time in
// the past, relative to now.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)

	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch unit {
	case "week":
		return now.Add(time.Duration(-value) * 7 * 24 * time.Hour), nil
	case "day":
		return now.Add(time.Duration(-value) * 24 * time.Hour), nil
	case "hour":
		return now.Add(time.Duration(-value) * time.Hour), nil
	case "minute":
		return now.Add(time.Duration(-value) * time.Minute), nil
	default:
		// Should be caught by the regex, but good for safety
		return time.Time{}, fmt.Errorf("unsupported time unit: %s", unit)
	}
}

// ParseGranularity converts strings like "1h", "15m" or "1 hour" into a
// time.Duration. It first tries Go's built-in time.ParseDuration, then
// falls back to human-readable formats.
func ParseGranularity(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if duration, err := time.ParseDuration(s); err == nil {
		if duration <= 0 {
			return 0, fmt.Errorf("granularity must be positive: %s", s)
		}
		return duration, nil
	}

	s = strings.ToLower(s)
	matches := granularityRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid granularity format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	var unit time.Duration
	switch matches[2] {
	case "week":
		unit = 7 * 24 * time.Hour
	case "day":
		unit = 24 * time.Hour
	case "hour":
		unit = time.Hour
	case "minute":
		unit = time.Minute
	}

	duration := time.Duration(value) * unit
	if duration <= 0 {
		return 0, fmt.Errorf("granularity must be positive: %s", s)
	}
	return duration, nil
}
