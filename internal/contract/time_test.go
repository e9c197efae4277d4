package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseRelativeTime covers each supported unit and bad inputs.
func TestParseRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{name: "weeks", input: "2 weeks ago", expected: now.Add(-2 * 7 * 24 * time.Hour)},
		{name: "singular day", input: "1 day ago", expected: now.Add(-24 * time.Hour)},
		{name: "hours", input: "36 hours ago", expected: now.Add(-36 * time.Hour)},
		{name: "minutes", input: "15 minutes ago", expected: now.Add(-15 * time.Minute)},
		{name: "mixed case with padding", input: "  3 Days Ago ", expected: now.Add(-3 * 24 * time.Hour)},
		{name: "missing ago", input: "2 days", expectError: true},
		{name: "unsupported unit", input: "2 months ago", expectError: true},
		{name: "no number", input: "some days ago", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, now)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestParseGranularity covers Go duration syntax and the human-readable
// fallback.
func TestParseGranularity(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Duration
		expectError bool
	}{
		{name: "go syntax hour", input: "1h", expected: time.Hour},
		{name: "go syntax minutes", input: "15m", expected: 15 * time.Minute},
		{name: "go syntax compound", input: "1h30m", expected: 90 * time.Minute},
		{name: "human hour", input: "1 hour", expected: time.Hour},
		{name: "human minutes", input: "30 minutes", expected: 30 * time.Minute},
		{name: "human day", input: "1 day", expected: 24 * time.Hour},
		{name: "human week", input: "2 weeks", expected: 2 * 7 * 24 * time.Hour},
		{name: "zero duration", input: "0s", expectError: true},
		{name: "negative duration", input: "-1h", expectError: true},
		{name: "garbage", input: "soonish", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGranularity(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
