package contract

import (
	"testing"

	"github.com/faultline-io/faultline/schema"
	"github.com/stretchr/testify/assert"
)

// TestGetPlainLabel checks the score bucket boundaries.
func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected string
	}{
		{name: "critical at boundary", score: 80, expected: CriticalValue},
		{name: "critical above", score: 99.5, expected: CriticalValue},
		{name: "high at boundary", score: 60, expected: HighValue},
		{name: "high below critical", score: 79.9, expected: HighValue},
		{name: "moderate at boundary", score: 40, expected: ModerateValue},
		{name: "low below moderate", score: 39.9, expected: LowValue},
		{name: "low at zero", score: 0, expected: LowValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.score))
		})
	}
}

// TestGetColorLabel verifies the colored label still contains the plain text.
func TestGetColorLabel(t *testing.T) {
	for _, score := range []float64{85, 65, 45, 5} {
		assert.Contains(t, GetColorLabel(score), GetPlainLabel(score))
	}
}

// TestGetSeverityLabel checks the plain and colored paths.
func TestGetSeverityLabel(t *testing.T) {
	assert.Equal(t, "critical", GetSeverityLabel(schema.SeverityCritical, false))
	assert.Contains(t, GetSeverityLabel(schema.SeverityWarning, true), "warning")
	assert.Contains(t, GetSeverityLabel(schema.SeverityInfo, true), "info")
}

// TestTruncateText covers truncation and the short-string passthrough.
func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{name: "short string untouched", input: "hello", maxWidth: 10, expected: "hello"},
		{name: "exact width untouched", input: "hello", maxWidth: 5, expected: "hello"},
		{name: "truncated with ellipsis", input: "temperature sensor", maxWidth: 10, expected: "tempera..."},
		{name: "width too small to truncate", input: "hello", maxWidth: 3, expected: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateText(tt.input, tt.maxWidth))
		})
	}
}

// TestParseBoolString covers all accepted spellings and rejects the rest.
func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "YES", "true", "1"} {
		got, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.True(t, got, s)
	}
	for _, s := range []string{"no", "No", "false", "0"} {
		got, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.False(t, got, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
