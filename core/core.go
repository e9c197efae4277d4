// Package core implements the statistical failure-pattern detection engine:
// the anomaly detector, the pattern classifier and the insight validation
// framework. Detector and Classifier are immutable value objects constructed
// once per configuration; they hold no mutable state post-construction and
// are safe to share across concurrent calls.
package core

import (
	"time"

	"github.com/faultline-io/faultline/schema"
	"github.com/google/uuid"
)

// Clock abstracts time for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts record ID generation for deterministic testing.
type IDGenerator interface {
	NewID(prefix string) string
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// UUIDGenerator produces prefixed UUID identifiers.
type UUIDGenerator struct{}

// NewID returns a new prefixed UUID string.
func (UUIDGenerator) NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// severityForRatio maps a deviation ratio (deviation over the configured
// threshold) to a severity level.
func severityForRatio(ratio float64) schema.Severity {
	switch {
	case ratio >= 2.0:
		return schema.SeverityCritical
	case ratio >= 1.5:
		return schema.SeverityWarning
	default:
		return schema.SeverityInfo
	}
}

// maxSeverity returns the higher-ranked of two severities.
func maxSeverity(a, b schema.Severity) schema.Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
