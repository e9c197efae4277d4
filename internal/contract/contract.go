// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/faultline-io/faultline/schema"
)

// RunStore defines the interface for tracking detection runs and storing
// per-pattern scores. This allows the persistence layer to be mocked for
// testing.
type RunStore interface {
	// BeginRun creates a new detection run and returns its unique ID.
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the detection run with completion data.
	EndRun(runID int64, endTime time.Time, totalPoints, patternsDetected int) error

	// RecordPattern stores one detected pattern with its classification.
	RecordPattern(runID int64, pattern schema.DetectedPattern, classified schema.ClassificationResult) error

	// GetStatus returns status information about the run store.
	GetStatus() (schema.StoreStatus, error)

	// GetRuns returns the most recent detection runs, newest first.
	GetRuns(limit int) ([]schema.DetectionRunRecord, error)

	// GetPatternScores returns the pattern rows for a run, or for all runs
	// when runID is 0.
	GetPatternScores(runID int64) ([]schema.PatternScoreRecord, error)

	// Clear removes all persisted runs and pattern scores.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}

// StoreManager hands out the configured run store.
type StoreManager interface {
	GetRunStore() RunStore
}

// ReadingSource supplies sensor readings for analysis. Implementations
// load from files today; a streaming source satisfies the same contract.
type ReadingSource interface {
	// Load returns all readings matching the filter.
	Load(filter ReadingFilter) ([]schema.TimeSeriesPoint, error)
}

// ReadingFilter narrows which readings a source returns. Zero values mean
// no filtering on that axis.
type ReadingFilter struct {
	SensorID      string
	EquipmentType schema.EquipmentType
	FloorNumber   int // 0 = all floors
	StartTime     time.Time
	EndTime       time.Time
}
