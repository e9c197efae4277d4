package schema

import "time"

// DetectionRunRecord mirrors a row of the faultline_detection_runs table.
type DetectionRunRecord struct {
	RunID            int64
	StartTime        time.Time
	EndTime          *time.Time
	RunDurationMs    *int32
	TotalPoints      int32
	PatternsDetected int32
	ConfigParams     *string
}

// PatternScoreRecord mirrors a row of the faultline_pattern_scores table.
// One row per detected pattern, including its classification scores.
type PatternScoreRecord struct {
	RunID              int64
	PatternID          string
	SensorID           string
	EquipmentType      string
	DetectedAt         time.Time
	PatternType        string
	ClassifiedType     string
	Severity           string
	ConfidenceScore    float64
	RiskScore          float64
	FailureProbability float64
	UrgencyLevel       string
}

// StoreStatus reports run-tracking store health and accumulation.
type StoreStatus struct {
	Backend       string
	Connected     bool
	TotalRuns     int64
	LastRunID     int64
	LastRunTime   time.Time
	OldestRunTime time.Time
	TotalPatterns int64
	TableSizes    map[string]int64
}
