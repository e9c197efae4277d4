// Package schema has configs, models and shared constants for all parts of faultline.
package schema

import "time"

// TimeSeriesPoint is one raw sensor reading supplied by the ingestion layer.
// Readings are not assumed to be pre-sorted; the detector sorts per sensor.
type TimeSeriesPoint struct {
	Timestamp     time.Time     `json:"timestamp"`
	Value         float64       `json:"value"`
	SensorID      string        `json:"sensor_id"`
	EquipmentType EquipmentType `json:"equipment_type"`
	FloorNumber   int           `json:"floor_number"`
}

// AnalysisWindow describes the requested time range for an analysis run.
type AnalysisWindow struct {
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Granularity time.Duration `json:"granularity"`
}

// StatisticalMetrics holds the derived statistics for one sensor batch.
// Computed fresh per request; never persisted by the core.
type StatisticalMetrics struct {
	Mean                float64 `json:"mean"`
	StdDeviation        float64 `json:"std_deviation"`
	Variance            float64 `json:"variance"`
	Median              float64 `json:"median"`
	Q1                  float64 `json:"q1"`
	Q3                  float64 `json:"q3"`
	AvgZScore           float64 `json:"z_score"`
	PercentileRank      float64 `json:"percentile_rank"`
	NormalityScore      float64 `json:"normality_test"`      // 0-100 empirical-rule heuristic, not a formal test
	SeasonalityStrength float64 `json:"seasonality_strength"` // 0-1, autocorrelation at the daily lag
}

// PatternDataPoint is a single reading annotated with its deviation from
// the expected value. Owned by exactly one DetectedPattern.
type PatternDataPoint struct {
	Timestamp     time.Time `json:"timestamp"`
	Value         float64   `json:"value"`
	ExpectedValue float64   `json:"expected_value"`
	Deviation     float64   `json:"deviation"`
	IsAnomaly     bool      `json:"is_anomaly"`
	SeverityScore float64   `json:"severity_score"`
}

// PatternMetadata carries detection provenance for a pattern.
type PatternMetadata struct {
	DetectionAlgorithm    DetectionAlgorithm `json:"detection_algorithm"`
	Window                AnalysisWindow     `json:"analysis_window"`
	ThresholdUsed         float64            `json:"threshold_used"`
	HistoricalOccurrences int                `json:"historical_occurrences"`
	Stats                 StatisticalMetrics `json:"statistical_metrics"`
	CorrelatedSensors     []string           `json:"correlated_sensors,omitempty"`
}

// DetectedPattern is the anomaly detector's output unit. Immutable after
// creation within the core; acknowledgment and recommendation enrichment
// happen downstream.
type DetectedPattern struct {
	ID              string             `json:"id"`
	Timestamp       time.Time          `json:"timestamp"`
	SensorID        string             `json:"sensor_id"`
	EquipmentType   EquipmentType      `json:"equipment_type"`
	FloorNumber     int                `json:"floor_number"`
	PatternType     PatternType        `json:"pattern_type"`
	Severity        Severity           `json:"severity"`
	ConfidenceScore float64            `json:"confidence_score"` // 0-100
	Description     string             `json:"description"`
	DataPoints      []PatternDataPoint `json:"data_points"`
	Recommendations []string           `json:"recommendations,omitempty"`
	Acknowledged    bool               `json:"acknowledged"`
	CreatedAt       time.Time          `json:"created_at"`
	Metadata        PatternMetadata    `json:"metadata"`
}

// ConfidenceDistribution buckets detected patterns by confidence score.
type ConfidenceDistribution struct {
	High   int `json:"high"`   // >= 80
	Medium int `json:"medium"` // >= 60
	Low    int `json:"low"`    // < 60
}

// StatisticalSummary aggregates counts across a detection run.
type StatisticalSummary struct {
	TotalPointsAnalyzed int                    `json:"total_points_analyzed"`
	SensorsAnalyzed     int                    `json:"sensors_analyzed"`
	SensorsSkipped      int                    `json:"sensors_skipped"`
	AnomaliesDetected   int                    `json:"anomalies_detected"`
	Confidence          ConfidenceDistribution `json:"confidence_distribution"`
	ProcessingTimeMs    float64                `json:"processing_time_ms"`
}

// PerformanceMetrics reports detection throughput for the run.
type PerformanceMetrics struct {
	PointsPerMs         float64 `json:"points_per_ms"`
	EstimatedMemoryMB   float64 `json:"estimated_memory_mb"`
	ThroughputPerSecond float64 `json:"throughput_points_per_sec"`
}

// AnomalyDetectionResult is the full detector output. Error paths still
// return a populated result so callers can inspect partial statistics.
type AnomalyDetectionResult struct {
	Success     bool               `json:"success"`
	Error       string             `json:"error,omitempty"`
	ErrorKind   ErrorKind          `json:"error_kind,omitempty"`
	Patterns    []DetectedPattern  `json:"patterns"`
	Summary     StatisticalSummary `json:"statistical_summary"`
	Performance PerformanceMetrics `json:"performance_metrics"`
}
