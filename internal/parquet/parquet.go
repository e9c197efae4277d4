// Package parquet provides data structures and functions for exporting
// faultline run data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/faultline-io/faultline/schema"
	"github.com/parquet-go/parquet-go"
)

// DetectionRun represents a single detection run with metadata.
// This struct maps to the faultline_detection_runs database table.
type DetectionRun struct {
	// RunID is the unique identifier for this detection run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalPoints is the number of readings analyzed in this run
	TotalPoints int32 `parquet:"total_points,snappy"`

	// PatternsDetected is the number of patterns the run produced
	PatternsDetected int32 `parquet:"patterns_detected,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// PatternScore represents one detected pattern with its classification.
// This struct maps to the faultline_pattern_scores database table.
type PatternScore struct {
	// RunID references the parent detection run
	RunID int64 `parquet:"run_id,snappy"`

	// PatternID is the unique identifier of the detected pattern
	PatternID string `parquet:"pattern_id,snappy"`

	// SensorID is the sensor the pattern was detected on
	SensorID string `parquet:"sensor_id,snappy"`

	// EquipmentType is the sensor's equipment category
	EquipmentType string `parquet:"equipment_type,snappy"`

	// DetectedAt is when the pattern was detected
	DetectedAt time.Time `parquet:"detected_at,snappy"`

	// PatternType is the statistical pattern type from detection
	PatternType string `parquet:"pattern_type,snappy"`

	// ClassifiedType is the failure pattern type from classification
	ClassifiedType string `parquet:"classified_type,snappy"`

	// Severity is the final, possibly escalated severity
	Severity string `parquet:"severity,snappy"`

	// ConfidenceScore is the pattern confidence (0-100)
	ConfidenceScore float64 `parquet:"confidence_score,snappy"`

	// RiskScore is the weighted classification risk (0-100)
	RiskScore float64 `parquet:"risk_score,snappy"`

	// FailureProbability is the estimated failure probability (0-100)
	FailureProbability float64 `parquet:"failure_probability,snappy"`

	// UrgencyLevel is the recommended response urgency
	UrgencyLevel string `parquet:"urgency_level,snappy"`
}

// WriteDetectionRunsParquet writes a slice of DetectionRun structs to a Parquet file.
func WriteDetectionRunsParquet(data []DetectionRun, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the DetectionRun struct tags
	writer := parquet.NewGenericWriter[DetectionRun](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WritePatternScoresParquet writes a slice of PatternScore structs to a Parquet file.
func WritePatternScoresParquet(data []PatternScore, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the PatternScore struct tags
	writer := parquet.NewGenericWriter[PatternScore](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertDetectionRunRecords converts schema.DetectionRunRecord to DetectionRun for Parquet export.
func ConvertDetectionRunRecords(records []schema.DetectionRunRecord) []DetectionRun {
	result := make([]DetectionRun, len(records))
	for i, record := range records {
		result[i] = DetectionRun{
			RunID:            record.RunID,
			StartTime:        record.StartTime,
			EndTime:          record.EndTime,
			RunDurationMs:    record.RunDurationMs,
			TotalPoints:      record.TotalPoints,
			PatternsDetected: record.PatternsDetected,
			ConfigParams:     record.ConfigParams,
		}
	}
	return result
}

// ConvertPatternScoreRecords converts schema.PatternScoreRecord to PatternScore for Parquet export.
func ConvertPatternScoreRecords(records []schema.PatternScoreRecord) []PatternScore {
	result := make([]PatternScore, len(records))
	for i, record := range records {
		result[i] = PatternScore{
			RunID:              record.RunID,
			PatternID:          record.PatternID,
			SensorID:           record.SensorID,
			EquipmentType:      record.EquipmentType,
			DetectedAt:         record.DetectedAt,
			PatternType:        record.PatternType,
			ClassifiedType:     record.ClassifiedType,
			Severity:           record.Severity,
			ConfidenceScore:    record.ConfidenceScore,
			RiskScore:          record.RiskScore,
			FailureProbability: record.FailureProbability,
			UrgencyLevel:       record.UrgencyLevel,
		}
	}
	return result
}
