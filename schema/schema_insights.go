package schema

import "time"

// InsightKind identifies the metric a ValidatedInsight describes.
type InsightKind string

// All insight kinds produced by the validation framework.
const (
	TrendInsight       InsightKind = "trend"
	PeakLoadInsight    InsightKind = "peak_load"
	DataQualityInsight InsightKind = "data_quality"
)

// ValidatedInsight is a confidence-bounded business metric computed from
// the same sensor data the detector consumes. Consumed by export and
// reporting collaborators.
type ValidatedInsight struct {
	ID          string      `json:"id"`
	Kind        InsightKind `json:"kind"`
	SensorID    string      `json:"sensor_id"`
	Metric      string      `json:"metric"`
	Value       float64     `json:"value"`
	LowerBound  float64     `json:"lower_bound"`
	UpperBound  float64     `json:"upper_bound"`
	Confidence  float64     `json:"confidence"` // 0-100
	SampleSize  int         `json:"sample_size"`
	Method      string      `json:"method"`
	Caveats     []string    `json:"caveats,omitempty"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// SavingsScenario estimates cost savings under an assumed consumption
// reduction, with bounds derived from the underlying data spread.
type SavingsScenario struct {
	Name             string  `json:"name"`
	ReductionPercent float64 `json:"reduction_percent"`
	AnnualSavings    float64 `json:"annual_savings"`
	LowerBound       float64 `json:"lower_bound"`
	UpperBound       float64 `json:"upper_bound"`
	Confidence       float64 `json:"confidence"` // 0-100
}
