package schema

import "time"

// ClassificationFactor explains one contribution to a classification
// decision, for debugging and operator-facing output.
type ClassificationFactor struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// RecommendedResponse is the maintenance window derived from urgency.
type RecommendedResponse struct {
	Within         time.Duration `json:"within"`
	BusinessImpact Severity      `json:"business_impact"`
}

// ClassificationResult is the classifier's output for one pattern.
// Derived purely from a DetectedPattern; it has no independent lifecycle.
type ClassificationResult struct {
	PatternID          string                 `json:"pattern_id"`
	SensorID           string                 `json:"sensor_id"`
	EquipmentType      EquipmentType          `json:"equipment_type"`
	OriginalType       PatternType            `json:"original_type"`
	ClassifiedType     ClassifiedPatternType  `json:"classified_type"`
	Severity           Severity               `json:"severity"` // possibly escalated, never de-escalated
	ConfidenceScore    float64                `json:"confidence_score"`
	Factors            []ClassificationFactor `json:"classification_factors"`
	RiskScore          float64                `json:"risk_score"`          // 0-100
	UrgencyLevel       UrgencyLevel           `json:"urgency_level"`
	FailureProbability float64                `json:"failure_probability"` // 0-100
	Response           RecommendedResponse    `json:"recommended_response"`
}
