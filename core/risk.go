package core

import (
	"time"

	"github.com/faultline-io/faultline/core/stats"
	"github.com/faultline-io/faultline/schema"
)

// Urgency risk thresholds. High-criticality equipment (power, fire,
// security) lowers the immediate bar from 75 to 70.
const (
	immediateRiskBar     = 75.0
	immediateHighCritBar = 70.0
	urgentRiskBar        = 70.0
	scheduledRiskBar     = 50.0
)

// criticalResponseCap bounds the recommended response window when the
// detector already flagged the pattern critical.
const criticalResponseCap = 4 * time.Hour

// failureTypeFactor scales failure probability by the gravity of the
// classified failure mode.
var failureTypeFactor = map[schema.ClassifiedPatternType]float64{
	schema.CascadeRisk:         1.3,
	schema.SustainedFailure:    1.2,
	schema.ThresholdBreach:     1.1,
	schema.GradualDegradation:  1.0,
	schema.IntermittentFailure: 0.9,
	schema.SuddenSpike:         0.85,
	schema.CyclicPattern:       0.7,
}

// responseWindow maps urgency to the recommended maintenance window.
var responseWindow = map[schema.UrgencyLevel]time.Duration{
	schema.UrgencyImmediate: 2 * time.Hour,
	schema.UrgencyUrgent:    8 * time.Hour,
	schema.UrgencyScheduled: 48 * time.Hour,
	schema.UrgencyMonitor:   168 * time.Hour,
}

// riskScore combines confidence, severity, equipment criticality and
// historical behavior into a 0-100 score, damped by data quality and
// amplified by sensor correlation.
func (c *Classifier) riskScore(p schema.DetectedPattern, f patternFeatures) (float64, []schema.ClassificationFactor) {
	confidence := p.ConfidenceScore
	severity := severityFactor(p.Severity)
	criticality := c.cfg.CriticalityFor(p.EquipmentType)
	history := historicalAccuracy(p.Metadata.Stats)

	base := schema.RiskWeightConfidence*confidence +
		schema.RiskWeightSeverity*severity +
		schema.RiskWeightCriticality*criticality +
		schema.RiskWeightHistory*history

	// Small batches get a damped score: full weight from 15 points up.
	quality := min(1.0, 0.65+0.35*float64(f.pointCount)/15)
	correlation := 1 + 0.2*float64(len(p.Metadata.CorrelatedSensors))

	score := stats.Clamp(base*quality*correlation, 0, 100)
	factors := []schema.ClassificationFactor{
		{Name: "confidence", Value: confidence, Weight: schema.RiskWeightConfidence},
		{Name: "severity", Value: severity, Weight: schema.RiskWeightSeverity},
		{Name: "equipment_criticality", Value: criticality, Weight: schema.RiskWeightCriticality},
		{Name: "historical_accuracy", Value: history, Weight: schema.RiskWeightHistory},
		{Name: "data_quality", Value: quality, Weight: 0},
		{Name: "correlation_multiplier", Value: correlation, Weight: 0},
	}
	return score, factors
}

// severityFactor maps severity to its 0-100 risk contribution.
func severityFactor(s schema.Severity) float64 {
	switch s {
	case schema.SeverityCritical:
		return 100
	case schema.SeverityWarning:
		return 65
	default:
		return 30
	}
}

// urgencyFor derives the urgency ladder rung from severity, risk and
// confidence.
func urgencyFor(p schema.DetectedPattern, risk float64) schema.UrgencyLevel {
	if p.Severity == schema.SeverityCritical {
		bar := immediateRiskBar
		if _, ok := schema.HighCriticalityTypes[p.EquipmentType]; ok {
			bar = immediateHighCritBar
		}
		if risk >= bar || p.ConfidenceScore >= 95 {
			return schema.UrgencyImmediate
		}
	}
	switch {
	case risk >= urgentRiskBar || p.Severity == schema.SeverityCritical:
		return schema.UrgencyUrgent
	case risk >= scheduledRiskBar || p.Severity == schema.SeverityWarning:
		return schema.UrgencyScheduled
	default:
		return schema.UrgencyMonitor
	}
}

// failureProbability estimates the 0-100 chance this pattern precedes an
// equipment failure, scaled by the classified failure mode.
func failureProbability(p schema.DetectedPattern, classified schema.ClassifiedPatternType, risk float64) float64 {
	severityContribution := 5.0
	switch p.Severity {
	case schema.SeverityCritical:
		severityContribution = 25
	case schema.SeverityWarning:
		severityContribution = 15
	}
	raw := 0.55*p.ConfidenceScore + 0.35*risk + 0.10*severityContribution

	factor, ok := failureTypeFactor[classified]
	if !ok {
		factor = 1.0
	}
	return stats.Clamp(raw*factor, 0, 100)
}

// escalateSeverity raises severity when risk or failure probability demand
// it. It never lowers the detector's severity.
func escalateSeverity(severity schema.Severity, risk, probability float64) schema.Severity {
	switch {
	case risk >= 85 || probability >= 90:
		return maxSeverity(severity, schema.SeverityCritical)
	case risk >= 65 || probability >= 75:
		return maxSeverity(severity, schema.SeverityWarning)
	default:
		return severity
	}
}

// responseFor maps urgency to the recommended maintenance window. An
// originally critical detection caps the window at 4 hours and forces a
// critical business impact regardless of urgency.
func responseFor(urgency schema.UrgencyLevel, originalSeverity, finalSeverity schema.Severity) schema.RecommendedResponse {
	within, ok := responseWindow[urgency]
	if !ok {
		within = responseWindow[schema.UrgencyMonitor]
	}
	impact := finalSeverity
	if originalSeverity == schema.SeverityCritical {
		if within > criticalResponseCap {
			within = criticalResponseCap
		}
		impact = schema.SeverityCritical
	}
	return schema.RecommendedResponse{Within: within, BusinessImpact: impact}
}
