package core

import (
	"math"
	"sort"

	"github.com/faultline-io/faultline/core/stats"
	"github.com/faultline-io/faultline/schema"
)

// Classifier refines detected patterns into maintenance-oriented failure
// categories and scores their operational risk. Construct once per
// configuration; safe for concurrent use.
type Classifier struct {
	cfg schema.ClassifierConfig
}

// NewClassifier returns a Classifier for the given configuration.
func NewClassifier(cfg schema.ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// patternFeatures are the temporal characteristics extracted from a
// pattern's data points that drive the classification cascade.
type patternFeatures struct {
	anomalyCount  int
	pointCount    int
	consistency   float64 // anomalous fraction of the points spanning the anomalies
	durationHours float64 // wall time between first and last anomaly
	trendPerHour  float64 // least-squares slope of value over time
	periodicity   float64 // 0-1 daily-cycle strength
	volatility    float64 // 0-1 coefficient of variation, clamped
}

// ClassifyPatterns classifies each pattern and returns the results ordered
// by descending risk score. The sort is stable, so equal-risk patterns keep
// their input order.
func (c *Classifier) ClassifyPatterns(patterns []schema.DetectedPattern) []schema.ClassificationResult {
	results := make([]schema.ClassificationResult, len(patterns))
	for i, p := range patterns {
		results[i] = c.ClassifyPattern(p)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RiskScore > results[j].RiskScore
	})
	return results
}

// ClassifyPattern runs the rule cascade on one pattern and derives its risk
// score, urgency, failure probability and recommended response. The input
// pattern is expected to carry at least one data point; the detector never
// emits one without.
func (c *Classifier) ClassifyPattern(p schema.DetectedPattern) schema.ClassificationResult {
	f := extractFeatures(p)
	classified := c.classify(p, f)

	result := schema.ClassificationResult{
		PatternID:       p.ID,
		SensorID:        p.SensorID,
		EquipmentType:   p.EquipmentType,
		OriginalType:    p.PatternType,
		ClassifiedType:  classified,
		Severity:        p.Severity,
		ConfidenceScore: p.ConfidenceScore,
	}

	result.RiskScore, result.Factors = c.riskScore(p, f)
	result.UrgencyLevel = urgencyFor(p, result.RiskScore)
	result.FailureProbability = failureProbability(p, classified, result.RiskScore)
	result.Severity = escalateSeverity(p.Severity, result.RiskScore, result.FailureProbability)
	result.Response = responseFor(result.UrgencyLevel, p.Severity, result.Severity)
	return result
}

// classify applies the priority-ordered rule cascade. Earlier rules
// represent graver failure modes and win outright.
func (c *Classifier) classify(p schema.DetectedPattern, f patternFeatures) schema.ClassifiedPatternType {
	switch {
	case p.Severity == schema.SeverityCritical && len(p.Metadata.CorrelatedSensors) > 0:
		return schema.CascadeRisk
	case p.PatternType == schema.ThresholdPattern:
		return schema.ThresholdBreach
	case (f.durationHours >= c.cfg.SustainedHours && f.consistency > 0.8) ||
		(f.pointCount >= 30 && f.consistency > 0.9):
		return schema.SustainedFailure
	case f.anomalyCount >= c.cfg.IntermittentCount && f.consistency > 0.15 && f.consistency < 0.6:
		return schema.IntermittentFailure
	case math.Abs(f.trendPerHour) >= c.cfg.DegradationPerHour:
		return schema.GradualDegradation
	case p.PatternType == schema.SeasonalPattern || f.periodicity > 0.6:
		return schema.CyclicPattern
	default:
		return schema.SuddenSpike
	}
}

// extractFeatures derives the temporal features from a pattern's annotated
// data points.
func extractFeatures(p schema.DetectedPattern) patternFeatures {
	points := p.DataPoints
	f := patternFeatures{pointCount: len(points)}
	if len(points) == 0 {
		return f
	}

	firstAnom, lastAnom := -1, -1
	values := make([]float64, len(points))
	for i, dp := range points {
		values[i] = dp.Value
		if dp.IsAnomaly {
			f.anomalyCount++
			if firstAnom < 0 {
				firstAnom = i
			}
			lastAnom = i
		}
	}

	if f.anomalyCount > 0 {
		span := lastAnom - firstAnom + 1
		f.consistency = float64(f.anomalyCount) / float64(span)
		f.durationHours = points[lastAnom].Timestamp.Sub(points[firstAnom].Timestamp).Hours()
	}

	f.trendPerHour = trendPerHour(points)

	f.periodicity = p.Metadata.Stats.SeasonalityStrength
	if f.periodicity == 0 {
		f.periodicity = stats.SeasonalityStrength(values, schema.DefaultSeasonalLag)
	}

	mean := stats.Mean(values)
	sd := stats.StdDev(values)
	switch {
	case mean != 0:
		f.volatility = stats.Clamp(sd/math.Abs(mean), 0, 1)
	case sd > 0:
		f.volatility = 1
	}
	return f
}

// trendPerHour fits value against elapsed hours with least squares.
// Returns 0 when timestamps are degenerate.
func trendPerHour(points []schema.PatternDataPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	t0 := points[0].Timestamp
	var sumX, sumY, sumXY, sumX2 float64
	for _, dp := range points {
		x := dp.Timestamp.Sub(t0).Hours()
		sumX += x
		sumY += dp.Value
		sumXY += x * dp.Value
		sumX2 += x * x
	}
	n := float64(len(points))
	den := n*sumX2 - sumX*sumX
	if den == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / den
}
