package core

import (
	"testing"
	"time"

	"github.com/faultline-io/faultline/schema"
	"github.com/stretchr/testify/assert"
)

// makePattern builds a classifiable pattern from hourly values with the
// given indices marked anomalous.
func makePattern(values []float64, anomalies []int) schema.DetectedPattern {
	anomalous := make(map[int]bool, len(anomalies))
	for _, i := range anomalies {
		anomalous[i] = true
	}

	points := make([]schema.PatternDataPoint, len(values))
	for i, v := range values {
		points[i] = schema.PatternDataPoint{
			Timestamp: testStart.Add(time.Duration(i) * time.Hour),
			Value:     v,
			IsAnomaly: anomalous[i],
		}
	}
	return schema.DetectedPattern{
		ID:              "pat-test",
		Timestamp:       testStart,
		SensorID:        "sensor-1",
		EquipmentType:   schema.HVACEquipment,
		PatternType:     schema.SpikePattern,
		Severity:        schema.SeverityInfo,
		ConfidenceScore: 70,
		DataPoints:      points,
		Metadata: schema.PatternMetadata{
			DetectionAlgorithm: schema.ZScoreAlgorithm,
			Stats:              schema.StatisticalMetrics{NormalityScore: 80},
		},
	}
}

func flat(n int, v float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return values
}

// TestClassifyCascadeRiskWinsPriority checks a critical correlated pattern
// is cascade_risk even when its shape matches sustained_failure.
func TestClassifyCascadeRiskWinsPriority(t *testing.T) {
	c := NewClassifier(schema.DefaultClassifierConfig())

	p := makePattern(flat(40, 100), seq(0, 40)) // every point anomalous for 39h
	p.Severity = schema.SeverityCritical
	p.Metadata.CorrelatedSensors = []string{"sensor-2"}

	result := c.ClassifyPattern(p)
	assert.Equal(t, schema.CascadeRisk, result.ClassifiedType)

	// Without correlation the same shape is a sustained failure.
	p.Metadata.CorrelatedSensors = nil
	assert.Equal(t, schema.SustainedFailure, c.ClassifyPattern(p).ClassifiedType)
}

// TestClassifyThresholdBreach checks the detector's threshold tag wins over
// shape-based rules.
func TestClassifyThresholdBreach(t *testing.T) {
	c := NewClassifier(schema.DefaultClassifierConfig())

	p := makePattern(flat(40, 100), seq(0, 40))
	p.PatternType = schema.ThresholdPattern

	assert.Equal(t, schema.ThresholdBreach, c.ClassifyPattern(p).ClassifiedType)
}

// TestClassifySustainedFailure covers both sustained rule arms.
func TestClassifySustainedFailure(t *testing.T) {
	c := NewClassifier(schema.DefaultClassifierConfig())

	t.Run("long dense anomaly run", func(t *testing.T) {
		p := makePattern(flat(12, 100), seq(0, 12)) // 11 hours, consistency 1.0
		assert.Equal(t, schema.SustainedFailure, c.ClassifyPattern(p).ClassifiedType)
	})

	t.Run("short run below duration threshold", func(t *testing.T) {
		p := makePattern(flat(4, 100), seq(0, 4)) // 3 hours < 6
		assert.NotEqual(t, schema.SustainedFailure, c.ClassifyPattern(p).ClassifiedType)
	})
}

// TestClassifyIntermittentFailure checks scattered repeating anomalies.
func TestClassifyIntermittentFailure(t *testing.T) {
	c := NewClassifier(schema.DefaultClassifierConfig())

	// 5 anomalies over a 33-point span: consistency ~0.15, count at the bar.
	p := makePattern(flat(40, 100), []int{0, 8, 16, 24, 32})

	assert.Equal(t, schema.IntermittentFailure, c.ClassifyPattern(p).ClassifiedType)
}

// TestClassifyGradualDegradation checks the trend-rate rule in both
// directions.
func TestClassifyGradualDegradation(t *testing.T) {
	c := NewClassifier(schema.DefaultClassifierConfig())

	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(i) * 0.2 // 0.2 per hour
	}
	p := makePattern(rising, []int{3, 18})
	assert.Equal(t, schema.GradualDegradation, c.ClassifyPattern(p).ClassifiedType)

	falling := make([]float64, 20)
	for i := range falling {
		falling[i] = 100 - float64(i)*0.2
	}
	p = makePattern(falling, []int{3, 18})
	assert.Equal(t, schema.GradualDegradation, c.ClassifyPattern(p).ClassifiedType)
}

// TestClassifyCyclicPattern checks the seasonal tag and periodicity paths.
func TestClassifyCyclicPattern(t *testing.T) {
	c := NewClassifier(schema.DefaultClassifierConfig())

	t.Run("seasonal detector tag", func(t *testing.T) {
		p := makePattern(flat(10, 100), nil)
		p.PatternType = schema.SeasonalPattern
		assert.Equal(t, schema.CyclicPattern, c.ClassifyPattern(p).ClassifiedType)
	})

	t.Run("strong periodicity", func(t *testing.T) {
		p := makePattern(flat(10, 100), nil)
		p.Metadata.Stats.SeasonalityStrength = 0.8
		assert.Equal(t, schema.CyclicPattern, c.ClassifyPattern(p).ClassifiedType)
	})
}

// TestClassifySuddenSpikeFallback checks the default bucket.
func TestClassifySuddenSpikeFallback(t *testing.T) {
	c := NewClassifier(schema.DefaultClassifierConfig())

	p := makePattern(flat(10, 100), []int{4})

	assert.Equal(t, schema.SuddenSpike, c.ClassifyPattern(p).ClassifiedType)
}

// TestClassifyPatternsSortedByRisk checks descending risk order with a
// stable tie break.
func TestClassifyPatternsSortedByRisk(t *testing.T) {
	c := NewClassifier(schema.DefaultClassifierConfig())

	low := makePattern(flat(10, 100), []int{4})
	low.ID = "pat-low"
	low.ConfidenceScore = 40

	high := makePattern(flat(10, 100), []int{4})
	high.ID = "pat-high"
	high.Severity = schema.SeverityCritical
	high.ConfidenceScore = 95

	tieA := makePattern(flat(10, 100), []int{4})
	tieA.ID = "pat-tie-a"
	tieB := makePattern(flat(10, 100), []int{4})
	tieB.ID = "pat-tie-b"

	results := c.ClassifyPatterns([]schema.DetectedPattern{low, tieA, tieB, high})

	assert.Len(t, results, 4)
	assert.Equal(t, "pat-high", results[0].PatternID)
	assert.Equal(t, "pat-low", results[3].PatternID)
	// Equal-risk patterns keep their input order.
	assert.Equal(t, "pat-tie-a", results[1].PatternID)
	assert.Equal(t, "pat-tie-b", results[2].PatternID)
}

// TestExtractFeatures checks the derived temporal features.
func TestExtractFeatures(t *testing.T) {
	p := makePattern(flat(40, 100), []int{0, 8, 16, 24, 32})

	f := extractFeatures(p)

	assert.Equal(t, 5, f.anomalyCount)
	assert.Equal(t, 40, f.pointCount)
	assert.InDelta(t, 5.0/33.0, f.consistency, 0.0001)
	assert.InDelta(t, 32, f.durationHours, 0.0001)
	assert.Zero(t, f.trendPerHour)
	assert.Zero(t, f.volatility)
}

// TestExtractFeaturesNoAnomalies checks a pattern without flagged points.
func TestExtractFeaturesNoAnomalies(t *testing.T) {
	f := extractFeatures(makePattern(flat(10, 100), nil))

	assert.Zero(t, f.anomalyCount)
	assert.Zero(t, f.consistency)
	assert.Zero(t, f.durationHours)
}

// seq returns [lo, hi) as a slice of ints.
func seq(lo, hi int) []int {
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}
