package core

import (
	"math"

	"github.com/faultline-io/faultline/core/stats"
	"github.com/faultline-io/faultline/schema"
)

// modifiedZConstant rescales the MAD so the modified Z-score is comparable
// to a standard Z-score under normality.
const modifiedZConstant = 0.6745

// movingWindowCap bounds the moving-average window size.
const movingWindowCap = 20

// rawHit is a candidate anomaly before confidence filtering. The ratio is
// the observed deviation divided by the configured threshold, so a value
// just past the threshold has ratio ~1.0.
type rawHit struct {
	index    int
	expected float64
	ratio    float64
	ptype    schema.PatternType
}

// detectSpikes runs one of the spike-family algorithms (plain or modified
// Z-score) against the whole batch distribution.
func (d *Detector) detectSpikes(values []float64, m schema.StatisticalMetrics) []rawHit {
	var hits []rawHit
	threshold := d.cfg.ThresholdMultiplier

	switch d.cfg.Algorithm {
	case schema.ModifiedZScoreAlgorithm:
		mad := stats.MAD(values, m.Median)
		if mad == 0 {
			return nil
		}
		for i, v := range values {
			mz := math.Abs(modifiedZConstant * (v - m.Median) / mad)
			if mz > threshold {
				hits = append(hits, rawHit{
					index:    i,
					expected: m.Median,
					ratio:    mz / threshold,
					ptype:    schema.SpikePattern,
				})
			}
		}
	default: // plain zscore
		if m.StdDeviation == 0 {
			return nil
		}
		for i, v := range values {
			z := math.Abs(v-m.Mean) / m.StdDeviation
			if z > threshold {
				hits = append(hits, rawHit{
					index:    i,
					expected: m.Mean,
					ratio:    z / threshold,
					ptype:    schema.SpikePattern,
				})
			}
		}
	}
	return hits
}

// detectIQR flags values outside the Tukey fences. The fence width scales
// with the sensitivity knob: sensitivity 5 is the classic 1.5*IQR, lower
// values tighten the fence, higher values loosen it.
func (d *Detector) detectIQR(values []float64, m schema.StatisticalMetrics) []rawHit {
	iqr := m.Q3 - m.Q1
	if iqr == 0 {
		return nil
	}
	fence := 1.5 * iqr * (float64(d.cfg.Sensitivity) / float64(schema.DefaultSensitivity))
	lower := m.Q1 - fence
	upper := m.Q3 + fence

	var hits []rawHit
	for i, v := range values {
		var dist float64
		switch {
		case v < lower:
			dist = lower - v
		case v > upper:
			dist = v - upper
		default:
			continue
		}
		hits = append(hits, rawHit{
			index:    i,
			expected: m.Median,
			ratio:    1 + dist/iqr,
			ptype:    schema.SpikePattern,
		})
	}
	return hits
}

// detectMovingAverage flags values that deviate from a trailing local
// window. The window adapts to the batch size, capped at 20 points; the
// first window-length values have no trailing context and are never
// flagged.
func (d *Detector) detectMovingAverage(values []float64) []rawHit {
	n := len(values)
	w := min(movingWindowCap, n/5)
	if w < 2 {
		return nil
	}

	threshold := d.cfg.ThresholdMultiplier
	var hits []rawHit
	for i := w; i < n; i++ {
		window := values[i-w : i]
		localMean := stats.Mean(window)
		localSD := stats.StdDev(window)
		if localSD == 0 {
			continue
		}
		z := math.Abs(values[i]-localMean) / localSD
		if z > threshold {
			hits = append(hits, rawHit{
				index:    i,
				expected: localMean,
				ratio:    z / threshold,
				ptype:    schema.TrendPattern,
			})
		}
	}
	return hits
}

// detectSeasonal subtracts an hour-of-day profile and flags residual
// outliers. Needs at least MinSeasonalPoints readings to build a usable
// profile; shorter batches fall back to the plain Z-score.
func (d *Detector) detectSeasonal(points []schema.TimeSeriesPoint, values []float64, m schema.StatisticalMetrics) []rawHit {
	if len(points) < d.cfg.MinSeasonalPoints {
		return d.detectSpikes(values, m)
	}

	var sums, counts [24]float64
	for i, p := range points {
		h := p.Timestamp.Hour()
		sums[h] += values[i]
		counts[h]++
	}
	profile := make([]float64, 24)
	for h := range profile {
		if counts[h] > 0 {
			profile[h] = sums[h] / counts[h]
		} else {
			profile[h] = m.Mean
		}
	}

	residuals := make([]float64, len(values))
	for i, p := range points {
		residuals[i] = values[i] - profile[p.Timestamp.Hour()]
	}
	resMean := stats.Mean(residuals)
	resSD := stats.StdDev(residuals)
	if resSD == 0 {
		return nil
	}

	threshold := d.cfg.ThresholdMultiplier
	var hits []rawHit
	for i, r := range residuals {
		z := math.Abs(r-resMean) / resSD
		if z > threshold {
			hits = append(hits, rawHit{
				index:    i,
				expected: profile[points[i].Timestamp.Hour()],
				ratio:    z / threshold,
				ptype:    schema.SeasonalPattern,
			})
		}
	}
	return hits
}

// runAlgorithm dispatches to the configured detection algorithm.
func (d *Detector) runAlgorithm(points []schema.TimeSeriesPoint, values []float64, m schema.StatisticalMetrics) []rawHit {
	switch d.cfg.Algorithm {
	case schema.IQRAlgorithm:
		return d.detectIQR(values, m)
	case schema.MovingAverageAlgorithm:
		return d.detectMovingAverage(values)
	case schema.SeasonalAlgorithm:
		return d.detectSeasonal(points, values, m)
	default:
		return d.detectSpikes(values, m)
	}
}
