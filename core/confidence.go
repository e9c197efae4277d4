package core

import (
	"github.com/faultline-io/faultline/core/stats"
	"github.com/faultline-io/faultline/schema"
)

// Per-algorithm confidence multipliers. The modified Z-score is more robust
// to the outliers it hunts, so its hits score slightly higher; the IQR and
// moving-average methods are noisier and score slightly lower.
var algorithmConfidenceMultiplier = map[schema.DetectionAlgorithm]float64{
	schema.ZScoreAlgorithm:         1.0,
	schema.ModifiedZScoreAlgorithm: 1.1,
	schema.IQRAlgorithm:            0.9,
	schema.MovingAverageAlgorithm:  0.95,
	schema.SeasonalAlgorithm:       1.0,
}

// statisticalConfidence maps a deviation ratio to a 0-100 confidence. A hit
// exactly at the threshold (ratio 1.0) scores 75, above the default floor
// of 60, so marginal detections survive filtering with room to spare.
func statisticalConfidence(ratio float64) float64 {
	return stats.Clamp(50+25*ratio, 0, 100)
}

// historicalAccuracy estimates how trustworthy past detections on this
// series would have been. With no recorded accuracy the normality score
// stands in; a fully degenerate series falls back to the documented default.
func historicalAccuracy(m schema.StatisticalMetrics) float64 {
	if m.NormalityScore > 0 {
		return m.NormalityScore
	}
	return schema.DefaultHistoricalAccuracy
}

// hitConfidence scores one raw hit under the configured confidence method
// and applies the per-algorithm multiplier.
func (d *Detector) hitConfidence(hit rawHit, m schema.StatisticalMetrics) float64 {
	statistical := statisticalConfidence(hit.ratio)

	var conf float64
	switch d.cfg.ConfidenceMethod {
	case schema.HistoricalConfidence:
		conf = 0.7*statistical + 0.3*historicalAccuracy(m)
	case schema.EnsembleConfidence:
		historical := 0.7*statistical + 0.3*historicalAccuracy(m)
		conf = 0.6*statistical + 0.4*historical
	default:
		conf = statistical
	}

	mult, ok := algorithmConfidenceMultiplier[d.cfg.Algorithm]
	if !ok {
		mult = 1.0
	}
	return stats.Clamp(conf*mult, 0, 100)
}
