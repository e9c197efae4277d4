package core

import (
	"math"

	"github.com/faultline-io/faultline/core/stats"
	"github.com/faultline-io/faultline/schema"
)

// ComputeMetrics derives the per-sensor statistics batch used by detection,
// classification and reporting. The percentile rank is that of the most
// recent reading against the whole batch.
func ComputeMetrics(values []float64, seasonalLag int) schema.StatisticalMetrics {
	if len(values) == 0 {
		return schema.StatisticalMetrics{}
	}

	mean := stats.Mean(values)
	sd := stats.StdDev(values)

	var avgZ float64
	if sd > 0 {
		var sum float64
		for _, v := range values {
			sum += math.Abs(v-mean) / sd
		}
		avgZ = sum / float64(len(values))
	}

	return schema.StatisticalMetrics{
		Mean:                mean,
		StdDeviation:        sd,
		Variance:            stats.Variance(values),
		Median:              stats.Median(values),
		Q1:                  stats.Percentile(values, 25),
		Q3:                  stats.Percentile(values, 75),
		AvgZScore:           avgZ,
		PercentileRank:      stats.PercentileRank(values, values[len(values)-1]),
		NormalityScore:      stats.NormalityScore(values),
		SeasonalityStrength: stats.SeasonalityStrength(values, seasonalLag),
	}
}
