package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/faultline-io/faultline/core/stats"
	"github.com/faultline-io/faultline/schema"
)

// Savings scenarios are fixed ladders; bounds widen with data spread.
var savingsLadder = []struct {
	name      string
	reduction float64 // percent
	baseConf  float64
}{
	{"conservative", 5, 85},
	{"moderate", 10, 70},
	{"aggressive", 15, 50},
}

// hoursPerYear annualizes a mean hourly reading.
const hoursPerYear = 24 * 365

// peakTariffPremium is the assumed cost premium of peak-hour energy over
// the blended rate. Shifting load out of the peak window saves only this
// fraction, not the full rate.
const peakTariffPremium = 0.30

// Validator computes confidence-bounded business insights from the same
// readings the detector consumes. Construct once per configuration; safe
// for concurrent use.
type Validator struct {
	cfg   schema.ValidationConfig
	clock Clock
	ids   IDGenerator
}

// NewValidator returns a Validator with the system clock and UUID identifiers.
func NewValidator(cfg schema.ValidationConfig) *Validator {
	return NewValidatorWithDeps(cfg, SystemClock{}, UUIDGenerator{})
}

// NewValidatorWithDeps injects the clock and ID source, for deterministic tests.
func NewValidatorWithDeps(cfg schema.ValidationConfig, clock Clock, ids IDGenerator) *Validator {
	return &Validator{cfg: cfg, clock: clock, ids: ids}
}

// Insights produces trend and data-quality insights per sensor plus one
// building-wide peak-load insight. Sensors with fewer than three readings
// are skipped; every insight carries its bounds and caveats.
func (v *Validator) Insights(data []schema.TimeSeriesPoint) []schema.ValidatedInsight {
	var insights []schema.ValidatedInsight
	for _, g := range groupBySensor(data) {
		if len(g.points) < 3 {
			continue
		}
		insights = append(insights, v.trendInsight(g))
		insights = append(insights, v.dataQualityInsight(g))
	}
	if peak, ok := v.peakLoadInsight(data); ok {
		insights = append(insights, peak)
	}
	return insights
}

// trendInsight fits a linear trend over time and bounds the slope with its
// standard error.
func (v *Validator) trendInsight(g sensorGroup) schema.ValidatedInsight {
	n := len(g.points)
	t0 := g.points[0].Timestamp
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range g.points {
		xs[i] = p.Timestamp.Sub(t0).Hours()
		ys[i] = p.Value
	}

	slope, stderr := slopeWithError(xs, ys)
	var tStat float64
	switch {
	case stderr > 0:
		tStat = math.Abs(slope) / stderr
	case slope != 0:
		// Exact fit: the trend explains every point.
		tStat = math.Inf(1)
	}

	insight := schema.ValidatedInsight{
		ID:          v.ids.NewID("ins"),
		Kind:        schema.TrendInsight,
		SensorID:    g.sensorID,
		Metric:      "value_change_per_hour",
		Value:       slope,
		LowerBound:  slope - 1.96*stderr,
		UpperBound:  slope + 1.96*stderr,
		Confidence:  stats.Clamp(50+10*tStat, 0, 99),
		SampleSize:  n,
		Method:      "least_squares",
		GeneratedAt: v.clock.Now(),
	}
	if n < 10 {
		insight.Caveats = append(insight.Caveats, "small sample, trend may not persist")
	}
	if tStat < 2 {
		insight.Caveats = append(insight.Caveats, "slope not distinguishable from zero at 95% confidence")
	}
	return insight
}

// dataQualityInsight reports how normally distributed and complete a
// sensor's readings are.
func (v *Validator) dataQualityInsight(g sensorGroup) schema.ValidatedInsight {
	values := make([]float64, len(g.points))
	for i, p := range g.points {
		values[i] = p.Value
	}

	normality := stats.NormalityScore(values)
	span := g.points[len(g.points)-1].Timestamp.Sub(g.points[0].Timestamp).Hours()
	completeness := 100.0
	if span >= 1 {
		completeness = stats.Clamp(float64(len(g.points))/span*100, 0, 100)
	}
	score := (normality + completeness) / 2

	insight := schema.ValidatedInsight{
		ID:          v.ids.NewID("ins"),
		Kind:        schema.DataQualityInsight,
		SensorID:    g.sensorID,
		Metric:      "quality_score",
		Value:       score,
		LowerBound:  math.Min(normality, completeness),
		UpperBound:  math.Max(normality, completeness),
		Confidence:  stats.Clamp(float64(len(g.points))*2, 0, 95),
		SampleSize:  len(g.points),
		Method:      "empirical_rule_and_coverage",
		GeneratedAt: v.clock.Now(),
	}
	if completeness < 50 {
		insight.Caveats = append(insight.Caveats, "sparse readings, less than one per two hours")
	}
	return insight
}

// peakLoadInsight finds the hour-of-day with the highest mean reading
// across all sensors and reports its multiplier over the overall mean.
func (v *Validator) peakLoadInsight(data []schema.TimeSeriesPoint) (schema.ValidatedInsight, bool) {
	if len(data) == 0 {
		return schema.ValidatedInsight{}, false
	}

	var sums, counts [24]float64
	var overall float64
	for _, p := range data {
		h := p.Timestamp.Hour()
		sums[h] += p.Value
		counts[h]++
		overall += p.Value
	}
	overall /= float64(len(data))
	if overall == 0 {
		return schema.ValidatedInsight{}, false
	}

	peakHour, peakMean, peakCount := 0, math.Inf(-1), 0.0
	for h := range sums {
		if counts[h] == 0 {
			continue
		}
		if m := sums[h] / counts[h]; m > peakMean {
			peakHour, peakMean, peakCount = h, m, counts[h]
		}
	}
	if math.IsInf(peakMean, -1) {
		return schema.ValidatedInsight{}, false
	}

	// Spread of the per-hour values around the peak bucket mean.
	var peakVals []float64
	for _, p := range data {
		if p.Timestamp.Hour() == peakHour {
			peakVals = append(peakVals, p.Value)
		}
	}
	sd := stats.StdDev(peakVals)
	multiplier := peakMean / math.Abs(overall)

	insight := schema.ValidatedInsight{
		ID:          v.ids.NewID("ins"),
		Kind:        schema.PeakLoadInsight,
		SensorID:    "all",
		Metric:      fmt.Sprintf("peak_multiplier_hour_%02d", peakHour),
		Value:       multiplier,
		LowerBound:  (peakMean - 1.96*sd/math.Sqrt(peakCount)) / math.Abs(overall),
		UpperBound:  (peakMean + 1.96*sd/math.Sqrt(peakCount)) / math.Abs(overall),
		Confidence:  stats.Clamp(peakCount*10, 0, 95),
		SampleSize:  int(peakCount),
		Method:      "hourly_bucket_means",
		GeneratedAt: v.clock.Now(),
	}
	if peakCount < 5 {
		insight.Caveats = append(insight.Caveats, "few readings in the peak hour")
	}
	return insight, true
}

// Savings estimates annual cost savings under fixed consumption-reduction
// scenarios, with bounds widened by the data's coefficient of variation,
// plus a peak-shift scenario when the daily profile has excess peak load.
// Readings are treated as mean hourly consumption in kWh.
func (v *Validator) Savings(data []schema.TimeSeriesPoint) []schema.SavingsScenario {
	if len(data) == 0 {
		return nil
	}
	values := make([]float64, len(data))
	for i, p := range data {
		values[i] = p.Value
	}
	mean := stats.Mean(values)
	if mean <= 0 {
		return nil
	}
	cov := stats.StdDev(values) / mean
	annualCost := mean * hoursPerYear * v.cfg.EnergyRatePerKWh

	scenarios := make([]schema.SavingsScenario, 0, len(savingsLadder)+1)
	for _, s := range savingsLadder {
		savings := annualCost * s.reduction / 100
		spread := savings * stats.Clamp(cov, 0, 1)
		scenarios = append(scenarios, schema.SavingsScenario{
			Name:             s.name,
			ReductionPercent: s.reduction,
			AnnualSavings:    savings,
			LowerBound:       math.Max(0, savings-spread),
			UpperBound:       savings + spread,
			Confidence:       stats.Clamp(s.baseConf-20*cov, 10, 95),
		})
	}
	if shift, ok := v.peakShiftScenario(data, mean, cov); ok {
		scenarios = append(scenarios, shift)
	}
	return scenarios
}

// peakShiftScenario estimates the savings from moving load out of the
// costliest hours of the day. The shiftable energy is the excess of the
// top peak-window hourly means over the overall mean, capped at one peak
// window's worth of average consumption per day, and is valued at the
// peak tariff premium rather than the full energy rate.
func (v *Validator) peakShiftScenario(data []schema.TimeSeriesPoint, mean, cov float64) (schema.SavingsScenario, bool) {
	window := v.cfg.PeakWindowHours
	if window <= 0 || window >= 24 {
		return schema.SavingsScenario{}, false
	}

	var sums, counts [24]float64
	for _, p := range data {
		h := p.Timestamp.Hour()
		sums[h] += p.Value
		counts[h]++
	}

	var hourMeans []float64
	for h := range sums {
		if counts[h] > 0 {
			hourMeans = append(hourMeans, sums[h]/counts[h])
		}
	}
	if len(hourMeans) <= window {
		return schema.SavingsScenario{}, false
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(hourMeans)))

	var shiftablePerDay float64
	for _, m := range hourMeans[:window] {
		if m > mean {
			shiftablePerDay += m - mean
		}
	}
	if shiftablePerDay <= 0 {
		return schema.SavingsScenario{}, false
	}
	shiftablePerDay = math.Min(shiftablePerDay, float64(window)*mean)

	savings := shiftablePerDay * 365 * v.cfg.EnergyRatePerKWh * peakTariffPremium
	spread := savings * stats.Clamp(cov, 0, 1)
	return schema.SavingsScenario{
		Name:             "peak_shift",
		ReductionPercent: shiftablePerDay / (mean * 24) * 100,
		AnnualSavings:    savings,
		LowerBound:       math.Max(0, savings-spread),
		UpperBound:       savings + spread,
		Confidence:       stats.Clamp(60-20*cov, 10, 95),
	}, true
}

// slopeWithError returns the least-squares slope of ys on xs and the
// standard error of that slope. Needs at least three points for the error
// estimate; with fewer the error is 0.
func slopeWithError(xs, ys []float64) (slope, stderr float64) {
	n := len(xs)
	if n < 2 {
		return 0, 0
	}
	meanX := stats.Mean(xs)
	meanY := stats.Mean(ys)

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}
	if sxx == 0 {
		return 0, 0
	}
	slope = sxy / sxx
	if n < 3 {
		return slope, 0
	}

	intercept := meanY - slope*meanX
	var sse float64
	for i := range xs {
		r := ys[i] - (intercept + slope*xs[i])
		sse += r * r
	}
	stderr = math.Sqrt(sse / float64(n-2) / sxx)
	return slope, stderr
}

// SortInsights orders insights by sensor then kind for stable output.
func SortInsights(insights []schema.ValidatedInsight) {
	sort.SliceStable(insights, func(i, j int) bool {
		if insights[i].SensorID != insights[j].SensorID {
			return insights[i].SensorID < insights[j].SensorID
		}
		return insights[i].Kind < insights[j].Kind
	})
}
