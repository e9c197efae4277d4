// Package stats provides the pure numeric routines shared by the detector,
// classifier and validation framework. Every function is total: degenerate
// input (empty slices, zero variance) returns 0 or a safe default instead
// of panicking.
package stats

import (
	"math"
	"sort"
)

// Theoretical normal fractions for the empirical-rule normality heuristic.
const (
	normalWithin1Sigma = 0.68
	normalWithin2Sigma = 0.95
)

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Variance returns the sample variance (n-1 denominator) of xs.
// Returns 0 for fewer than two values.
func Variance(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := Mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(n-1)
}

// StdDev returns the sample standard deviation of xs.
func StdDev(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// Median returns the median of xs, averaging the two middle elements for
// even lengths. The input is not modified.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// SortedPercentile returns the p-th percentile (0-100) of an already-sorted
// slice using linear interpolation between bracketing ranks.
func SortedPercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	idx := p / 100 * float64(n-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Percentile sorts a copy of xs and returns the p-th percentile.
func Percentile(xs []float64, p float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return SortedPercentile(sorted, p)
}

// PercentileRank returns the percentage of values in xs that are less than
// or equal to v.
func PercentileRank(xs []float64, v float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	count := 0
	for _, x := range xs {
		if x <= v {
			count++
		}
	}
	return float64(count) / float64(len(xs)) * 100
}

// MAD returns the median absolute deviation of xs from the given median.
func MAD(xs []float64, median float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	devs := make([]float64, len(xs))
	for i, x := range xs {
		devs[i] = math.Abs(x - median)
	}
	return Median(devs)
}

// Autocorrelation returns the Pearson correlation between xs[0:n-lag] and
// xs[lag:n], each centered on its own sub-series mean. Returns 0 when the
// lag leaves fewer than two overlapping points or either denominator is 0.
func Autocorrelation(xs []float64, lag int) float64 {
	n := len(xs)
	if lag <= 0 || n-lag < 2 {
		return 0
	}
	head := xs[:n-lag]
	tail := xs[lag:]
	mHead := Mean(head)
	mTail := Mean(tail)

	var num, denHead, denTail float64
	for i := range head {
		dh := head[i] - mHead
		dt := tail[i] - mTail
		num += dh * dt
		denHead += dh * dh
		denTail += dt * dt
	}
	if denHead == 0 || denTail == 0 {
		return 0
	}
	return num / math.Sqrt(denHead*denTail)
}

// NormalityScore returns a 0-100 score for how closely xs follows the
// empirical rule: the observed fractions within 1 and 2 standard deviations
// of the mean are compared against the theoretical 0.68 and 0.95.
//
// This is a lightweight heuristic, not a Shapiro-Wilk equivalent; it is
// kept deliberately because downstream scoring was tuned against it.
func NormalityScore(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	m := Mean(xs)
	sd := StdDev(xs)
	if sd == 0 {
		return 0
	}
	within1, within2 := 0, 0
	for _, x := range xs {
		d := math.Abs(x-m) / sd
		if d <= 1 {
			within1++
		}
		if d <= 2 {
			within2++
		}
	}
	f1 := float64(within1) / float64(n)
	f2 := float64(within2) / float64(n)
	score := 80 + 50*(f1-normalWithin1Sigma) + 50*(f2-normalWithin2Sigma)
	return Clamp(score, 0, 100)
}

// SeasonalityStrength returns the autocorrelation of xs at the given lag as
// a 0-1 strength estimate. A daily cycle on hourly data uses lag 24 and
// needs at least two full cycles (2*lag samples); anything shorter returns 0.
func SeasonalityStrength(xs []float64, lag int) float64 {
	if lag <= 0 || len(xs) < 2*lag {
		return 0
	}
	ac := Autocorrelation(xs, lag)
	if ac < 0 {
		return 0
	}
	return Clamp(ac, 0, 1)
}

// LinearTrendSlope returns the least-squares slope of xs against its index.
// Returns 0 for fewer than two values or a degenerate denominator.
func LinearTrendSlope(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range xs {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	fn := float64(n)
	den := fn*sumX2 - sumX*sumX
	if den == 0 {
		return 0
	}
	return (fn*sumXY - sumX*sumY) / den
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
