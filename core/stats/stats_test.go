package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMean tests the arithmetic mean including degenerate input.
func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "empty slice", values: []float64{}, expected: 0},
		{name: "single value", values: []float64{7}, expected: 7},
		{name: "mixed signs", values: []float64{-2, 2, -4, 4}, expected: 0},
		{name: "simple series", values: []float64{1, 2, 3, 4, 5}, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Mean(tt.values), 0.0001)
		})
	}
}

// TestVarianceAndStdDev checks the sample variance denominator.
func TestVarianceAndStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	// Sample variance of this classic series is 32/7.
	assert.InDelta(t, 32.0/7.0, Variance(values), 0.0001)
	assert.InDelta(t, math.Sqrt(32.0/7.0), StdDev(values), 0.0001)

	assert.Zero(t, Variance([]float64{5}))
	assert.Zero(t, Variance(nil))
}

// TestMedian covers odd, even and degenerate lengths.
func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "empty slice", values: nil, expected: 0},
		{name: "odd length", values: []float64{3, 1, 2}, expected: 2},
		{name: "even length", values: []float64{4, 1, 3, 2}, expected: 2.5},
		{name: "duplicates", values: []float64{5, 5, 5, 5}, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Median(tt.values), 0.0001)
		})
	}
}

// TestMedianDoesNotMutate ensures the input slice is left untouched.
func TestMedianDoesNotMutate(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

// TestPercentile checks linear interpolation between ranks.
func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		name     string
		p        float64
		expected float64
	}{
		{name: "minimum", p: 0, expected: 1},
		{name: "first quartile", p: 25, expected: 2},
		{name: "median", p: 50, expected: 3},
		{name: "interpolated", p: 10, expected: 1.4},
		{name: "maximum", p: 100, expected: 5},
		{name: "above range", p: 120, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Percentile(values, tt.p), 0.0001)
		})
	}

	assert.Zero(t, Percentile(nil, 50))
	assert.InDelta(t, 9.0, Percentile([]float64{9}, 75), 0.0001)
}

// TestPercentileRank verifies the fraction of values at or below v.
func TestPercentileRank(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	assert.InDelta(t, 25, PercentileRank(values, 10), 0.0001)
	assert.InDelta(t, 50, PercentileRank(values, 25), 0.0001)
	assert.InDelta(t, 100, PercentileRank(values, 100), 0.0001)
	assert.Zero(t, PercentileRank(values, 5))
	assert.Zero(t, PercentileRank(nil, 5))
}

// TestMAD verifies the median absolute deviation.
func TestMAD(t *testing.T) {
	values := []float64{1, 1, 2, 2, 4, 6, 9}
	med := Median(values)

	assert.InDelta(t, 2.0, med, 0.0001)
	assert.InDelta(t, 1.0, MAD(values, med), 0.0001)
	assert.Zero(t, MAD(nil, 0))
	assert.Zero(t, MAD([]float64{3, 3, 3}, 3))
}

// TestAutocorrelation covers periodic, constant and short series.
func TestAutocorrelation(t *testing.T) {
	t.Run("perfect period", func(t *testing.T) {
		series := []float64{1, 5, 1, 5, 1, 5, 1, 5}
		assert.InDelta(t, 1.0, Autocorrelation(series, 2), 0.0001)
	})

	t.Run("anti-correlated at lag one", func(t *testing.T) {
		series := []float64{1, 5, 1, 5, 1, 5, 1, 5}
		assert.Less(t, Autocorrelation(series, 1), -0.9)
	})

	t.Run("constant series", func(t *testing.T) {
		assert.Zero(t, Autocorrelation([]float64{4, 4, 4, 4}, 1))
	})

	t.Run("lag too large", func(t *testing.T) {
		assert.Zero(t, Autocorrelation([]float64{1, 2, 3}, 2))
	})

	t.Run("non-positive lag", func(t *testing.T) {
		assert.Zero(t, Autocorrelation([]float64{1, 2, 3, 4}, 0))
	})
}

// TestNormalityScore checks the empirical-rule heuristic stays in bounds
// and rewards near-normal data.
func TestNormalityScore(t *testing.T) {
	t.Run("degenerate input", func(t *testing.T) {
		assert.Zero(t, NormalityScore(nil))
		assert.Zero(t, NormalityScore([]float64{5, 5, 5}))
	})

	t.Run("roughly normal series scores high", func(t *testing.T) {
		// Symmetric values concentrated around the mean.
		series := []float64{8, 9, 9, 10, 10, 10, 10, 11, 11, 12}
		score := NormalityScore(series)
		assert.Greater(t, score, 70.0)
		assert.LessOrEqual(t, score, 100.0)
	})

	t.Run("bounded for any input", func(t *testing.T) {
		series := []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 1000}
		score := NormalityScore(series)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	})
}

// TestSeasonalityStrength checks the cycle-length requirement and bounds.
func TestSeasonalityStrength(t *testing.T) {
	periodic := make([]float64, 96)
	for i := range periodic {
		periodic[i] = math.Sin(2 * math.Pi * float64(i) / 24)
	}

	t.Run("daily sine wave", func(t *testing.T) {
		assert.Greater(t, SeasonalityStrength(periodic, 24), 0.9)
	})

	t.Run("too short for two cycles", func(t *testing.T) {
		assert.Zero(t, SeasonalityStrength(periodic[:47], 24))
	})

	t.Run("negative autocorrelation clamps to zero", func(t *testing.T) {
		alternating := []float64{1, 9, 1, 9, 1, 9, 1, 9}
		assert.Zero(t, SeasonalityStrength(alternating, 1))
	})
}

// TestLinearTrendSlope checks least-squares slopes.
func TestLinearTrendSlope(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "increasing", values: []float64{1, 2, 3, 4, 5}, expected: 1},
		{name: "decreasing", values: []float64{10, 8, 6, 4}, expected: -2},
		{name: "flat", values: []float64{3, 3, 3, 3}, expected: 0},
		{name: "single value", values: []float64{3}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, LinearTrendSlope(tt.values), 0.0001)
		})
	}
}

// TestClamp checks both bounds.
func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(250, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}

// BenchmarkMedian benchmarks the copy-and-sort median.
func BenchmarkMedian(b *testing.B) {
	values := make([]float64, 1000)
	for i := range values {
		values[i] = float64((i * 7919) % 1000)
	}

	for b.Loop() {
		Median(values)
	}
}

// BenchmarkNormalityScore benchmarks the empirical-rule heuristic.
func BenchmarkNormalityScore(b *testing.B) {
	values := make([]float64, 1000)
	for i := range values {
		values[i] = math.Sin(float64(i)) * 10
	}

	for b.Loop() {
		NormalityScore(values)
	}
}
