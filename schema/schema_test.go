package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityRank(t *testing.T) {
	assert.Greater(t, SeverityCritical.Rank(), SeverityWarning.Rank())
	assert.Greater(t, SeverityWarning.Rank(), SeverityInfo.Rank())
	assert.Equal(t, 0, Severity("bogus").Rank())
}

func TestUrgencyRank(t *testing.T) {
	assert.Greater(t, UrgencyImmediate.Rank(), UrgencyUrgent.Rank())
	assert.Greater(t, UrgencyUrgent.Rank(), UrgencyScheduled.Rank())
	assert.Greater(t, UrgencyScheduled.Rank(), UrgencyMonitor.Rank())
	assert.Equal(t, 0, UrgencyLevel("bogus").Rank())
}

func TestValidDetectionAlgorithmsMatchesList(t *testing.T) {
	assert.Len(t, ValidDetectionAlgorithms, len(AllDetectionAlgorithms))
	for _, algo := range AllDetectionAlgorithms {
		_, ok := ValidDetectionAlgorithms[algo]
		assert.True(t, ok, "algorithm %s missing from valid set", algo)
	}
}

func TestDefaultBaselinesCoverAllEquipment(t *testing.T) {
	baselines := DefaultBaselines()
	criticality := DefaultCriticalityTable()

	assert.Len(t, baselines, len(criticality))
	for eq, rng := range baselines {
		assert.Less(t, rng.Min, rng.Max, "baseline for %s is inverted", eq)
		_, ok := criticality[eq]
		assert.True(t, ok, "equipment %s missing criticality", eq)
	}
}

func TestDefaultCriticalityTableBounds(t *testing.T) {
	for eq, score := range DefaultCriticalityTable() {
		assert.GreaterOrEqual(t, score, 0.0, "criticality for %s below 0", eq)
		assert.LessOrEqual(t, score, 100.0, "criticality for %s above 100", eq)
	}

	// Life-safety systems outrank comfort systems
	table := DefaultCriticalityTable()
	assert.Greater(t, table[FireEquipment], table[HVACEquipment])
	assert.Greater(t, table[PowerEquipment], table[LightingEquipment])
}

func TestRiskWeightsSumToOne(t *testing.T) {
	sum := RiskWeightConfidence + RiskWeightSeverity + RiskWeightCriticality + RiskWeightHistory
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestMinConfidenceFloor(t *testing.T) {
	cfg := DefaultDetectionConfig()
	assert.InDelta(t, 60.0, cfg.MinConfidenceFloor(), 1e-9)

	cfg.ThresholdMultiplier = 2.5
	assert.InDelta(t, 50.0, cfg.MinConfidenceFloor(), 1e-9)
}

func TestCriticalityForFallback(t *testing.T) {
	cfg := DefaultClassifierConfig()
	assert.InDelta(t, 100.0, cfg.CriticalityFor(FireEquipment), 1e-9)
	assert.InDelta(t, DefaultCriticality, cfg.CriticalityFor("Submarine"), 1e-9)
}
