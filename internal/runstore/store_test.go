package runstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/faultline-io/faultline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *RunStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "faultline_runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*RunStoreImpl)
}

func samplePattern(id, sensorID string) schema.DetectedPattern {
	return schema.DetectedPattern{
		ID:            id,
		Timestamp:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		SensorID:      sensorID,
		EquipmentType: schema.HVACEquipment,
		PatternType:   schema.SpikePattern,
		Severity:      schema.SeverityWarning,
	}
}

func sampleClassification(patternID string) schema.ClassificationResult {
	return schema.ClassificationResult{
		PatternID:          patternID,
		ClassifiedType:     schema.SuddenSpike,
		Severity:           schema.SeverityWarning,
		ConfidenceScore:    78.5,
		RiskScore:          64.2,
		FailureProbability: 55.1,
		UrgencyLevel:       schema.UrgencyScheduled,
	}
}

// TestRunStoreLifecycle exercises the full begin/record/end/query cycle on
// a SQLite store.
func TestRunStoreLifecycle(t *testing.T) {
	store := newSQLiteStore(t)

	startTime := time.Now().UTC().Truncate(time.Millisecond)
	runID, err := store.BeginRun(startTime, map[string]any{"algorithm": "zscore", "threshold": 3.0})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	require.NoError(t, store.RecordPattern(runID, samplePattern("pattern-0001", "temp-301"), sampleClassification("pattern-0001")))
	require.NoError(t, store.RecordPattern(runID, samplePattern("pattern-0002", "power-101"), sampleClassification("pattern-0002")))

	endTime := startTime.Add(2 * time.Second)
	require.NoError(t, store.EndRun(runID, endTime, 960, 2))

	// Run record round-trips with completion data.
	runs, err := store.GetRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.Equal(t, int32(960), runs[0].TotalPoints)
	assert.Equal(t, int32(2), runs[0].PatternsDetected)
	require.NotNil(t, runs[0].EndTime)
	assert.WithinDuration(t, endTime, *runs[0].EndTime, time.Millisecond)
	require.NotNil(t, runs[0].RunDurationMs)
	assert.Equal(t, int32(2000), *runs[0].RunDurationMs)
	require.NotNil(t, runs[0].ConfigParams)
	assert.Contains(t, *runs[0].ConfigParams, "zscore")

	// Pattern scores come back for the run.
	scores, err := store.GetPatternScores(runID)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "pattern-0001", scores[0].PatternID)
	assert.Equal(t, "temp-301", scores[0].SensorID)
	assert.Equal(t, "sudden_spike", scores[0].ClassifiedType)
	assert.InDelta(t, 64.2, scores[0].RiskScore, 0.001)
}

// TestRunStoreStatus checks status accumulation over multiple runs.
func TestRunStoreStatus(t *testing.T) {
	store := newSQLiteStore(t)

	first := time.Now().UTC().Add(-time.Hour)
	firstID, err := store.BeginRun(first, nil)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(firstID, first.Add(time.Second), 100, 1))

	second := time.Now().UTC()
	secondID, err := store.BeginRun(second, nil)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(secondID, second.Add(time.Second), 200, 3))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(2), status.TotalRuns)
	assert.Equal(t, secondID, status.LastRunID)
	assert.Equal(t, int64(4), status.TotalPatterns)
	assert.WithinDuration(t, first, status.OldestRunTime, time.Millisecond)
	assert.Equal(t, int64(2), status.TableSizes[detectionRunsTable])
}

// TestRunStoreGetRunsLimit verifies newest-first ordering and the limit.
func TestRunStoreGetRunsLimit(t *testing.T) {
	store := newSQLiteStore(t)

	var lastID int64
	for i := 0; i < 3; i++ {
		id, err := store.BeginRun(time.Now().UTC(), nil)
		require.NoError(t, err)
		lastID = id
	}

	runs, err := store.GetRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, lastID, runs[0].RunID)
	assert.Equal(t, lastID-1, runs[1].RunID)
}

// TestRunStoreClear verifies Clear empties both tables.
func TestRunStoreClear(t *testing.T) {
	store := newSQLiteStore(t)

	runID, err := store.BeginRun(time.Now().UTC(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordPattern(runID, samplePattern("pattern-0001", "temp-301"), sampleClassification("pattern-0001")))

	require.NoError(t, store.Clear())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[patternScoresTable])
}

// TestNoneBackendNoOps checks that the disabled store accepts everything.
func TestNoneBackendNoOps(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.RecordPattern(0, schema.DetectedPattern{}, schema.ClassificationResult{}))
	assert.NoError(t, store.EndRun(0, time.Now(), 0, 0))

	runs, err := store.GetRuns(10)
	assert.NoError(t, err)
	assert.Nil(t, runs)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Close())
}

// TestNewRunStoreUnsupportedBackend rejects unknown backends.
func TestNewRunStoreUnsupportedBackend(t *testing.T) {
	_, err := NewRunStore(schema.DatabaseBackend("oracle"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

// TestValidateTableName covers the identifier safety check.
func TestValidateTableName(t *testing.T) {
	assert.NoError(t, validateTableName("faultline_detection_runs"))
	assert.NoError(t, validateTableName("_private"))
	assert.Error(t, validateTableName(""))
	assert.Error(t, validateTableName("drop table; --"))
	assert.Error(t, validateTableName("1starts_with_digit"))
}

// TestQuoteTableName covers per-backend quoting.
func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`runs`", quoteTableName("runs", schema.MySQLBackend))
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.PostgreSQLBackend))
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.SQLiteBackend))
}

// TestMockRunStore sanity-checks the testify mock wiring.
func TestMockRunStore(t *testing.T) {
	mockStore := &MockRunStore{}
	mockStore.On("BeginRun", mock.Anything, mock.Anything).Return(int64(42), nil)
	mockStore.On("Clear").Return(nil)

	runID, err := mockStore.BeginRun(time.Now(), nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), runID)
	assert.NoError(t, mockStore.Clear())
	mockStore.AssertExpectations(t)
}
