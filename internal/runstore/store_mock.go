package runstore

import (
	"time"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalPoints, patternsDetected int) error {
	args := m.Called(runID, endTime, totalPoints, patternsDetected)
	return args.Error(0)
}

// RecordPattern implements the RunStore interface.
func (m *MockRunStore) RecordPattern(runID int64, pattern schema.DetectedPattern, classified schema.ClassificationResult) error {
	args := m.Called(runID, pattern, classified)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// GetRuns implements the RunStore interface.
func (m *MockRunStore) GetRuns(limit int) ([]schema.DetectionRunRecord, error) {
	args := m.Called(limit)
	records, _ := args.Get(0).([]schema.DetectionRunRecord)
	return records, args.Error(1)
}

// GetPatternScores implements the RunStore interface.
func (m *MockRunStore) GetPatternScores(runID int64) ([]schema.PatternScoreRecord, error) {
	args := m.Called(runID)
	records, _ := args.Get(0).([]schema.PatternScoreRecord)
	return records, args.Error(1)
}

// Clear implements the RunStore interface.
func (m *MockRunStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
