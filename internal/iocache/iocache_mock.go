package iocache

import (
	"time"

	"github.com/huangsam/commitstat/internal/contract"
	"github.com/huangsam/commitstat/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetStatsStore implements the CacheManager interface.
// A nil return value yields a nil interface, meaning no store is configured.
func (m *MockCacheManager) GetStatsStore() contract.CacheStore {
	ret := m.Called()
	store, ok := ret.Get(0).(contract.CacheStore)
	if !ok || store == nil {
		return nil
	}
	return store
}

// GetAnalysisStore implements the CacheManager interface.
func (m *MockCacheManager) GetAnalysisStore() contract.AnalysisStore {
	ret := m.Called()
	store, ok := ret.Get(0).(contract.AnalysisStore)
	if !ok || store == nil {
		return nil
	}
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAnalysisStore is a mock implementation of AnalysisStore for testing.
type MockAnalysisStore struct {
	mock.Mock
}

var _ contract.AnalysisStore = &MockAnalysisStore{} // Compile-time check

// BeginRun implements the AnalysisStore interface.
func (m *MockAnalysisStore) BeginRun(startTime time.Time, repoPath string, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, repoPath, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the AnalysisStore interface.
func (m *MockAnalysisStore) EndRun(runID int64, endTime time.Time, result *schema.WalkResult) error {
	args := m.Called(runID, endTime, result)
	return args.Error(0)
}

// RecordComponentStats implements the AnalysisStore interface.
func (m *MockAnalysisStore) RecordComponentStats(runID int64, stats schema.Stats) error {
	args := m.Called(runID, stats)
	return args.Error(0)
}

// GetStatus implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetStatus() (schema.AnalysisStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.AnalysisStatus), args.Error(1)
}

// GetAllWalkRuns implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllWalkRuns() ([]schema.WalkRunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.WalkRunRecord)
	return records, args.Error(1)
}

// GetAllComponentStats implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllComponentStats() ([]schema.ComponentStatRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.ComponentStatRecord)
	return records, args.Error(1)
}

// Close implements the AnalysisStore interface.
func (m *MockAnalysisStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
