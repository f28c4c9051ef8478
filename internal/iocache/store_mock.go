package iocache

import (
	"time"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetReportStore implements the StoreManager interface.
func (m *MockStoreManager) GetReportStore() contract.ReportStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ReportStore)
	return store
}

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockReportStore is a mock implementation of ReportStore for testing.
type MockReportStore struct {
	mock.Mock
}

var _ contract.ReportStore = &MockReportStore{} // Compile-time check

// Get implements the ReportStore interface.
func (m *MockReportStore) Get(label string) (schema.Report, bool, error) {
	args := m.Called(label)
	return args.Get(0).(schema.Report), args.Bool(1), args.Error(2)
}

// Set implements the ReportStore interface.
func (m *MockReportStore) Set(report schema.Report, timestamp int64) error {
	args := m.Called(report, timestamp)
	return args.Error(0)
}

// List implements the ReportStore interface.
func (m *MockReportStore) List() ([]schema.Report, error) {
	args := m.Called()
	reports, _ := args.Get(0).([]schema.Report)
	return reports, args.Error(1)
}

// GetStatus implements the ReportStore interface.
func (m *MockReportStore) GetStatus() (schema.ReportStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ReportStoreStatus), args.Error(1)
}

// Close implements the ReportStore interface.
func (m *MockReportStore) Close() error {
	args := m.Called()
	return args.Error(0)
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
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalRepositories int) error {
	args := m.Called(runID, endTime, totalRepositories)
	return args.Error(0)
}

// RecordMetricResult implements the RunStore interface.
func (m *MockRunStore) RecordMetricResult(runID int64, repository string, result schema.MetricResult, cached bool) error {
	args := m.Called(runID, repository, result, cached)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStoreStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllMetricRecords implements the RunStore interface.
func (m *MockRunStore) GetAllMetricRecords() ([]schema.MetricRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.MetricRecord)
	return records, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
