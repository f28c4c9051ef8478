// Package iocache persists reports and run history across invocations.
package iocache

import (
	"sync"

	"github.com/huangsam/repometrics/internal/contract"
)

// StoreManager manages the report store and the run store.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	reports      contract.ReportStore
	runs         contract.RunStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetReportStore returns the report store, or nil when it is not configured.
func (mgr *StoreManager) GetReportStore() contract.ReportStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.reports
}

// GetRunStore returns the run store, or nil when run tracking is disabled.
func (mgr *StoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
