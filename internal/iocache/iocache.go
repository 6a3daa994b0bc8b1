// Package iocache is for caching walk results and tracking walk runs.
package iocache

import (
	"sync"

	"github.com/huangsam/commitstat/internal/contract"
)

// CacheStoreManager manages the stats cache and the run history store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	stats        contract.CacheStore
	analysis     contract.AnalysisStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetStatsStore returns the stats CacheStore.
func (mgr *CacheStoreManager) GetStatsStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.stats
}

// GetAnalysisStore returns the run history AnalysisStore.
func (mgr *CacheStoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
