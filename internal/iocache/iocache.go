// Package iocache is for durable storage of forecast results and run history.
package iocache

import (
	"sync"

	"github.com/trendboard/trendboard/internal/contract"
)

// CacheStoreManager manages the forecast cache and run-history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	forecast     contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetForecastStore returns the forecast CacheStore.
func (mgr *CacheStoreManager) GetForecastStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.forecast
}

// GetRunStore returns the run-history RunStore.
func (mgr *CacheStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
