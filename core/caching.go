package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheStaleness bounds how long a cached forecast stays valid.
const cacheStaleness = 7 * 24 * time.Hour

// CachedForecast runs the forecaster behind the cache-aside layer. It is
// the compute entry point for embedding surfaces like the MCP server.
func CachedForecast(series schema.PointSequence, fcfg schema.ForecastConfig, mgr contract.CacheManager) (*schema.ForecastResult, error) {
	return cachedForecast(series, fcfg, mgr)
}

// cachedForecast - forecast with a cache-aside layer keyed on series
// content and config.
func cachedForecast(series schema.PointSequence, fcfg schema.ForecastConfig, mgr contract.CacheManager) (*schema.ForecastResult, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetForecastStore()
	}
	if store == nil {
		// Fallback to direct computation
		return Forecast(series, fcfg)
	}

	key := generateCacheKey(series, fcfg)

	// Check for cache hit
	if result := checkCacheHit(store, key); result != nil {
		return result, nil
	}

	// Cache miss: compute and store
	return computeAndStore(series, fcfg, store, key)
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(store contract.CacheStore, key string) *schema.ForecastResult {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= cacheStaleness {
			var result schema.ForecastResult
			if err := json.Unmarshal(data, &result); err == nil {
				return &result // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// computeAndStore computes the result and stores it in cache
func computeAndStore(series schema.PointSequence, fcfg schema.ForecastConfig, store contract.CacheStore, key string) (*schema.ForecastResult, error) {
	result, err := Forecast(series, fcfg)
	if err != nil || result == nil {
		return result, err
	}

	// Store in cache
	if data, err := json.Marshal(result); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}

	return result, nil
}

// generateCacheKey creates a unique key from the series content and the
// forecast configuration, so the same inputs always hit the same entry and
// any change to either invalidates it.
func generateCacheKey(series schema.PointSequence, fcfg schema.ForecastConfig) string {
	seriesHash := sha256.New()
	for _, p := range series {
		fmt.Fprintf(seriesHash, "%d:%g:%g;", p.Timestamp.Unix(), p.Numerator, p.Denominator)
	}

	cfgJSON, err := json.Marshal(fcfg)
	if err != nil {
		cfgJSON = nil
	}

	key := fmt.Sprintf("%x:%s", seriesHash.Sum(nil), cfgJSON)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
