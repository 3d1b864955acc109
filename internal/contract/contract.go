// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/trendboard/trendboard/schema"
)

// ForecastService produces a forecast for a series. It abstracts over the
// local engine and the remote statistical service so orchestration can try
// one and fall back to the other.
type ForecastService interface {
	// Forecast returns the forecast result, or (nil, nil) when no
	// forecast is available for the input.
	Forecast(ctx context.Context, series schema.PointSequence, cfg schema.ForecastConfig) (*schema.ForecastResult, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetForecastStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for tracking forecast runs.
type RunStore interface {
	// BeginRun creates a new run record and returns its unique ID
	BeginRun(seriesName string, method schema.ForecastMethod, horizon, pointCount int, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with its completion time
	EndRun(runID int64, endTime time.Time) error

	// ListRuns returns the most recent runs, newest first
	ListRuns(limit int) ([]schema.RunRecord, error)

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// Close closes the underlying connection
	Close() error
}
