package schema

import "time"

// RunRecord captures one completed forecast run for the run-history store.
type RunRecord struct {
	RunID         int64          `json:"run_id"`
	SeriesName    string         `json:"series_name"`
	Method        ForecastMethod `json:"method"`
	Horizon       int            `json:"horizon"`
	PointCount    int            `json:"point_count"`
	StartTime     time.Time      `json:"start_time"`
	RunDurationMs int64          `json:"run_duration_ms"`
	ConfigParams  *string        `json:"config_params,omitempty"`
}

// RunStatus has status information about the run-history store.
type RunStatus struct {
	Backend     string    `json:"backend"`
	Connected   bool      `json:"connected"`
	TotalRuns   int       `json:"total_runs"`
	LastRunTime time.Time `json:"last_run_time,omitempty"`
}

// CacheStatus has status information about a cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time,omitempty"`
	OldestEntryTime time.Time `json:"oldest_entry_time,omitempty"`
	TableSizeBytes  int64     `json:"table_size_bytes,omitempty"`
}
