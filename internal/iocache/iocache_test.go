package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendboard/trendboard/schema"
)

// TestValidateTableName tests identifier safety checks.
func TestValidateTableName(t *testing.T) {
	assert.NoError(t, validateTableName("forecast_cache"))
	assert.NoError(t, validateTableName("_private"))
	assert.Error(t, validateTableName(""))
	assert.Error(t, validateTableName("bad-name"))
	assert.Error(t, validateTableName("1starts_with_digit"))
	assert.Error(t, validateTableName("drop table; --"))
}

// TestQuoteTableName tests backend-specific quoting.
func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.SQLiteBackend))
	assert.Equal(t, "`runs`", quoteTableName("runs", schema.MySQLBackend))
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.PostgreSQLBackend))
}

// TestCacheStoreSQLite tests the cache store against a real SQLite file.
func TestCacheStoreSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore("forecast_cache", schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	t.Run("get on missing key returns ErrNoRows", func(t *testing.T) {
		_, _, _, err := store.Get("missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		ts := time.Now().Unix()
		require.NoError(t, store.Set("k1", []byte("payload"), 1, ts))

		value, version, gotTs, err := store.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), value)
		assert.Equal(t, 1, version)
		assert.Equal(t, ts, gotTs)
	})

	t.Run("set overwrites existing key", func(t *testing.T) {
		require.NoError(t, store.Set("k1", []byte("v2"), 2, time.Now().Unix()))
		value, version, _, err := store.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), value)
		assert.Equal(t, 2, version)
	})

	t.Run("status reports entries", func(t *testing.T) {
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 1, status.TotalEntries)
		assert.False(t, status.LastEntryTime.IsZero())
	})
}

// TestCacheStoreNoneBackend tests the no-op store.
func TestCacheStoreNoneBackend(t *testing.T) {
	store, err := NewCacheStore("forecast_cache", schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("k", []byte("v"), 1, time.Now().Unix()))
	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

// TestCacheStoreRejectsBadInput tests constructor validation.
func TestCacheStoreRejectsBadInput(t *testing.T) {
	_, err := NewCacheStore("bad-table", schema.SQLiteBackend, "")
	assert.Error(t, err)

	_, err = NewCacheStore("ok_table", schema.CacheBackend("bogus"), "")
	assert.Error(t, err)
}

// TestRunStoreSQLite tests run tracking against a real SQLite file.
func TestRunStoreSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Now().Add(-time.Second)
	params := map[string]any{"alpha": 0.3, "seasonal": "additive"}

	runID, err := store.BeginRun("signups", schema.MethodTriple, 30, 120, start, params)
	require.NoError(t, err)
	assert.Positive(t, runID)

	require.NoError(t, store.EndRun(runID, time.Now()))

	t.Run("list returns newest first", func(t *testing.T) {
		secondID, err := store.BeginRun("errors", schema.MethodSimple, 7, 10, time.Now(), nil)
		require.NoError(t, err)

		runs, err := store.ListRuns(10)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, secondID, runs[0].RunID)
		assert.Equal(t, "errors", runs[0].SeriesName)
		assert.Equal(t, "signups", runs[1].SeriesName)
		assert.Equal(t, schema.MethodTriple, runs[1].Method)
		assert.Equal(t, 30, runs[1].Horizon)
		assert.Equal(t, 120, runs[1].PointCount)
		assert.GreaterOrEqual(t, runs[1].RunDurationMs, int64(0))
		require.NotNil(t, runs[1].ConfigParams)
		assert.Contains(t, *runs[1].ConfigParams, "additive")
	})

	t.Run("status reports totals", func(t *testing.T) {
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 2, status.TotalRuns)
		assert.False(t, status.LastRunTime.IsZero())
	})
}

// TestRunStoreNoneBackend tests the no-op run store.
func TestRunStoreNoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun("s", schema.MethodSimple, 1, 1, time.Now(), nil)
	require.NoError(t, err)
	assert.Zero(t, runID)
	assert.NoError(t, store.EndRun(runID, time.Now()))

	runs, err := store.ListRuns(5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

// TestMigrateRuns tests the embedded migrations end to end on SQLite.
func TestMigrateRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))

	// A second up is a no-op, not an error.
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))

	// Roll everything back.
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 0))

	assert.Error(t, MigrateRuns(schema.NoneBackend, dbPath, -1))
}
