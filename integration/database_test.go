//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestTrendboardWithMySQL tests the trendboard CLI with a MySQL backend.
func TestTrendboardWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "trendboard",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/trendboard?parseTime=true", host, port.Port())

	// Set environment variables
	_ = os.Setenv("TRENDBOARD_CACHE_BACKEND", "mysql")
	_ = os.Setenv("TRENDBOARD_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("TRENDBOARD_RUN_BACKEND", "mysql")
	_ = os.Setenv("TRENDBOARD_RUN_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("TRENDBOARD_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("TRENDBOARD_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("TRENDBOARD_RUN_BACKEND") }()
	defer func() { _ = os.Unsetenv("TRENDBOARD_RUN_DB_CONNECT") }()

	runBackendLifecycle(t)
}

// TestTrendboardWithPostgres tests the trendboard CLI with a PostgreSQL backend.
func TestTrendboardWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	// Set environment variables
	_ = os.Setenv("TRENDBOARD_CACHE_BACKEND", "postgresql")
	_ = os.Setenv("TRENDBOARD_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("TRENDBOARD_RUN_BACKEND", "postgresql")
	_ = os.Setenv("TRENDBOARD_RUN_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("TRENDBOARD_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("TRENDBOARD_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("TRENDBOARD_RUN_BACKEND") }()
	defer func() { _ = os.Unsetenv("TRENDBOARD_RUN_DB_CONNECT") }()

	runBackendLifecycle(t)
}

// runBackendLifecycle exercises the full forecast + persistence cycle
// against whichever backend the environment points at.
func runBackendLifecycle(t *testing.T) {
	seriesPath := writeSeriesFixture(t, 60)

	// Start from a clean slate
	err := runTrendboardCommand(t, "cache", "clear")
	require.NoError(t, err)

	err = runTrendboardCommand(t, "runs", "clear")
	require.NoError(t, err)

	// Run a forecast twice: the second run should hit the cache
	err = runTrendboardCommand(t, "forecast", seriesPath, "--horizon", "14")
	require.NoError(t, err)

	err = runTrendboardCommand(t, "forecast", seriesPath, "--horizon", "14")
	require.NoError(t, err)

	// Inspect the stores
	err = runTrendboardCommand(t, "cache", "status")
	require.NoError(t, err)

	err = runTrendboardCommand(t, "runs", "status")
	require.NoError(t, err)

	err = runTrendboardCommand(t, "runs", "history")
	require.NoError(t, err)
}

func runTrendboardCommand(t *testing.T, args ...string) error {
	trendboardPath := getTrendboardBinary()
	cmd := exec.Command(trendboardPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
