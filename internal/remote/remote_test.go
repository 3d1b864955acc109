package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendboard/trendboard/schema"
)

func dailySeries(n int) schema.PointSequence {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(schema.PointSequence, n)
	for i := range s {
		s[i] = schema.Point{
			Timestamp:   start.AddDate(0, 0, i),
			Numerator:   float64(10 + i),
			Denominator: 1,
		}
	}
	return s
}

func autoCfg(horizon int) schema.ForecastConfig {
	cfg, _ := schema.NewForecastConfig(horizon, schema.SeasonalNone, 95)
	return cfg
}

// TestClientForecast tests the request/response adaptation. The response
// body is the literal wire shape the service documents: dated forecast
// points plus "lower_<level>"/"upper_<level>" interval arrays.
func TestClientForecast(t *testing.T) {
	var captured forecastRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/forecast", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_, _ = w.Write([]byte(`{
			"forecast": [
				{"date": "2024-01-31", "value": 40},
				{"date": "2024-02-01", "value": 41},
				{"date": "2024-02-02", "value": 42}
			],
			"confidenceIntervals": {
				"lower_95": [38, 39, 40],
				"upper_95": [42, 43, 44]
			},
			"modelUsed": "AutoETS",
			"metrics": {"mape": 5.2, "computation_time_ms": 45.3}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "AutoETS", time.Second)
	series := dailySeries(30)

	result, err := client.Forecast(context.Background(), series, autoCfg(3))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 3, captured.Horizon)
	assert.Equal(t, "AutoETS", captured.Model)
	assert.Equal(t, []int{95}, captured.ConfidenceLevels)
	assert.Len(t, captured.Data, 30)
	assert.Equal(t, "2024-01-01", captured.Data[0].Date)

	assert.Equal(t, schema.MethodRemote, result.Method)
	require.Len(t, result.Points, 3)
	assert.InDelta(t, 40, result.Points[0].Value, 1e-9)

	// Timestamps come from the returned dates, not a locally inferred step.
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), result.Points[0].Timestamp)
	assert.Equal(t, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), result.Points[2].Timestamp)

	require.Len(t, result.Intervals, 3)
	assert.InDelta(t, 38, result.Intervals[0].Lower, 1e-9)
	assert.InDelta(t, 44, result.Intervals[2].Upper, 1e-9)
}

// TestClientForecastWithoutIntervals tests that missing bounds stay absent.
func TestClientForecastWithoutIntervals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"forecast": [
				{"date": "2024-01-11", "value": 1},
				{"date": "2024-01-12", "value": 2}
			],
			"modelUsed": "AutoETS"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	result, err := client.Forecast(context.Background(), dailySeries(10), autoCfg(2))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Intervals)
}

// TestClientForecastErrors tests the failure paths the caller falls back on.
func TestClientForecastErrors(t *testing.T) {
	t.Run("server error is returned", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model blew up", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL, "", time.Second)
		_, err := client.Forecast(context.Background(), dailySeries(10), autoCfg(5))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("unreachable service is an error", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "", 100*time.Millisecond)
		_, err := client.Forecast(context.Background(), dailySeries(10), autoCfg(5))
		assert.Error(t, err)
	})

	t.Run("unparsable forecast date is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"forecast": [{"date": "soon", "value": 1}]}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "", time.Second)
		_, err := client.Forecast(context.Background(), dailySeries(10), autoCfg(1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "forecast point 0")
	})

	t.Run("too few usable points skips the call", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))
		defer server.Close()

		client := NewClient(server.URL, "", time.Second)
		result, err := client.Forecast(context.Background(), dailySeries(1), autoCfg(5))
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.False(t, called)
	})

	t.Run("empty forecast means no result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"forecast": []}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "", time.Second)
		result, err := client.Forecast(context.Background(), dailySeries(10), autoCfg(5))
		require.NoError(t, err)
		assert.Nil(t, result)
	})
}
