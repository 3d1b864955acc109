// Package parquet provides data structures and functions for exporting
// trendboard run history and forecast lines to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/trendboard/trendboard/schema"
)

// ForecastRun represents a single forecast run with metadata.
// This struct maps to the trendboard_forecast_runs database table.
type ForecastRun struct {
	// RunID is the unique identifier for this forecast run
	RunID int64 `parquet:"run_id,snappy"`

	// SeriesName identifies the series that was forecast
	SeriesName string `parquet:"series_name,snappy"`

	// Method is the forecasting method that produced the run
	Method string `parquet:"method,snappy"`

	// Horizon is the number of future steps that were forecast
	Horizon int32 `parquet:"horizon,snappy"`

	// PointCount is the number of observations the model was fit on
	PointCount int32 `parquet:"point_count,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// RunDurationMs is the duration of the run in milliseconds
	RunDurationMs int64 `parquet:"run_duration_ms,snappy"`

	// ConfigParams contains the JSON-encoded forecast parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ForecastPoint represents one projected value, with optional confidence
// bounds, for downstream analytical tooling.
type ForecastPoint struct {
	// SeriesName identifies the series the point belongs to
	SeriesName string `parquet:"series_name,snappy"`

	// Timestamp is the projected observation time
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// Value is the forecast value
	Value float64 `parquet:"value,snappy"`

	// Lower is the lower confidence bound (nullable)
	Lower *float64 `parquet:"lower,optional,snappy"`

	// Upper is the upper confidence bound (nullable)
	Upper *float64 `parquet:"upper,optional,snappy"`

	// Method is the forecasting method that produced the point
	Method string `parquet:"method,snappy"`
}

// WriteForecastRunsParquet writes a slice of ForecastRun structs to a Parquet file.
func WriteForecastRunsParquet(data []ForecastRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the ForecastRun struct tags
	writer := parquet.NewGenericWriter[ForecastRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteForecastPointsParquet writes a slice of ForecastPoint structs to a Parquet file.
func WriteForecastPointsParquet(data []ForecastPoint, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the ForecastPoint struct tags
	writer := parquet.NewGenericWriter[ForecastPoint](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertRunRecords converts schema.RunRecord to ForecastRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []ForecastRun {
	result := make([]ForecastRun, len(records))
	for i, record := range records {
		result[i] = ForecastRun{
			RunID:         record.RunID,
			SeriesName:    record.SeriesName,
			Method:        string(record.Method),
			Horizon:       int32(record.Horizon),
			PointCount:    int32(record.PointCount),
			StartTime:     record.StartTime,
			RunDurationMs: record.RunDurationMs,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertForecastResult converts a schema.ForecastResult to ForecastPoint rows
// for Parquet export. Confidence bounds are nil when the result has none.
func ConvertForecastResult(seriesName string, result *schema.ForecastResult) []ForecastPoint {
	if result == nil {
		return nil
	}

	withBounds := len(result.Intervals) == len(result.Points)
	rows := make([]ForecastPoint, len(result.Points))
	for i, p := range result.Points {
		row := ForecastPoint{
			SeriesName: seriesName,
			Timestamp:  p.Timestamp,
			Value:      p.Value,
			Method:     string(result.Method),
		}
		if withBounds {
			lower, upper := result.Intervals[i].Lower, result.Intervals[i].Upper
			row.Lower = &lower
			row.Upper = &upper
		}
		rows[i] = row
	}
	return rows
}
