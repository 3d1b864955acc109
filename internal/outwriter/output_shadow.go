package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/schema"
)

// PrintShadowResults outputs live values alongside their shadow baselines,
// dispatching based on the output format configured.
func PrintShadowResults(series schema.PointSequence, shadows []schema.ShadowSeries, averages []schema.ShadowAveragePoint, name string, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForShadows(series, shadows, averages, name, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForShadows(series, shadows, averages, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printShadowTable(series, shadows, averages, name, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing shadow table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForShadows handles opening the file and calling the JSON writer.
func printJSONResultsForShadows(series schema.PointSequence, shadows []schema.ShadowSeries, averages []schema.ShadowAveragePoint, name string, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForShadows(w, series, shadows, averages, name)
	}, "Wrote JSON shadow results")
}

// printCSVResultsForShadows handles opening the file and calling the CSV writer.
func printCSVResultsForShadows(series schema.PointSequence, shadows []schema.ShadowSeries, averages []schema.ShadowAveragePoint, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForShadows(csvWriter, series, shadows, averages, fmtFloat)
	}, "Wrote CSV shadow results")
}

// printShadowTable prints one row per live point, with one column per
// shadow and optional across-shadow mean/stddev columns. A shadow with no
// point at a live timestamp renders "-", never zero.
func printShadowTable(series schema.PointSequence, shadows []schema.ShadowSeries, averages []schema.ShadowAveragePoint, name string, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	fmt.Println(headerEmoji(cfg, "👥", fmt.Sprintf("Shadows for %s (%d baselines)", name, len(shadows))))

	table := tablewriter.NewWriter(os.Stdout)

	// --- 1. Define Headers ---
	headers := []string{"Date", "Live"}
	for _, shadow := range shadows {
		headers = append(headers, shadow.Label)
	}
	withAverages := len(averages) > 0
	if withAverages {
		headers = append(headers, "Mean", "StdDev")
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	shadowLookups := buildShadowLookups(shadows)
	averageLookup := buildAverageLookup(averages)
	var data [][]string
	for _, p := range series {
		row := []string{contract.FormatDate(p.Timestamp), formatPointValue(p, fmtFloat)}
		for _, lookup := range shadowLookups {
			row = append(row, formatLookupValue(lookup, p.Timestamp, fmtFloat))
		}
		if withAverages {
			if avg, ok := averageLookup[p.Timestamp.Unix()]; ok {
				row = append(row, fmtFloat(avg.Mean), fmtFloat(avg.StdDev))
			} else {
				row = append(row, absentValue, absentValue)
			}
		}
		data = append(data, row)
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Shadow generation completed in %v for %d live points.\n", duration, len(series))
	return nil
}

// buildShadowLookups indexes each shadow by unix timestamp for row assembly.
func buildShadowLookups(shadows []schema.ShadowSeries) []map[int64]schema.Point {
	lookups := make([]map[int64]schema.Point, len(shadows))
	for i, shadow := range shadows {
		lookup := make(map[int64]schema.Point, len(shadow.Points))
		for _, p := range shadow.Points {
			lookup[p.Timestamp.Unix()] = p
		}
		lookups[i] = lookup
	}
	return lookups
}

// buildAverageLookup indexes the across-shadow statistics by unix timestamp.
func buildAverageLookup(averages []schema.ShadowAveragePoint) map[int64]schema.ShadowAveragePoint {
	lookup := make(map[int64]schema.ShadowAveragePoint, len(averages))
	for _, avg := range averages {
		lookup[avg.Timestamp.Unix()] = avg
	}
	return lookup
}

// formatPointValue renders a point's rate value, or "-" when absent.
func formatPointValue(p schema.Point, fmtFloat func(float64) string) string {
	if v, ok := p.Value(); ok {
		return fmtFloat(v)
	}
	return absentValue
}

// formatLookupValue renders a shadow's value at a timestamp, or "-" when the
// shadow has no point there.
func formatLookupValue(lookup map[int64]schema.Point, ts time.Time, fmtFloat func(float64) string) string {
	p, ok := lookup[ts.Unix()]
	if !ok {
		return absentValue
	}
	return formatPointValue(p, fmtFloat)
}
