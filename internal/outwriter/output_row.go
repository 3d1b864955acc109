package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/schema"
)

// PrintMetricRowResults outputs a metric row readout, dispatching based on the output format configured.
func PrintMetricRowResults(row schema.MetricRowValues, name string, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, fmtOptional := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForRow(row, name, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForRow(row, cfg, fmtFloat, fmtOptional); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printRowTable(row, name, cfg, fmtFloat, fmtOptional, duration); err != nil {
			return fmt.Errorf("error writing metric row table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForRow handles opening the file and calling the JSON writer.
func printJSONResultsForRow(row schema.MetricRowValues, name string, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForRow(w, row, name)
	}, "Wrote JSON metric row results")
}

// printCSVResultsForRow handles opening the file and calling the CSV writer.
func printCSVResultsForRow(row schema.MetricRowValues, cfg *contract.Config, fmtFloat func(float64) string, fmtOptional func(*float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForRow(csvWriter, row, fmtFloat, fmtOptional)
	}, "Wrote CSV metric row results")
}

// printRowTable prints the metric row as a two-column field/value table.
// Absent values render as "-" so a missing reading never looks like zero.
func printRowTable(row schema.MetricRowValues, name string, cfg *contract.Config, fmtFloat func(float64) string, fmtOptional func(*float64) string, duration time.Duration) error {
	fmt.Println(headerEmoji(cfg, "📊", fmt.Sprintf("Metric row for %s", name)))

	table := tablewriter.NewWriter(os.Stdout)

	// --- 1. Define Headers ---
	table.Header([]string{"Field", "Value"})

	// 2. Configure Alignment
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	data := [][]string{
		{"Selection", fmtOptional(row.SelectionValue)},
		{"Selection range", formatRange(row.SelectionRange, fmtFloat)},
		{"Focus mean", fmtOptional(row.FocusMean)},
		{"Focus range", formatRange(row.FocusRange, fmtFloat)},
		{rowLabel("Shadow", row.ShadowLabel), fmtOptional(row.ShadowValue)},
		{rowLabel("Goal", row.GoalLabel), fmtOptional(row.GoalValue)},
		{"Forecast", fmtOptional(row.ForecastValue)},
	}
	for _, id := range sortedComparisonIDs(row.Comparisons) {
		delta := row.Comparisons[id]
		text := formatDelta(delta, fmtFloat)
		if cfg.UseColors {
			text = contract.ColorDelta(text, delta.AbsoluteDifference)
		}
		data = append(data, []string{"Δ " + id, text})
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Metric row computed in %v.\n", duration)
	return nil
}

// rowLabel appends a configured label to a field name when one exists.
func rowLabel(field, label string) string {
	if label == "" {
		return field
	}
	return fmt.Sprintf("%s (%s)", field, label)
}

// formatRange renders a min/max interval, or "-" when absent.
func formatRange(r *schema.ValueRange, fmtFloat func(float64) string) string {
	if r == nil {
		return absentValue
	}
	return fmt.Sprintf("%s to %s", fmtFloat(r.Min), fmtFloat(r.Max))
}

// formatDelta renders a comparison delta with its percent when available.
func formatDelta(delta schema.ComparisonDelta, fmtFloat func(float64) string) string {
	text := fmtFloat(delta.AbsoluteDifference)
	if delta.AbsoluteDifference > 0 {
		text = "+" + text
	}
	if delta.PercentDifference != nil {
		text = fmt.Sprintf("%s (%+.1f%%)", text, *delta.PercentDifference)
	}
	return text
}

// sortedComparisonIDs returns the comparison ids in stable order.
func sortedComparisonIDs(comparisons map[string]schema.ComparisonDelta) []string {
	ids := make([]string, 0, len(comparisons))
	for id := range comparisons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
