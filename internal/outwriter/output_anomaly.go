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

// PrintAnomalyResults outputs detected anomalies, dispatching based on the output format configured.
func PrintAnomalyResults(result schema.AnomalyResult, name string, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForAnomalies(result, name, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForAnomalies(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printAnomalyTable(result, name, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing anomaly table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForAnomalies handles opening the file and calling the JSON writer.
func printJSONResultsForAnomalies(result schema.AnomalyResult, name string, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForAnomalies(w, result, name)
	}, "Wrote JSON anomaly results")
}

// printCSVResultsForAnomalies handles opening the file and calling the CSV writer.
func printCSVResultsForAnomalies(result schema.AnomalyResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForAnomalies(csvWriter, result, fmtFloat)
	}, "Wrote CSV anomaly results")
}

// printAnomalyTable prints each flagged point with its expected range and a
// severity label, colored when colors are enabled.
func printAnomalyTable(result schema.AnomalyResult, name string, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	fmt.Println(headerEmoji(cfg, "🚨", fmt.Sprintf(
		"Anomalies for %s (sensitivity: %s)", name, result.Sensitivity)))

	table := tablewriter.NewWriter(os.Stdout)

	// --- 1. Define Headers ---
	table.Header([]string{"Date", "Value", "Severity", "Expected", "Deviation"})

	// 2. Configure Alignment
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var data [][]string
	for _, a := range result.Anomalies {
		severity := contract.GetPlainSeverityLabel(string(a.Severity))
		if cfg.UseColors {
			severity = contract.GetColorSeverityLabel(string(a.Severity))
		}
		row := []string{
			contract.FormatDate(a.Timestamp),
			fmtFloat(a.Value),
			severity,
			fmt.Sprintf("%s to %s", fmtFloat(a.ExpectedRange.Lower), fmtFloat(a.ExpectedRange.Upper)),
			fmtFloat(a.Deviation),
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

	fmt.Printf("Found %d anomalies in %d points (%.1f%%) in %v.\n",
		result.AnomalyCount, result.TotalPoints, result.AnomalyRate*100, duration)
	return nil
}
