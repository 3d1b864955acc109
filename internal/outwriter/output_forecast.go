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

// PrintForecastResults outputs a forecast, dispatching based on the output format configured.
func PrintForecastResults(result *schema.ForecastResult, name string, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForForecast(result, name, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForForecast(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printForecastTable(result, name, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing forecast table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForForecast handles opening the file and calling the JSON writer.
func printJSONResultsForForecast(result *schema.ForecastResult, name string, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForForecast(w, result, name)
	}, "Wrote JSON forecast results")
}

// printCSVResultsForForecast handles opening the file and calling the CSV writer.
func printCSVResultsForForecast(result *schema.ForecastResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForForecast(csvWriter, result, fmtFloat)
	}, "Wrote CSV forecast results")
}

// printForecastTable prints the forecast in a table with optional
// confidence bounds.
func printForecastTable(result *schema.ForecastResult, name string, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	fmt.Println(headerEmoji(cfg, "📈", fmt.Sprintf(
		"Forecast for %s (method: %s, horizon: %d)", name, result.Method, len(result.Points))))

	table := tablewriter.NewWriter(os.Stdout)

	// --- 1. Define Headers ---
	headers := []string{"Date", "Forecast"}
	withBounds := len(result.Intervals) == len(result.Points)
	if withBounds {
		headers = append(headers, "Lower", "Upper")
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var data [][]string
	for i, p := range result.Points {
		row := []string{
			contract.FormatDate(p.Timestamp),
			fmtFloat(p.Value),
		}
		if withBounds {
			ci := result.Intervals[i]
			row = append(row, fmtFloat(ci.Lower), fmtFloat(ci.Upper))
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

	params := result.Parameters
	fmt.Printf("Parameters: alpha=%.2f beta=%.2f gamma=%.2f phi=%.2f seasonal=%s\n",
		params.Alpha, params.Beta, params.Gamma, params.Phi, params.Seasonal)
	fmt.Printf("Forecast completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return nil
}
