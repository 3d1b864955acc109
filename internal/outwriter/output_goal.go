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

// PrintGoalResults outputs a goal projection, dispatching based on the output format configured.
func PrintGoalResults(projection schema.GoalProjection, name string, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForGoal(projection, name, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForGoal(projection, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printGoalTable(projection, name, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing goal table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForGoal handles opening the file and writing the JSON payload.
func printJSONResultsForGoal(projection schema.GoalProjection, name string, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		payload := struct {
			Series string `json:"series"`
			schema.GoalProjection
		}{Series: name, GoalProjection: projection}
		return writeJSON(w, payload)
	}, "Wrote JSON goal results")
}

// printCSVResultsForGoal handles opening the file and writing the CSV rows.
func printCSVResultsForGoal(projection schema.GoalProjection, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, []string{"date", "goal", "start_tier"}, func(csvWriter *csv.Writer) error {
			for _, p := range projection.Points {
				row := []string{
					contract.FormatDate(p.Timestamp),
					fmtFloat(p.Value),
					string(projection.StartTier),
				}
				if err := csvWriter.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV goal results")
}

// printGoalTable prints the projected goal line and names the fallback tier
// that resolved its start value.
func printGoalTable(projection schema.GoalProjection, name string, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	fmt.Println(headerEmoji(cfg, "🎯", fmt.Sprintf("Goal projection for %s", name)))

	table := tablewriter.NewWriter(os.Stdout)

	// --- 1. Define Headers ---
	table.Header([]string{"Date", "Goal"})

	// 2. Configure Alignment
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var data [][]string
	for _, p := range projection.Points {
		data = append(data, []string{contract.FormatDate(p.Timestamp), fmtFloat(p.Value)})
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Start value resolved via %s. Projection completed in %v.\n", projection.StartTier, duration)
	return nil
}
