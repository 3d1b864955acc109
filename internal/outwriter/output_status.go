package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/schema"
)

// PrintRunHistory outputs past forecast runs, dispatching based on the output format configured.
func PrintRunHistory(runs []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON run history")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"run_id", "series", "method", "horizon", "points", "start_time", "duration_ms"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				for _, r := range runs {
					row := []string{
						fmt.Sprintf("%d", r.RunID),
						r.SeriesName,
						string(r.Method),
						fmt.Sprintf("%d", r.Horizon),
						fmt.Sprintf("%d", r.PointCount),
						contract.FormatDate(r.StartTime),
						fmt.Sprintf("%d", r.RunDurationMs),
					}
					if err := csvWriter.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV run history")
	default:
		return printRunHistoryTable(runs, cfg)
	}
}

// printRunHistoryTable prints past runs in a table.
func printRunHistoryTable(runs []schema.RunRecord, cfg *contract.Config) error {
	fmt.Println(headerEmoji(cfg, "🗂️", fmt.Sprintf("Run history (%d runs)", len(runs))))

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Run", "Series", "Method", "Horizon", "Points", "Started", "Duration (ms)"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range runs {
		data = append(data, []string{
			fmt.Sprintf("%d", r.RunID),
			r.SeriesName,
			string(r.Method),
			fmt.Sprintf("%d", r.Horizon),
			fmt.Sprintf("%d", r.PointCount),
			contract.FormatDate(r.StartTime),
			fmt.Sprintf("%d", r.RunDurationMs),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// PrintCacheStatus outputs forecast cache store status.
func PrintCacheStatus(status schema.CacheStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON cache status")
	}

	fmt.Println(headerEmoji(cfg, "🧰", "Forecast cache status"))
	fmt.Printf("Backend:   %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	fmt.Printf("Entries:   %d\n", status.TotalEntries)
	if !status.LastEntryTime.IsZero() {
		fmt.Printf("Newest:    %s\n", contract.FormatDate(status.LastEntryTime))
	}
	if !status.OldestEntryTime.IsZero() {
		fmt.Printf("Oldest:    %s\n", contract.FormatDate(status.OldestEntryTime))
	}
	if status.TableSizeBytes > 0 {
		fmt.Printf("Size:      %d bytes\n", status.TableSizeBytes)
	}
	return nil
}

// PrintRunStatus outputs run-history store status.
func PrintRunStatus(status schema.RunStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON run status")
	}

	fmt.Println(headerEmoji(cfg, "🧰", "Run history status"))
	fmt.Printf("Backend:   %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	fmt.Printf("Runs:      %d\n", status.TotalRuns)
	if !status.LastRunTime.IsZero() {
		fmt.Printf("Last run:  %s\n", contract.FormatDate(status.LastRunTime))
	}
	return nil
}
