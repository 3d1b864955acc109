package outwriter

import (
	"encoding/csv"
	"io"

	"github.com/trendboard/trendboard/schema"
)

// writeJSONResultsForRow marshals the schema.MetricRowValues to JSON and writes it.
func writeJSONResultsForRow(w io.Writer, row schema.MetricRowValues, name string) error {
	payload := struct {
		Series string `json:"series"`
		schema.MetricRowValues
	}{Series: name, MetricRowValues: row}
	return writeJSON(w, payload)
}

// writeCSVResultsForRow writes the schema.MetricRowValues data to a CSV writer.
// One row per field keeps the output grep-friendly for dashboards with many
// metric rows concatenated into a single file.
func writeCSVResultsForRow(w *csv.Writer, row schema.MetricRowValues, fmtFloat func(float64) string, fmtOptional func(*float64) string) error {
	// 1. Write Header Row
	header := []string{
		"field",
		"label",
		"value",
		"percent",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	rows := [][]string{
		{"selection", "", fmtOptional(row.SelectionValue), absentValue},
		{"focus_mean", "", fmtOptional(row.FocusMean), absentValue},
		{"shadow", row.ShadowLabel, fmtOptional(row.ShadowValue), absentValue},
		{"goal", row.GoalLabel, fmtOptional(row.GoalValue), absentValue},
		{"forecast", "", fmtOptional(row.ForecastValue), absentValue},
	}
	for _, id := range sortedComparisonIDs(row.Comparisons) {
		delta := row.Comparisons[id]
		rows = append(rows, []string{
			"comparison",
			id,
			fmtFloat(delta.AbsoluteDifference),
			fmtOptional(delta.PercentDifference),
		})
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}
