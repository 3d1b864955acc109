package outwriter

import (
	"encoding/csv"
	"io"

	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/schema"
)

// writeJSONResultsForForecast marshals the schema.ForecastResult to JSON and writes it.
func writeJSONResultsForForecast(w io.Writer, result *schema.ForecastResult, name string) error {
	payload := struct {
		Series string `json:"series"`
		*schema.ForecastResult
	}{Series: name, ForecastResult: result}
	return writeJSON(w, payload)
}

// writeCSVResultsForForecast writes the schema.ForecastResult data to a CSV writer.
func writeCSVResultsForForecast(w *csv.Writer, result *schema.ForecastResult, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"date",
		"forecast",
		"lower",
		"upper",
		"method",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	withBounds := len(result.Intervals) == len(result.Points)
	for i, p := range result.Points {
		lower, upper := absentValue, absentValue
		if withBounds {
			lower = fmtFloat(result.Intervals[i].Lower)
			upper = fmtFloat(result.Intervals[i].Upper)
		}
		row := []string{
			contract.FormatDate(p.Timestamp),
			fmtFloat(p.Value),
			lower,
			upper,
			string(result.Method),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
