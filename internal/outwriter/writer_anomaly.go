package outwriter

import (
	"encoding/csv"
	"io"

	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/schema"
)

// writeJSONResultsForAnomalies marshals the schema.AnomalyResult to JSON and writes it.
func writeJSONResultsForAnomalies(w io.Writer, result schema.AnomalyResult, name string) error {
	payload := struct {
		Series string `json:"series"`
		schema.AnomalyResult
	}{Series: name, AnomalyResult: result}
	return writeJSON(w, payload)
}

// writeCSVResultsForAnomalies writes the schema.AnomalyResult data to a CSV writer.
func writeCSVResultsForAnomalies(w *csv.Writer, result schema.AnomalyResult, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"date",
		"value",
		"severity",
		"expected_lower",
		"expected_upper",
		"deviation",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, a := range result.Anomalies {
		row := []string{
			contract.FormatDate(a.Timestamp),
			fmtFloat(a.Value),
			string(a.Severity),
			fmtFloat(a.ExpectedRange.Lower),
			fmtFloat(a.ExpectedRange.Upper),
			fmtFloat(a.Deviation),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
