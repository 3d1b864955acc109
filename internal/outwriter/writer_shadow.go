package outwriter

import (
	"encoding/csv"
	"io"

	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/schema"
)

// writeJSONResultsForShadows marshals the shadow output to JSON and writes it.
func writeJSONResultsForShadows(w io.Writer, series schema.PointSequence, shadows []schema.ShadowSeries, averages []schema.ShadowAveragePoint, name string) error {
	payload := struct {
		Series   string                      `json:"series"`
		Live     schema.PointSequence        `json:"live"`
		Shadows  []schema.ShadowSeries       `json:"shadows"`
		Averages []schema.ShadowAveragePoint `json:"averages,omitempty"`
	}{Series: name, Live: series, Shadows: shadows, Averages: averages}
	return writeJSON(w, payload)
}

// writeCSVResultsForShadows writes the shadow output to a CSV writer in long
// form, one row per live point per shadow.
func writeCSVResultsForShadows(w *csv.Writer, series schema.PointSequence, shadows []schema.ShadowSeries, averages []schema.ShadowAveragePoint, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"date",
		"shadow",
		"live",
		"value",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	shadowLookups := buildShadowLookups(shadows)
	for _, p := range series {
		live := formatPointValue(p, fmtFloat)
		for i, shadow := range shadows {
			row := []string{
				contract.FormatDate(p.Timestamp),
				shadow.Label,
				live,
				formatLookupValue(shadowLookups[i], p.Timestamp, fmtFloat),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	// 3. Write Average Rows
	for _, avg := range averages {
		row := []string{
			contract.FormatDate(avg.Timestamp),
			"average",
			absentValue,
			fmtFloat(avg.Mean),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
