package core

import (
	"math"

	"github.com/trendboard/trendboard/schema"
)

// sensitivityZ maps detection sensitivity to the z-score of its band.
// Higher sensitivity widens the band, so only sharper excursions flag.
var sensitivityZ = map[schema.Sensitivity]float64{
	schema.SensitivityLow:    1.645, // 90%
	schema.SensitivityMedium: 1.960, // 95%
	schema.SensitivityHigh:   2.576, // 99%
}

// DetectAnomalies flags points falling outside a centered rolling
// mean/stddev band. The window is min(2 x seasonLength, n), floored at 3;
// season length falls back to 7 when unset. Deviation is measured from
// the band midpoint in half-widths, and severity thresholds tighten as
// sensitivity rises. Points whose local window cannot produce a standard
// deviation are never flagged.
func DetectAnomalies(s schema.PointSequence, sensitivity schema.Sensitivity, seasonLength int, includeBands bool) schema.AnomalyResult {
	result := schema.AnomalyResult{Sensitivity: sensitivity}

	times, values := finiteObservations(s)
	n := len(values)
	result.TotalPoints = n
	if n == 0 {
		return result
	}

	if seasonLength <= 1 {
		seasonLength = 7
	}
	window := min(2*seasonLength, n)
	if window < 3 {
		window = n
	}

	z, ok := sensitivityZ[sensitivity]
	if !ok {
		z = sensitivityZ[schema.SensitivityMedium]
	}

	for i := range values {
		lo := i - (window-1)/2
		hi := lo + window
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
		local := values[lo:hi]
		if len(local) < 2 {
			continue
		}

		mean := meanOf(local)
		sd := sampleStdDev(local, mean)
		lower := mean - z*sd
		upper := mean + z*sd

		if includeBands {
			result.Bands = append(result.Bands, schema.ConfidenceBand{
				Timestamp: times[i],
				Lower:     lower,
				Upper:     upper,
			})
		}

		v := values[i]
		if v >= lower && v <= upper {
			continue
		}

		halfWidth := (upper - lower) / 2
		var deviation float64
		if halfWidth > 0 {
			deviation = math.Abs(v-mean) / halfWidth
		}
		result.Anomalies = append(result.Anomalies, schema.AnomalyPoint{
			Timestamp:     times[i],
			Value:         v,
			Severity:      classifySeverity(deviation, sensitivity),
			ExpectedRange: schema.ExpectedRange{Lower: lower, Upper: upper},
			Deviation:     deviation,
		})
	}

	result.AnomalyCount = len(result.Anomalies)
	if n > 0 {
		result.AnomalyRate = float64(result.AnomalyCount) / float64(n)
	}
	return result
}

// classifySeverity grades an anomaly by its deviation. The thresholds
// shift with sensitivity: a wide (high-sensitivity) band already filters
// mild excursions, so anything escaping it is graded more harshly.
func classifySeverity(deviation float64, sensitivity schema.Sensitivity) schema.Severity {
	switch sensitivity {
	case schema.SensitivityLow:
		switch {
		case deviation > 3:
			return schema.SeverityHigh
		case deviation > 2:
			return schema.SeverityMedium
		}
	case schema.SensitivityHigh:
		switch {
		case deviation > 1.5:
			return schema.SeverityHigh
		case deviation > 1:
			return schema.SeverityMedium
		}
	default:
		switch {
		case deviation > 2:
			return schema.SeverityHigh
		case deviation > 1.5:
			return schema.SeverityMedium
		}
	}
	return schema.SeverityLow
}
