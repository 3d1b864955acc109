package core

import (
	"sort"
	"time"

	"github.com/trendboard/trendboard/schema"
)

// MetricRowInput carries everything needed to compute one metric row: the
// raw series, the selection timestamp, an optional focus window, and the
// per-line configurations. Nil selection or focus bounds mean not set.
type MetricRowInput struct {
	Series      schema.PointSequence
	Selection   *time.Time
	FocusStart  *time.Time
	FocusEnd    *time.Time
	Aggregation schema.AggregationConfig
	Shadows     []schema.ShadowConfig
	Goal        schema.GoalConfig
	Forecast    schema.ForecastConfig
	Comparisons []schema.ComparisonConfig
}

// ComputeMetricRow merges the aggregator, shadow generator, goal projector
// and forecaster outputs into the row readout for one series at one
// selection. Every field degrades independently: a missing selection or an
// empty series yields an all-absent result, and one absent source never
// blocks the others. The function is pure; calling it twice with the same
// input produces identical output.
func ComputeMetricRow(in MetricRowInput) schema.MetricRowValues {
	var row schema.MetricRowValues
	if len(in.Series) == 0 || in.Selection == nil {
		return row
	}
	sel := *in.Selection

	display := Aggregate(in.Series, in.Aggregation)

	// 1. Selection value. Group-by rows recompute mean and range from the
	// raw points in the selected bucket; the bucket's summed rate drives
	// the trend line but would misrepresent a readout.
	if in.Aggregation.Enabled && in.Aggregation.Mode == schema.AggGroupBy {
		raw := pointsInBucket(in.Series, sel, in.Aggregation.GroupBy)
		if mean, rng, ok := sequenceStats(raw); ok {
			row.SelectionValue = &mean
			row.SelectionRange = &rng
		}
	} else if v, ok := valueAt(display, sel); ok {
		row.SelectionValue = &v
	}

	// 2. Headline shadow: the first enabled shadow, displayed through the
	// same aggregation as the live series. Group-by rows resolve the value
	// from the shadow's raw points in the selected bucket, mirroring the
	// selection readout; the display line only carries bucket-start
	// timestamps, which a mid-bucket selection would never match.
	shadowRaws := make(map[int]schema.PointSequence, len(in.Shadows))
	shadowDisplays := make(map[int]schema.PointSequence, len(in.Shadows))
	for i, cfg := range in.Shadows {
		if !cfg.Enabled {
			continue
		}
		shadowRaws[i] = GenerateShadow(in.Series, cfg)
		shadowDisplays[i] = Aggregate(shadowRaws[i], in.Aggregation)
		if row.ShadowValue == nil {
			if v, ok := shadowValueAt(shadowRaws[i], shadowDisplays[i], sel, in.Aggregation); ok {
				row.ShadowValue = &v
				row.ShadowLabel = cfg.Label
			}
		}
	}

	// 3. Goal line at the selection.
	projection := ProjectGoal(in.Series, in.Goal)
	if v, ok := lineValueAt(projection.Points, sel); ok {
		row.GoalValue = &v
		row.GoalLabel = in.Goal.ID
	}

	// 4. Forecast at the selection. Forecast failures are absent values
	// here, not row errors.
	var forecastLine []schema.ValuePoint
	if forecast, err := Forecast(in.Series, in.Forecast); err == nil && forecast != nil {
		forecastLine = forecast.Points
		if v, ok := lineValueAt(forecastLine, sel); ok {
			row.ForecastValue = &v
		}
	}

	// 5. Focus-period statistics over the aggregated display values.
	if in.FocusStart != nil && in.FocusEnd != nil {
		window := pointsBetween(display, *in.FocusStart, *in.FocusEnd)
		if mean, rng, ok := sequenceStats(window); ok {
			row.FocusMean = &mean
			row.FocusRange = &rng
		}
	}

	// 6. Dynamic comparisons, keyed by id. A comparison whose current or
	// baseline side is absent is omitted entirely.
	for _, cmp := range in.Comparisons {
		current, ok := comparisonCurrent(row, cmp.Scope)
		if !ok {
			continue
		}
		baseline, ok := comparisonBaseline(in, cmp, sel, shadowRaws, shadowDisplays, projection.Points, forecastLine)
		if !ok {
			continue
		}
		if row.Comparisons == nil {
			row.Comparisons = make(map[string]schema.ComparisonDelta, len(in.Comparisons))
		}
		row.Comparisons[cmp.ID] = delta(current, baseline)
	}

	return row
}

// comparisonCurrent picks the row-side value for a comparison scope.
func comparisonCurrent(row schema.MetricRowValues, scope schema.ComparisonScope) (float64, bool) {
	switch scope {
	case schema.ScopeFocus:
		if row.FocusMean != nil {
			return *row.FocusMean, true
		}
	default:
		if row.SelectionValue != nil {
			return *row.SelectionValue, true
		}
	}
	return 0, false
}

// comparisonBaseline resolves the baseline side of one comparison: a value
// at the selection timestamp, or a mean over the focus window, taken from
// the configured source line.
func comparisonBaseline(
	in MetricRowInput,
	cmp schema.ComparisonConfig,
	sel time.Time,
	shadowRaws, shadowDisplays map[int]schema.PointSequence,
	goalLine, forecastLine []schema.ValuePoint,
) (float64, bool) {
	focus := cmp.Scope == schema.ScopeFocus
	if focus && (in.FocusStart == nil || in.FocusEnd == nil) {
		return 0, false
	}

	switch cmp.Source {
	case schema.CompareShadow:
		shadow, ok := shadowDisplays[cmp.ShadowIndex]
		if !ok {
			return 0, false
		}
		if focus {
			mean, _, ok := sequenceStats(pointsBetween(shadow, *in.FocusStart, *in.FocusEnd))
			return mean, ok
		}
		return shadowValueAt(shadowRaws[cmp.ShadowIndex], shadow, sel, in.Aggregation)
	case schema.CompareGoal:
		if focus {
			return lineMeanBetween(goalLine, *in.FocusStart, *in.FocusEnd)
		}
		return lineValueAt(goalLine, sel)
	case schema.CompareForecast:
		if focus {
			return lineMeanBetween(forecastLine, *in.FocusStart, *in.FocusEnd)
		}
		return lineValueAt(forecastLine, sel)
	}
	return 0, false
}

// shadowValueAt resolves a shadow's readout value at the selection. Under
// group-by the value is the mean of the shadow's raw points in the
// selected bucket; other display modes match on the display line.
func shadowValueAt(raw, display schema.PointSequence, sel time.Time, agg schema.AggregationConfig) (float64, bool) {
	if agg.Enabled && agg.Mode == schema.AggGroupBy {
		mean, _, ok := sequenceStats(pointsInBucket(raw, sel, agg.GroupBy))
		return mean, ok
	}
	return valueAt(display, sel)
}

// delta computes absolute and percent differences against a baseline.
// Percent is absent when the baseline is zero.
func delta(current, baseline float64) schema.ComparisonDelta {
	d := schema.ComparisonDelta{AbsoluteDifference: current - baseline}
	if baseline != 0 {
		pct := (current - baseline) / baseline * 100
		d.PercentDifference = &pct
	}
	return d
}

// sequenceStats returns the mean and min/max range of the representable
// values in a sequence, with false when none are available.
func sequenceStats(s schema.PointSequence) (float64, schema.ValueRange, bool) {
	var (
		sum   float64
		count int
		rng   schema.ValueRange
	)
	for _, p := range s {
		v, ok := p.Value()
		if !ok {
			continue
		}
		if count == 0 {
			rng.Min, rng.Max = v, v
		} else {
			if v < rng.Min {
				rng.Min = v
			}
			if v > rng.Max {
				rng.Max = v
			}
		}
		sum += v
		count++
	}
	if count == 0 {
		return 0, schema.ValueRange{}, false
	}
	return sum / float64(count), rng, true
}

// pointsBetween returns the subsequence with timestamps in [start, end]
// inclusive.
func pointsBetween(s schema.PointSequence, start, end time.Time) schema.PointSequence {
	lo := sort.Search(len(s), func(i int) bool {
		return !s[i].Timestamp.Before(start)
	})
	hi := sort.Search(len(s), func(i int) bool {
		return s[i].Timestamp.After(end)
	})
	if lo >= hi {
		return schema.PointSequence{}
	}
	return s[lo:hi]
}

// lineValueAt resolves a value on a projected line (goal or forecast) at
// target. Inside the line's span the value is linearly interpolated
// between the bracketing anchor points, since the line is defined
// everywhere between them (a continuous goal is only two anchors wide).
// Beyond either end the usual matching tolerance applies.
func lineValueAt(line []schema.ValuePoint, target time.Time) (float64, bool) {
	n := len(line)
	if n == 0 {
		return 0, false
	}
	i := sort.Search(n, func(i int) bool {
		return !line[i].Timestamp.Before(target)
	})

	switch i {
	case 0:
		if line[0].Timestamp.Sub(target) > matchTolerance {
			return 0, false
		}
		return line[0].Value, true
	case n:
		if target.Sub(line[n-1].Timestamp) > matchTolerance {
			return 0, false
		}
		return line[n-1].Value, true
	}

	prev, next := line[i-1], line[i]
	span := next.Timestamp.Sub(prev.Timestamp)
	if span <= 0 {
		return next.Value, true
	}
	frac := float64(target.Sub(prev.Timestamp)) / float64(span)
	return prev.Value + (next.Value-prev.Value)*frac, true
}

// lineMeanBetween averages line values with timestamps in [start, end].
func lineMeanBetween(line []schema.ValuePoint, start, end time.Time) (float64, bool) {
	var (
		sum   float64
		count int
	)
	for _, p := range line {
		if p.Timestamp.Before(start) || p.Timestamp.After(end) {
			continue
		}
		sum += p.Value
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
