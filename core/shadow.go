package core

import (
	"math"

	"github.com/trendboard/trendboard/schema"
)

// GenerateShadow produces the time-shifted historical copy of a series for
// one shadow policy. For each live point, the reference timestamp is the
// live timestamp shifted back by periods x unit (weekday-aligned when the
// policy asks for it), and the closest historical point to that reference
// is emitted under the live timestamp so the result overlays the live
// series directly. References outside the series' historical range are
// simply absent; there is no extrapolation.
func GenerateShadow(s schema.PointSequence, cfg schema.ShadowConfig) schema.PointSequence {
	if !cfg.Enabled || len(s) == 0 {
		return schema.PointSequence{}
	}

	out := make(schema.PointSequence, 0, len(s))
	for _, live := range s {
		ref := shiftBack(live.Timestamp, cfg.Periods, cfg.Unit)
		if cfg.AlignDayOfWeek {
			ref = alignWeekday(ref, live.Timestamp)
		}
		match, ok := valueNearest(s, ref)
		if !ok {
			continue
		}
		out = append(out, schema.Point{
			Timestamp:   live.Timestamp,
			Numerator:   match.Numerator,
			Denominator: match.Denominator,
		})
	}
	return out
}

// AverageShadows computes, for each live timestamp, the mean and sample
// standard deviation of the enabled shadows' values at that timestamp.
// Shadows missing a point at a timestamp are excluded from that
// timestamp's statistics, not treated as zero; a single available value
// has a standard deviation of 0.
func AverageShadows(s schema.PointSequence, shadows []schema.ShadowConfig) []schema.ShadowAveragePoint {
	if len(s) == 0 {
		return nil
	}

	// Pre-generate each enabled shadow once; each is aligned to the live
	// timestamps, so per-timestamp lookup is a map hit.
	lookups := make([]map[int64]float64, 0, len(shadows))
	for _, cfg := range shadows {
		if !cfg.Enabled {
			continue
		}
		shadow := GenerateShadow(s, cfg)
		m := make(map[int64]float64, len(shadow))
		for _, p := range shadow {
			if v, ok := p.Value(); ok {
				m[p.Timestamp.Unix()] = v
			}
		}
		lookups = append(lookups, m)
	}
	if len(lookups) == 0 {
		return nil
	}

	out := make([]schema.ShadowAveragePoint, 0, len(s))
	for _, live := range s {
		key := live.Timestamp.Unix()
		values := make([]float64, 0, len(lookups))
		for _, m := range lookups {
			if v, ok := m[key]; ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		mean := meanOf(values)
		out = append(out, schema.ShadowAveragePoint{
			Timestamp: live.Timestamp,
			Mean:      mean,
			StdDev:    sampleStdDev(values, mean),
		})
	}
	return out
}

// meanOf returns the arithmetic mean of values. Callers guarantee a
// non-empty slice.
func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev returns the sample (n-1) standard deviation, or 0 when
// fewer than two values are available.
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
