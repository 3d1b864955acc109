package core

import (
	"sort"
	"time"

	"github.com/trendboard/trendboard/schema"
)

// Aggregate applies the configured display transform to a series, always
// producing a new ascending sequence. A disabled config returns a copy of
// the input unchanged.
func Aggregate(s schema.PointSequence, cfg schema.AggregationConfig) schema.PointSequence {
	if !cfg.Enabled {
		out := make(schema.PointSequence, len(s))
		copy(out, s)
		return out
	}
	switch cfg.Mode {
	case schema.AggSmoothing:
		return RollingAverage(s, cfg.Period, cfg.Unit)
	case schema.AggGroupBy:
		return GroupByPeriod(s, cfg.GroupBy)
	}
	out := make(schema.PointSequence, len(s))
	copy(out, s)
	return out
}

// RollingAverage emits, for each point with timestamp T, the sums of
// numerator and denominator over all points in [T-(period-1) units, T].
// Summing both sides separately (instead of averaging ratios) preserves
// weighted-rate semantics.
//
// The window advances with two pointers so the whole pass is O(n); a
// rescan per point would be quadratic on multi-year daily series.
// A period <= 0 or an empty sequence yields an empty result.
func RollingAverage(s schema.PointSequence, period int, unit schema.PeriodUnit) schema.PointSequence {
	if len(s) == 0 || period <= 0 {
		return schema.PointSequence{}
	}

	out := make(schema.PointSequence, 0, len(s))
	var sumNum, sumDen float64
	lo := 0

	for hi, p := range s {
		sumNum += p.Numerator
		sumDen += p.Denominator

		// Evict points that fell out of the trailing window.
		start := windowStart(p.Timestamp, period, unit)
		for lo <= hi && s[lo].Timestamp.Before(start) {
			sumNum -= s[lo].Numerator
			sumDen -= s[lo].Denominator
			lo++
		}

		out = append(out, schema.Point{
			Timestamp:   p.Timestamp,
			Numerator:   sumNum,
			Denominator: sumDen,
		})
	}
	return out
}

// GroupByPeriod maps each point to the start of its containing calendar
// bucket, sums numerator and denominator per bucket, and emits one point
// per bucket ascending. Buckets with no points are omitted (sparse, not
// zero-filled).
func GroupByPeriod(s schema.PointSequence, period schema.GroupPeriod) schema.PointSequence {
	if len(s) == 0 {
		return schema.PointSequence{}
	}

	type bucketSum struct {
		num float64
		den float64
	}
	buckets := make(map[int64]bucketSum)
	starts := make(map[int64]time.Time)

	for _, p := range s {
		start := bucketStart(p.Timestamp, period)
		key := start.Unix()
		b := buckets[key]
		b.num += p.Numerator
		b.den += p.Denominator
		buckets[key] = b
		starts[key] = start
	}

	out := make(schema.PointSequence, 0, len(buckets))
	for key, b := range buckets {
		out = append(out, schema.Point{
			Timestamp:   starts[key],
			Numerator:   b.num,
			Denominator: b.den,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// pointsInBucket returns the raw points whose timestamps fall inside the
// calendar bucket containing t. The metric-row readout recomputes its
// mean/range from these raw points rather than the bucket's summed rate.
func pointsInBucket(s schema.PointSequence, t time.Time, period schema.GroupPeriod) schema.PointSequence {
	start := bucketStart(t, period)
	out := make(schema.PointSequence, 0)
	for _, p := range s {
		if bucketStart(p.Timestamp, period).Equal(start) {
			out = append(out, p)
		}
	}
	return out
}
