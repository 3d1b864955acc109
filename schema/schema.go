// Package schema has configs, models and shared types for all parts of trendboard.
package schema

import (
	"math"
	"sort"
	"time"
)

// Point is a single rate-metric observation. The metric value is
// Numerator/Denominator so that aggregation can sum both sides
// independently and keep weighted-rate semantics intact.
type Point struct {
	Timestamp   time.Time `json:"timestamp"`
	Numerator   float64   `json:"numerator"`
	Denominator float64   `json:"denominator"`
}

// Value returns the rate value of the point. The second return is false
// when the value is not representable (zero or negative denominator, or a
// non-finite component); callers must treat that as absent, never as zero.
func (p Point) Value() (float64, bool) {
	if p.Denominator <= 0 {
		return 0, false
	}
	v := p.Numerator / p.Denominator
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// PointSequence is a series of points sorted ascending by timestamp with
// unique timestamps. Use Normalize to establish both invariants before
// handing a sequence to the engine.
type PointSequence []Point

// ValuePoint is a single derived observation on a shadow, goal or
// forecast line.
type ValuePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// ShadowAveragePoint holds the across-shadow statistics at one live timestamp.
type ShadowAveragePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Mean      float64   `json:"mean"`
	StdDev    float64   `json:"std_dev"`
}

// ShadowSeries pairs one generated shadow with its display label.
type ShadowSeries struct {
	Label  string        `json:"label"`
	Points PointSequence `json:"points"`
}

// Normalize sorts points ascending by timestamp and collapses duplicate
// timestamps with last-write-wins. The input slice is not modified.
func Normalize(points []Point) PointSequence {
	if len(points) == 0 {
		return PointSequence{}
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	// Stable sort keeps input order within a duplicate group, so the last
	// write survives the dedupe pass below.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	out := sorted[:0]
	for _, p := range sorted {
		if n := len(out); n > 0 && out[n-1].Timestamp.Equal(p.Timestamp) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return PointSequence(out)
}

// First returns the earliest point, or false on an empty sequence.
func (s PointSequence) First() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[0], true
}

// Last returns the latest point, or false on an empty sequence.
func (s PointSequence) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// Values extracts the finite rate values of the sequence in order,
// skipping points whose value is absent.
func (s PointSequence) Values() []float64 {
	values := make([]float64, 0, len(s))
	for _, p := range s {
		if v, ok := p.Value(); ok {
			values = append(values, v)
		}
	}
	return values
}
