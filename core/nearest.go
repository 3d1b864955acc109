package core

import (
	"sort"
	"time"

	"github.com/trendboard/trendboard/schema"
)

// nearestIndex returns the index of the point in s closest to target by
// absolute distance, preferring the earlier point on an exact tie. The
// sequence must be sorted ascending. Returns false on an empty sequence.
//
// This is the one nearest-neighbor lookup shared by the shadow, goal and
// selection paths; it is a binary search, not a linear scan, because
// multi-year daily series hit it once per rendered point.
func nearestIndex(s schema.PointSequence, target time.Time) (int, bool) {
	n := len(s)
	if n == 0 {
		return 0, false
	}

	// First index with timestamp >= target.
	i := sort.Search(n, func(i int) bool {
		return !s[i].Timestamp.Before(target)
	})

	switch i {
	case 0:
		return 0, true
	case n:
		return n - 1, true
	}

	before := target.Sub(s[i-1].Timestamp)
	after := s[i].Timestamp.Sub(target)
	if before <= after {
		// Earlier point wins the exact tie.
		return i - 1, true
	}
	return i, true
}

// nearestWithin returns the point closest to target if it lies within
// tolerance, with absent (false) otherwise. It never falls back to a
// neighboring point outside the window.
func nearestWithin(s schema.PointSequence, target time.Time, tolerance time.Duration) (schema.Point, bool) {
	i, ok := nearestIndex(s, target)
	if !ok {
		return schema.Point{}, false
	}
	d := s[i].Timestamp.Sub(target)
	if d < 0 {
		d = -d
	}
	if d > tolerance {
		return schema.Point{}, false
	}
	return s[i], true
}

// valueAt resolves the display value at target using the engine-wide
// one-day matching tolerance. Absent when there is no match or the matched
// point's value is not representable.
func valueAt(s schema.PointSequence, target time.Time) (float64, bool) {
	p, ok := nearestWithin(s, target, matchTolerance)
	if !ok {
		return 0, false
	}
	return p.Value()
}

// valueNearest returns the value of the closest in-range point to target
// with no tolerance cap, absent when target falls outside the sequence's
// historical extent. Shadow generation uses this so sparse (weekly,
// monthly) series still match.
func valueNearest(s schema.PointSequence, target time.Time) (schema.Point, bool) {
	if len(s) == 0 {
		return schema.Point{}, false
	}
	if target.Before(s[0].Timestamp) || target.After(s[len(s)-1].Timestamp) {
		return schema.Point{}, false
	}
	i, _ := nearestIndex(s, target)
	return s[i], true
}
