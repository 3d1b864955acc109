// Package core has the time-series analytical engine: aggregation,
// shadow baselines, goal projection, forecasting, anomaly detection and
// the metric-row orchestration that combines them. Every function is pure:
// immutable inputs in, freshly allocated outputs out, no cross-call state.
package core

import (
	"time"

	"github.com/trendboard/trendboard/schema"
)

// matchTolerance is the engine-wide timestamp matching window: "the point
// at date X" means the nearest point within one calendar day of X.
const matchTolerance = 24 * time.Hour

// shiftBack moves t backward by periods calendar units. Month, quarter and
// year shifts are calendar-correct rather than fixed durations, so "1 month
// ago" from March 31 lands where the calendar says, not 30 days back.
func shiftBack(t time.Time, periods int, unit schema.PeriodUnit) time.Time {
	switch unit {
	case schema.UnitDay:
		return t.AddDate(0, 0, -periods)
	case schema.UnitWeek:
		return t.AddDate(0, 0, -7*periods)
	case schema.UnitMonth:
		return t.AddDate(0, -periods, 0)
	case schema.UnitQuarter:
		return t.AddDate(0, -3*periods, 0)
	case schema.UnitYear:
		return t.AddDate(-periods, 0, 0)
	}
	// Units are validated at config construction; an unknown unit here is a
	// programming error and the identity shift keeps the damage visible.
	return t
}

// windowStart returns the inclusive start of a trailing window of length
// period units ending at t, i.e. t - (period-1) units.
func windowStart(t time.Time, period int, unit schema.PeriodUnit) time.Time {
	return shiftBack(t, period-1, unit)
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// bucketStart maps t to the start of its containing calendar bucket.
// Weeks start on Sunday.
func bucketStart(t time.Time, period schema.GroupPeriod) time.Time {
	y, m, _ := t.Date()
	switch period {
	case schema.GroupWeek:
		return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
	case schema.GroupMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	case schema.GroupQuarter:
		qm := time.Month(((int(m)-1)/3)*3 + 1)
		return time.Date(y, qm, 1, 0, 0, 0, 0, t.Location())
	case schema.GroupYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, t.Location())
	}
	return startOfDay(t)
}

// quarterStart returns the first day of the quarter containing t.
func quarterStart(t time.Time) time.Time {
	return bucketStart(t, schema.GroupQuarter)
}

// alignWeekday nudges ref to the nearest date sharing the weekday of live,
// at most three days in either direction, so weekday-aligned shadows
// compare Mondays to Mondays.
func alignWeekday(ref time.Time, live time.Time) time.Time {
	delta := int(live.Weekday()) - int(ref.Weekday())
	if delta > 3 {
		delta -= 7
	} else if delta < -3 {
		delta += 7
	}
	return ref.AddDate(0, 0, delta)
}
