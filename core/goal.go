package core

import (
	"time"

	"github.com/trendboard/trendboard/schema"
)

// ProjectGoal turns a goal configuration into a projected line over the
// series. A disabled goal, or an end-of-period goal missing its end date
// or end value, yields an empty projection: the goal is silently inert,
// not an error.
func ProjectGoal(s schema.PointSequence, goal schema.GoalConfig) schema.GoalProjection {
	if !goal.Enabled {
		return schema.GoalProjection{StartTier: schema.TierNone}
	}
	switch goal.Type {
	case schema.GoalContinuous:
		return projectContinuous(s, goal)
	case schema.GoalEndOfPeriod:
		return projectEndOfPeriod(s, goal)
	}
	return schema.GoalProjection{StartTier: schema.TierNone}
}

// projectContinuous emits a flat two-point line at the target value
// spanning the supplied date range, or the series extent when no range is
// given. Intentionally not resampled per observation.
func projectContinuous(s schema.PointSequence, goal schema.GoalConfig) schema.GoalProjection {
	if goal.TargetValue == nil {
		return schema.GoalProjection{StartTier: schema.TierNone}
	}

	var start, end time.Time
	switch {
	case goal.StartDate != nil && goal.EndDate != nil:
		start, end = *goal.StartDate, *goal.EndDate
	default:
		first, ok := s.First()
		if !ok {
			return schema.GoalProjection{StartTier: schema.TierNone}
		}
		last, _ := s.Last()
		start, end = first.Timestamp, last.Timestamp
		if goal.StartDate != nil {
			start = *goal.StartDate
		}
		if goal.EndDate != nil {
			end = *goal.EndDate
		}
	}

	return schema.GoalProjection{
		Points: []schema.ValuePoint{
			{Timestamp: start, Value: *goal.TargetValue},
			{Timestamp: end, Value: *goal.TargetValue},
		},
		StartTier: schema.TierNone,
	}
}

// projectEndOfPeriod ramps from a resolved start value to the goal's end
// value, one point per day inclusive. A zero or negative day span
// degenerates to a single point at the start value.
func projectEndOfPeriod(s schema.PointSequence, goal schema.GoalConfig) schema.GoalProjection {
	if goal.EndDate == nil || goal.EndValue == nil {
		return schema.GoalProjection{StartTier: schema.TierNone}
	}

	start := resolveGoalStartDate(s, goal)
	if start.IsZero() {
		return schema.GoalProjection{StartTier: schema.TierNone}
	}
	startValue, tier, ok := resolveGoalStartValue(s, start)
	if !ok {
		return schema.GoalProjection{StartTier: schema.TierNone}
	}

	end := *goal.EndDate
	days := int(startOfDay(end).Sub(startOfDay(start)).Hours() / 24)
	if days <= 0 {
		return schema.GoalProjection{
			Points:    []schema.ValuePoint{{Timestamp: start, Value: startValue}},
			StartTier: tier,
		}
	}

	step := (*goal.EndValue - startValue) / float64(days)
	points := make([]schema.ValuePoint, 0, days+1)
	for d := 0; d <= days; d++ {
		points = append(points, schema.ValuePoint{
			Timestamp: start.AddDate(0, 0, d),
			Value:     startValue + step*float64(d),
		})
	}
	return schema.GoalProjection{Points: points, StartTier: tier}
}

// resolveGoalStartDate returns the goal's explicit start date, or the
// first day of the quarter containing the series' maximum date.
func resolveGoalStartDate(s schema.PointSequence, goal schema.GoalConfig) time.Time {
	if goal.StartDate != nil {
		return *goal.StartDate
	}
	last, ok := s.Last()
	if !ok {
		return time.Time{}
	}
	return quarterStart(last.Timestamp)
}

// resolveGoalStartValue resolves the ramp's starting value through three
// fallback tiers, in order: the series point matching startDate within
// tolerance, the most recent series value at or before startDate, and
// finally the first available series value. The fired tier is reported so
// silent fallback is visible to callers and tests.
func resolveGoalStartValue(s schema.PointSequence, startDate time.Time) (float64, schema.GoalStartTier, bool) {
	// Tier 1: exact match within the tolerance window.
	if p, ok := nearestWithin(s, startDate, matchTolerance); ok {
		if v, ok := p.Value(); ok {
			return v, schema.TierExactMatch, true
		}
	}

	// Tier 2: most recent value at or before the start date.
	var recent *float64
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Timestamp.After(startDate) {
			continue
		}
		if v, ok := s[i].Value(); ok {
			recent = &v
			break
		}
	}
	if recent != nil {
		return *recent, schema.TierRecentBefore, true
	}

	// Tier 3: first available value.
	for _, p := range s {
		if v, ok := p.Value(); ok {
			return v, schema.TierFirstValue, true
		}
	}
	return 0, schema.TierNone, false
}
