package core

import (
	"math"
	"time"

	"github.com/trendboard/trendboard/schema"
)

// manualForecast interpolates from the last observed value to a
// user-chosen target over the horizon, with no confidence intervals:
// a manual target is an assertion, not a model. Returns nil when the
// target is missing or the series has no usable last value.
func manualForecast(s schema.PointSequence, cfg schema.ForecastConfig) *schema.ForecastResult {
	if cfg.TargetValue == nil {
		return nil
	}
	start, origin, ok := lastObservedValue(s)
	if !ok {
		return nil
	}

	step := inferStep(timestampsOf(s))
	target := *cfg.TargetValue

	points := make([]schema.ValuePoint, cfg.Horizon)
	if cfg.Interpolation == schema.InterpExponential && start > 0 && target > 0 {
		// Constant growth rate hitting the target exactly at the horizon.
		rate := math.Pow(target/start, 1/float64(cfg.Horizon))
		for i := range points {
			points[i] = schema.ValuePoint{
				Timestamp: origin.Add(time.Duration(i+1) * step),
				Value:     start * math.Pow(rate, float64(i+1)),
			}
		}
	} else {
		// Linear, also the fallback when exponential interpolation is
		// undefined (non-positive start or target).
		delta := (target - start) / float64(cfg.Horizon)
		for i := range points {
			points[i] = schema.ValuePoint{
				Timestamp: origin.Add(time.Duration(i+1) * step),
				Value:     start + delta*float64(i+1),
			}
		}
	}

	return &schema.ForecastResult{
		Points: points,
		Method: schema.MethodManual,
		Parameters: schema.ForecastParameters{
			Seasonal: schema.SeasonalNone,
		},
	}
}

// lastObservedValue returns the value and timestamp of the latest point
// with a representable value.
func lastObservedValue(s schema.PointSequence) (float64, time.Time, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if v, ok := s[i].Value(); ok {
			return v, s[i].Timestamp, true
		}
	}
	return 0, time.Time{}, false
}

func timestampsOf(s schema.PointSequence) []time.Time {
	out := make([]time.Time, len(s))
	for i, p := range s {
		out[i] = p.Timestamp
	}
	return out
}
