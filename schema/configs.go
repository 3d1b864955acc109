package schema

import (
	"fmt"
	"time"
)

// AggregationConfig selects exactly one display transform for a series:
// rolling-average smoothing over a trailing calendar window, or calendar
// group-by bucketing. Build it with NewSmoothingConfig or NewGroupByConfig
// so an invalid unit can never reach compute time.
type AggregationConfig struct {
	Enabled bool            `json:"enabled"`
	Mode    AggregationMode `json:"mode"`
	Period  int             `json:"period"`
	Unit    PeriodUnit      `json:"unit"`
	GroupBy GroupPeriod     `json:"group_by_period,omitempty"`
}

// NewSmoothingConfig returns a validated rolling-average configuration.
func NewSmoothingConfig(period int, unit PeriodUnit) (AggregationConfig, error) {
	if !ValidPeriodUnit(unit) {
		return AggregationConfig{}, fmt.Errorf("invalid smoothing unit %q. must be day, week, month, quarter, year", unit)
	}
	return AggregationConfig{
		Enabled: true,
		Mode:    AggSmoothing,
		Period:  period,
		Unit:    unit,
	}, nil
}

// NewGroupByConfig returns a validated group-by configuration.
func NewGroupByConfig(groupBy GroupPeriod) (AggregationConfig, error) {
	if !ValidGroupPeriod(groupBy) {
		return AggregationConfig{}, fmt.Errorf("invalid group-by period %q. must be week, month, quarter, year", groupBy)
	}
	return AggregationConfig{
		Enabled: true,
		Mode:    AggGroupBy,
		GroupBy: groupBy,
	}, nil
}

// ShadowConfig is a policy for shifting a reference timestamp backward, not
// stored data. It is re-evaluated against the live series on every use.
type ShadowConfig struct {
	ID             string     `json:"id"`
	Enabled        bool       `json:"enabled"`
	Periods        int        `json:"periods"`
	Unit           PeriodUnit `json:"unit"`
	Label          string     `json:"label"`
	AlignDayOfWeek bool       `json:"align_day_of_week,omitempty"`
}

// NewShadowConfig returns a validated shadow configuration.
func NewShadowConfig(id string, periods int, unit PeriodUnit, label string) (ShadowConfig, error) {
	if !ValidPeriodUnit(unit) {
		return ShadowConfig{}, fmt.Errorf("invalid shadow unit %q. must be day, week, month, quarter, year", unit)
	}
	if periods <= 0 {
		return ShadowConfig{}, fmt.Errorf("shadow periods must be greater than 0 (received %d)", periods)
	}
	return ShadowConfig{
		ID:      id,
		Enabled: true,
		Periods: periods,
		Unit:    unit,
		Label:   label,
	}, nil
}

// GoalConfig describes a target line. Continuous goals are a flat target
// across the visible range; end-of-period goals ramp from a start value to
// EndValue by EndDate. Optional fields are pointers: nil means not set.
type GoalConfig struct {
	ID            string            `json:"id"`
	Enabled       bool              `json:"enabled"`
	Type          GoalType          `json:"type"`
	TargetValue   *float64          `json:"target_value,omitempty"`
	StartDate     *time.Time        `json:"start_date,omitempty"`
	EndDate       *time.Time        `json:"end_date,omitempty"`
	EndValue      *float64          `json:"end_value,omitempty"`
	Interpolation InterpolationMode `json:"interpolation"`
}

// ForecastConfig drives the forecaster. For auto forecasts the smoothing
// parameters are estimated when left nil. StartDate before the last
// observed point enables out-of-sample evaluation: only points strictly
// before StartDate are used for fitting.
type ForecastConfig struct {
	Enabled                 bool              `json:"enabled"`
	Type                    ForecastType      `json:"type"`
	Horizon                 int               `json:"horizon"`
	Seasonal                SeasonalMode      `json:"seasonal"`
	SeasonLength            int               `json:"season_length,omitempty"`
	Alpha                   *float64          `json:"alpha,omitempty"`
	Beta                    *float64          `json:"beta,omitempty"`
	Gamma                   *float64          `json:"gamma,omitempty"`
	ConfidenceLevel         int               `json:"confidence_level"`
	ShowConfidenceIntervals bool              `json:"show_confidence_intervals"`
	TargetValue             *float64          `json:"target_value,omitempty"`
	Interpolation           InterpolationMode `json:"interpolation,omitempty"`
	StartDate               *time.Time        `json:"start_date,omitempty"`
}

// NewForecastConfig returns a validated auto-forecast configuration.
func NewForecastConfig(horizon int, seasonal SeasonalMode, confidenceLevel int) (ForecastConfig, error) {
	if horizon <= 0 {
		return ForecastConfig{}, fmt.Errorf("forecast horizon must be greater than 0 (received %d)", horizon)
	}
	switch seasonal {
	case SeasonalNone, SeasonalAdditive, SeasonalMultiplicative:
	default:
		return ForecastConfig{}, fmt.Errorf("invalid seasonal mode %q. must be none, additive, multiplicative", seasonal)
	}
	return ForecastConfig{
		Enabled:                 true,
		Type:                    ForecastAuto,
		Horizon:                 horizon,
		Seasonal:                seasonal,
		ConfidenceLevel:         confidenceLevel,
		ShowConfidenceIntervals: true,
	}, nil
}

// NewManualForecastConfig returns a validated manual-forecast configuration
// that interpolates from the last observed value to targetValue.
func NewManualForecastConfig(horizon int, targetValue float64, interpolation InterpolationMode) (ForecastConfig, error) {
	if horizon <= 0 {
		return ForecastConfig{}, fmt.Errorf("forecast horizon must be greater than 0 (received %d)", horizon)
	}
	switch interpolation {
	case InterpLinear, InterpExponential:
	default:
		return ForecastConfig{}, fmt.Errorf("invalid interpolation %q. must be linear, exponential", interpolation)
	}
	return ForecastConfig{
		Enabled:       true,
		Type:          ForecastManual,
		Horizon:       horizon,
		Seasonal:      SeasonalNone,
		TargetValue:   &targetValue,
		Interpolation: interpolation,
	}, nil
}

// ComparisonConfig names one comparison a metric row evaluates: a source
// line (shadow by index, goal, or forecast) and a period scope.
type ComparisonConfig struct {
	ID          string           `json:"id"`
	Source      ComparisonSource `json:"source"`
	ShadowIndex int              `json:"shadow_index,omitempty"`
	Scope       ComparisonScope  `json:"scope"`
}

// NewComparisonConfig returns a validated comparison definition.
func NewComparisonConfig(id string, source ComparisonSource, shadowIndex int, scope ComparisonScope) (ComparisonConfig, error) {
	switch source {
	case CompareShadow, CompareGoal, CompareForecast:
	default:
		return ComparisonConfig{}, fmt.Errorf("invalid comparison source %q. must be shadow, goal, forecast", source)
	}
	switch scope {
	case ScopeSelection, ScopeFocus:
	default:
		return ComparisonConfig{}, fmt.Errorf("invalid comparison scope %q. must be selection, focus", scope)
	}
	if source == CompareShadow && shadowIndex < 0 {
		return ComparisonConfig{}, fmt.Errorf("shadow index must not be negative (received %d)", shadowIndex)
	}
	return ComparisonConfig{ID: id, Source: source, ShadowIndex: shadowIndex, Scope: scope}, nil
}
