package schema

// ValueRange is a closed min/max interval of display values.
type ValueRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ComparisonDelta holds the evaluated deltas for one comparison id.
// Percent is nil when the baseline is zero or absent.
type ComparisonDelta struct {
	AbsoluteDifference float64  `json:"absolute_difference"`
	PercentDifference  *float64 `json:"percent_difference,omitempty"`
}

// MetricRowValues is the derived, ephemeral result for one series at one
// selection date and focus window. Every field is optional: a nil pointer
// means the value is absent (no matching point within tolerance, source
// not configured, insufficient data), never zero. The struct is recomputed
// on every selection change and never persisted by the engine.
type MetricRowValues struct {
	SelectionValue *float64    `json:"selection_value,omitempty"`
	SelectionRange *ValueRange `json:"selection_range,omitempty"`

	FocusMean  *float64    `json:"focus_mean,omitempty"`
	FocusRange *ValueRange `json:"focus_range,omitempty"`

	ShadowValue *float64 `json:"shadow_value,omitempty"`
	ShadowLabel string   `json:"shadow_label,omitempty"`

	GoalValue *float64 `json:"goal_value,omitempty"`
	GoalLabel string   `json:"goal_label,omitempty"`

	ForecastValue *float64 `json:"forecast_value,omitempty"`

	// Comparisons is keyed by ComparisonConfig.ID for later lookup, e.g.
	// cross-metric color scaling. A missing key means the comparison could
	// not be evaluated.
	Comparisons map[string]ComparisonDelta `json:"comparisons,omitempty"`
}
