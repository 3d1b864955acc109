package schema

import "time"

// ForecastParameters records the smoothing parameters a forecast run used,
// whether supplied or estimated.
type ForecastParameters struct {
	Alpha        float64      `json:"alpha"`
	Beta         float64      `json:"beta,omitempty"`
	Gamma        float64      `json:"gamma,omitempty"`
	Phi          float64      `json:"phi,omitempty"` // trend damping factor
	SeasonLength int          `json:"season_length,omitempty"`
	Seasonal     SeasonalMode `json:"seasonal"`
}

// ConfidenceInterval is a symmetric band around one forecast point.
type ConfidenceInterval struct {
	Timestamp time.Time `json:"timestamp"`
	Lower     float64   `json:"lower"`
	Upper     float64   `json:"upper"`
}

// ForecastResult is the complete output of one forecast run.
type ForecastResult struct {
	Points     []ValuePoint         `json:"points"`
	Intervals  []ConfidenceInterval `json:"intervals,omitempty"`
	Method     ForecastMethod       `json:"method"`
	Parameters ForecastParameters   `json:"parameters"`
}

// GoalProjection is a projected goal line plus the fallback tier that
// resolved its start value, so silent fallback is visible in review.
type GoalProjection struct {
	Points    []ValuePoint  `json:"points"`
	StartTier GoalStartTier `json:"start_tier"`
}
