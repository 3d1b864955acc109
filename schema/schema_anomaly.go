package schema

import "time"

// ExpectedRange is the band a value was expected to fall inside.
type ExpectedRange struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// AnomalyPoint is one observation that fell outside its expected range.
// Deviation is the distance from the band midpoint measured in half-widths.
type AnomalyPoint struct {
	Timestamp     time.Time     `json:"timestamp"`
	Value         float64       `json:"value"`
	Severity      Severity      `json:"severity"`
	ExpectedRange ExpectedRange `json:"expected_range"`
	Deviation     float64       `json:"deviation"`
}

// ConfidenceBand is the expected range at one timestamp, for rendering.
type ConfidenceBand struct {
	Timestamp time.Time `json:"timestamp"`
	Lower     float64   `json:"lower"`
	Upper     float64   `json:"upper"`
}

// AnomalyResult holds the detected anomalies and summary counts.
type AnomalyResult struct {
	Anomalies    []AnomalyPoint   `json:"anomalies"`
	TotalPoints  int              `json:"total_points"`
	AnomalyCount int              `json:"anomaly_count"`
	AnomalyRate  float64          `json:"anomaly_rate"`
	Bands        []ConfidenceBand `json:"bands,omitempty"`
	Sensitivity  Sensitivity      `json:"sensitivity"`
}
