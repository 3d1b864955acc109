package core

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/trendboard/trendboard/schema"
)

// ErrInsufficientTrainingData signals an out-of-sample forecast whose
// start date leaves fewer than two usable training points. It indicates a
// caller configuration error (start date too close to the series start),
// so it is reported explicitly instead of degrading silently.
var ErrInsufficientTrainingData = errors.New("insufficient training data: need at least 2 points before the forecast start date")

// Damping factor bounds. Volatile trends get more damping (smaller phi) so
// the trend's influence decays geometrically over the horizon instead of
// extrapolating linearly forever.
const (
	minPhi = 0.50
	maxPhi = 0.95
)

// zScores maps supported confidence levels to their z values. Unrecognized
// levels fall back to 95%.
var zScores = map[int]float64{
	90: 1.645,
	95: 1.960,
	99: 2.576,
}

// Forecast runs the configured forecast against a series. It returns
// (nil, nil) when no forecast is available: the config is disabled, the
// series is too short, or the computation produced a non-finite value
// anywhere, in which case the whole result is discarded rather than
// partially returned. ErrInsufficientTrainingData is the only named
// failure, raised by out-of-sample runs with under two training points.
func Forecast(s schema.PointSequence, cfg schema.ForecastConfig) (*schema.ForecastResult, error) {
	if !cfg.Enabled || cfg.Horizon <= 0 || len(s) == 0 {
		return nil, nil
	}

	if cfg.Type == schema.ForecastManual {
		return validated(manualForecast(s, cfg)), nil
	}

	training, outOfSample := trainingSlice(s, cfg.StartDate)
	times, values := finiteObservations(training)
	if outOfSample && len(values) < 2 {
		return nil, ErrInsufficientTrainingData
	}
	if len(values) < 2 {
		return nil, nil
	}

	step := inferStep(times)
	origin := times[len(times)-1]

	result := autoForecast(values, cfg)
	if result == nil {
		return nil, nil
	}

	// Stamp forecast points one step apart past the training origin.
	for i := range result.Points {
		result.Points[i].Timestamp = origin.Add(time.Duration(i+1) * step)
	}

	if cfg.ShowConfidenceIntervals {
		result.Intervals = confidenceBand(values, result.Points, cfg.ConfidenceLevel)
	}
	return validated(result), nil
}

// autoForecast resolves the smoothing method from data length and
// seasonality, then produces horizon values. Timestamps are filled in by
// the caller.
func autoForecast(values []float64, cfg schema.ForecastConfig) *schema.ForecastResult {
	n := len(values)
	seasonLength := resolveSeasonLength(n, cfg)

	switch {
	case seasonLength > 1 && n >= 2*seasonLength:
		return tripleForecast(values, seasonLength, cfg)
	case n >= 4:
		return doubleForecast(values, cfg)
	default:
		return simpleForecast(values, cfg)
	}
}

// resolveSeasonLength returns the supplied season length, or auto-detects
// one from the series length with fixed heuristics. Zero means no
// seasonality resolved.
func resolveSeasonLength(n int, cfg schema.ForecastConfig) int {
	if cfg.Seasonal == schema.SeasonalNone {
		return 0
	}
	if cfg.SeasonLength > 1 {
		return cfg.SeasonLength
	}
	switch {
	case n >= 365:
		return 365
	case n >= 52:
		return 52
	case n >= 30:
		return 30
	case n >= 12:
		return 12
	case n >= 7:
		return 7
	}
	return 0
}

// simpleForecast is flat-level exponential smoothing for very short series.
func simpleForecast(values []float64, cfg schema.ForecastConfig) *schema.ForecastResult {
	alpha := estimateAlpha(values, cfg.Alpha)
	level := values[0]
	for _, v := range values[1:] {
		level = alpha*v + (1-alpha)*level
	}

	points := make([]schema.ValuePoint, cfg.Horizon)
	for i := range points {
		points[i].Value = level
	}
	return &schema.ForecastResult{
		Points: points,
		Method: schema.MethodSimple,
		Parameters: schema.ForecastParameters{
			Alpha:    alpha,
			Seasonal: schema.SeasonalNone,
		},
	}
}

// doubleForecast is Holt's linear trend method with damping.
func doubleForecast(values []float64, cfg schema.ForecastConfig) *schema.ForecastResult {
	alpha, beta := estimateAlphaBeta(values, cfg.Alpha, cfg.Beta)
	level, trend, _ := fitDouble(values, alpha, beta)
	phi := dampingFactor(values)

	points := make([]schema.ValuePoint, cfg.Horizon)
	for i := range points {
		points[i].Value = level + trend*dampedSum(phi, i+1)
	}
	return &schema.ForecastResult{
		Points: points,
		Method: schema.MethodDouble,
		Parameters: schema.ForecastParameters{
			Alpha:    alpha,
			Beta:     beta,
			Phi:      phi,
			Seasonal: schema.SeasonalNone,
		},
	}
}

// tripleForecast is Holt-Winters with additive or multiplicative seasonal
// composition and a damped trend.
func tripleForecast(values []float64, seasonLength int, cfg schema.ForecastConfig) *schema.ForecastResult {
	multiplicative := cfg.Seasonal == schema.SeasonalMultiplicative
	alpha, beta, gamma := estimateHoltWinters(values, seasonLength, multiplicative, cfg.Alpha, cfg.Beta, cfg.Gamma)
	level, trend, seasonal, _ := fitTriple(values, seasonLength, multiplicative, alpha, beta, gamma)
	phi := dampingFactor(values)

	n := len(values)
	points := make([]schema.ValuePoint, cfg.Horizon)
	for i := range points {
		h := i + 1
		idx := (n - 1 + h) % seasonLength
		base := level + trend*dampedSum(phi, h)
		if multiplicative {
			points[i].Value = base * seasonal[idx]
		} else {
			points[i].Value = base + seasonal[idx]
		}
	}
	return &schema.ForecastResult{
		Points: points,
		Method: schema.MethodTriple,
		Parameters: schema.ForecastParameters{
			Alpha:        alpha,
			Beta:         beta,
			Gamma:        gamma,
			Phi:          phi,
			SeasonLength: seasonLength,
			Seasonal:     cfg.Seasonal,
		},
	}
}

// fitSimple runs simple exponential smoothing and returns the final level
// and the one-step-ahead sum of squared errors.
func fitSimple(values []float64, alpha float64) (float64, float64) {
	level := values[0]
	var sse float64
	for _, v := range values[1:] {
		err := v - level
		sse += err * err
		level = alpha*v + (1-alpha)*level
	}
	return level, sse
}

// fitDouble runs Holt's linear trend smoothing and returns the final
// level, trend and one-step-ahead SSE.
func fitDouble(values []float64, alpha, beta float64) (float64, float64, float64) {
	level := values[0]
	trend := values[1] - values[0]
	var sse float64
	for t := 1; t < len(values); t++ {
		fitted := level + trend
		err := values[t] - fitted
		sse += err * err

		prev := level
		level = alpha*values[t] + (1-alpha)*(level+trend)
		trend = beta*(level-prev) + (1-beta)*trend
	}
	return level, trend, sse
}

// fitTriple runs Holt-Winters smoothing. Initialization uses the full
// seasons available: the level is the first season's mean, the trend is
// the per-period change between the first two season means, and seasonal
// components are averaged deviations (or ratios) across full seasons. The
// multiplicative branch substitutes 1 for a zero level or season value to
// guard against division by zero.
func fitTriple(values []float64, m int, multiplicative bool, alpha, beta, gamma float64) (float64, float64, []float64, float64) {
	n := len(values)
	seasons := n / m

	seasonMeans := make([]float64, seasons)
	for j := range seasons {
		seasonMeans[j] = meanOf(values[j*m : (j+1)*m])
	}

	level := seasonMeans[0]
	trend := (seasonMeans[1] - seasonMeans[0]) / float64(m)

	seasonal := make([]float64, m)
	for i := range m {
		var sum float64
		for j := range seasons {
			sm := seasonMeans[j]
			if multiplicative {
				if sm == 0 {
					sm = 1
				}
				sum += values[j*m+i] / sm
			} else {
				sum += values[j*m+i] - sm
			}
		}
		seasonal[i] = sum / float64(seasons)
	}

	var sse float64
	for t := m; t < n; t++ {
		idx := t % m
		var fitted float64
		if multiplicative {
			fitted = (level + trend) * seasonal[idx]
		} else {
			fitted = level + trend + seasonal[idx]
		}
		err := values[t] - fitted
		sse += err * err

		prev := level
		if multiplicative {
			season := seasonal[idx]
			if season == 0 {
				season = 1
			}
			level = alpha*(values[t]/season) + (1-alpha)*(level+trend)
		} else {
			level = alpha*(values[t]-seasonal[idx]) + (1-alpha)*(level+trend)
		}
		trend = beta*(level-prev) + (1-beta)*trend
		if multiplicative {
			lv := level
			if lv == 0 {
				lv = 1
			}
			seasonal[idx] = gamma*(values[t]/lv) + (1-gamma)*seasonal[idx]
		} else {
			seasonal[idx] = gamma*(values[t]-level) + (1-gamma)*seasonal[idx]
		}
	}
	return level, trend, seasonal, sse
}

// smoothingGrid is the coarse grid searched when parameters are not
// supplied. Coarse is deliberate: estimation runs inside interactive
// recomputation and a fine grid buys little extra fit.
var smoothingGrid = []float64{0.1, 0.3, 0.5, 0.7, 0.9}

// estimateAlpha returns the supplied alpha or the grid value minimizing
// one-step SSE.
func estimateAlpha(values []float64, supplied *float64) float64 {
	if supplied != nil {
		return *supplied
	}
	best, bestSSE := smoothingGrid[0], math.Inf(1)
	for _, a := range smoothingGrid {
		if _, sse := fitSimple(values, a); sse < bestSSE {
			best, bestSSE = a, sse
		}
	}
	return best
}

// estimateAlphaBeta returns the supplied parameters, estimating any that
// are missing by grid search over one-step SSE.
func estimateAlphaBeta(values []float64, suppliedAlpha, suppliedBeta *float64) (float64, float64) {
	if suppliedAlpha != nil && suppliedBeta != nil {
		return *suppliedAlpha, *suppliedBeta
	}
	alphas, betas := gridOr(suppliedAlpha), gridOr(suppliedBeta)
	bestA, bestB, bestSSE := alphas[0], betas[0], math.Inf(1)
	for _, a := range alphas {
		for _, b := range betas {
			if _, _, sse := fitDouble(values, a, b); sse < bestSSE {
				bestA, bestB, bestSSE = a, b, sse
			}
		}
	}
	return bestA, bestB
}

// estimateHoltWinters grid-searches any unsupplied smoothing parameters.
func estimateHoltWinters(values []float64, m int, multiplicative bool, sa, sb, sg *float64) (float64, float64, float64) {
	if sa != nil && sb != nil && sg != nil {
		return *sa, *sb, *sg
	}
	alphas, betas, gammas := gridOr(sa), gridOr(sb), gridOr(sg)
	bestA, bestB, bestG, bestSSE := alphas[0], betas[0], gammas[0], math.Inf(1)
	for _, a := range alphas {
		for _, b := range betas {
			for _, g := range gammas {
				if _, _, _, sse := fitTriple(values, m, multiplicative, a, b, g); sse < bestSSE {
					bestA, bestB, bestG, bestSSE = a, b, g, sse
				}
			}
		}
	}
	return bestA, bestB, bestG
}

// gridOr pins the grid to a single supplied value when present.
func gridOr(supplied *float64) []float64 {
	if supplied != nil {
		return []float64{*supplied}
	}
	return smoothingGrid
}

// dampingFactor derives phi from the coefficient of variation of
// period-over-period changes: a volatile trend earns more damping. A
// perfectly steady trend keeps phi at the maximum, so well-behaved series
// still project their trend several periods out.
func dampingFactor(values []float64) float64 {
	diffs := firstDifferences(values)
	if len(diffs) < 2 {
		return maxPhi
	}
	mean := meanOf(diffs)
	sd := sampleStdDev(diffs, mean)
	if mean == 0 {
		if sd == 0 {
			return maxPhi
		}
		return minPhi
	}
	cv := math.Abs(sd / mean)
	phi := maxPhi - (maxPhi-minPhi)*math.Min(cv, 1)
	return math.Max(minPhi, math.Min(maxPhi, phi))
}

// dampedSum is the geometric accumulation (1-phi^h)/(1-phi) applied to the
// trend term so long-horizon projections asymptote instead of diverging.
func dampedSum(phi float64, h int) float64 {
	if phi >= 1 {
		return float64(h)
	}
	return (1 - math.Pow(phi, float64(h))) / (1 - phi)
}

// confidenceBand builds a constant-width symmetric band around the
// forecast from the standard deviation of the historical first
// differences, scaled by a fixed z-score. The width deliberately does not
// grow with horizon; that simplification is part of the contract.
func confidenceBand(values []float64, points []schema.ValuePoint, level int) []schema.ConfidenceInterval {
	diffs := firstDifferences(values)
	if len(diffs) == 0 {
		return nil
	}
	sd := sampleStdDev(diffs, meanOf(diffs))

	z, ok := zScores[level]
	if !ok {
		z = zScores[95]
	}
	width := z * sd

	intervals := make([]schema.ConfidenceInterval, len(points))
	for i, p := range points {
		intervals[i] = schema.ConfidenceInterval{
			Timestamp: p.Timestamp,
			Lower:     p.Value - width,
			Upper:     p.Value + width,
		}
	}
	return intervals
}

// firstDifferences returns the consecutive deltas of values.
func firstDifferences(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	diffs := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		diffs[i-1] = values[i] - values[i-1]
	}
	return diffs
}

// trainingSlice restricts fitting input to points strictly before the
// start date when it enables out-of-sample evaluation (i.e. it precedes
// the last observed point). The second return reports whether the
// restriction applied.
func trainingSlice(s schema.PointSequence, startDate *time.Time) (schema.PointSequence, bool) {
	if startDate == nil {
		return s, false
	}
	last, ok := s.Last()
	if !ok || !startDate.Before(last.Timestamp) {
		return s, false
	}
	cut := sort.Search(len(s), func(i int) bool {
		return !s[i].Timestamp.Before(*startDate)
	})
	return s[:cut], true
}

// finiteObservations extracts parallel timestamp/value slices, skipping
// points whose value is absent.
func finiteObservations(s schema.PointSequence) ([]time.Time, []float64) {
	times := make([]time.Time, 0, len(s))
	values := make([]float64, 0, len(s))
	for _, p := range s {
		if v, ok := p.Value(); ok {
			times = append(times, p.Timestamp)
			values = append(values, v)
		}
	}
	return times, values
}

// inferStep estimates the series' sampling interval as the median of
// consecutive timestamp gaps, defaulting to one day.
func inferStep(times []time.Time) time.Duration {
	if len(times) < 2 {
		return 24 * time.Hour
	}
	gaps := make([]time.Duration, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		gaps = append(gaps, times[i].Sub(times[i-1]))
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
	step := gaps[len(gaps)/2]
	if step <= 0 {
		return 24 * time.Hour
	}
	return step
}

// validated rejects a forecast wholesale if any output value is
// non-finite: callers must never render a partially-NaN line.
func validated(result *schema.ForecastResult) *schema.ForecastResult {
	if result == nil {
		return nil
	}
	for _, p := range result.Points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return nil
		}
	}
	for _, ci := range result.Intervals {
		if math.IsNaN(ci.Lower) || math.IsInf(ci.Lower, 0) ||
			math.IsNaN(ci.Upper) || math.IsInf(ci.Upper, 0) {
			return nil
		}
	}
	return result
}
