package schema

// Custom string types for type safety.
type (
	// PeriodUnit represents a calendar unit used for shifting and windowing.
	PeriodUnit string

	// AggregationMode represents how a series is aggregated for display.
	AggregationMode string

	// GroupPeriod represents the calendar bucket used by group-by aggregation.
	GroupPeriod string

	// GoalType represents the shape of a goal line.
	GoalType string

	// ForecastType represents how a forecast is produced.
	ForecastType string

	// SeasonalMode represents the seasonal composition of a forecast.
	SeasonalMode string

	// ForecastMethod labels which smoothing method a forecast run resolved to.
	ForecastMethod string

	// InterpolationMode represents how values are interpolated between anchors.
	InterpolationMode string

	// ComparisonSource names the baseline a comparison is evaluated against.
	ComparisonSource string

	// ComparisonScope names the period a comparison is evaluated over.
	ComparisonScope string

	// GoalStartTier records which fallback tier resolved a goal's start value.
	GoalStartTier string

	// Sensitivity represents anomaly-detection sensitivity.
	Sensitivity string

	// Severity represents anomaly severity.
	Severity string

	// OutputMode represents the format of the output.
	OutputMode string

	// CacheBackend represents the database backend for caching.
	CacheBackend string
)

// Calendar units supported by shifting and windowing.
const (
	UnitDay     PeriodUnit = "day"
	UnitWeek    PeriodUnit = "week"
	UnitMonth   PeriodUnit = "month"
	UnitQuarter PeriodUnit = "quarter"
	UnitYear    PeriodUnit = "year"
)

// Aggregation modes.
const (
	AggSmoothing AggregationMode = "smoothing"
	AggGroupBy   AggregationMode = "groupBy"
)

// Group-by bucket periods. Weeks start on Sunday.
const (
	GroupWeek    GroupPeriod = "week"
	GroupMonth   GroupPeriod = "month"
	GroupQuarter GroupPeriod = "quarter"
	GroupYear    GroupPeriod = "year"
)

// Goal types.
const (
	GoalContinuous  GoalType = "continuous"
	GoalEndOfPeriod GoalType = "end-of-period"
)

// Forecast types.
const (
	ForecastAuto   ForecastType = "auto"
	ForecastManual ForecastType = "manual"
)

// Seasonal modes.
const (
	SeasonalNone           SeasonalMode = "none"
	SeasonalAdditive       SeasonalMode = "additive"
	SeasonalMultiplicative SeasonalMode = "multiplicative"
)

// Forecast methods a run can resolve to.
const (
	MethodSimple ForecastMethod = "simple"
	MethodDouble ForecastMethod = "double"
	MethodTriple ForecastMethod = "triple"
	MethodManual ForecastMethod = "manual"
	MethodRemote ForecastMethod = "remote"
)

// Interpolation modes.
const (
	InterpLinear      InterpolationMode = "linear"
	InterpExponential InterpolationMode = "exponential"
)

// Comparison sources.
const (
	CompareShadow   ComparisonSource = "shadow"
	CompareGoal     ComparisonSource = "goal"
	CompareForecast ComparisonSource = "forecast"
)

// Comparison scopes.
const (
	ScopeSelection ComparisonScope = "selection"
	ScopeFocus     ComparisonScope = "focus"
)

// Goal start-value fallback tiers, in precedence order.
const (
	TierExactMatch   GoalStartTier = "exact"
	TierRecentBefore GoalStartTier = "recent-before"
	TierFirstValue   GoalStartTier = "first-value"
	TierNone         GoalStartTier = "none"
)

// Anomaly sensitivities and the severities they produce.
const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"

	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All cache backends supported.
const (
	SQLiteBackend     CacheBackend = "sqlite"
	MySQLBackend      CacheBackend = "mysql"
	PostgreSQLBackend CacheBackend = "postgresql"
	NoneBackend       CacheBackend = "none"
)

// ValidPeriodUnit reports whether u is a supported calendar unit.
func ValidPeriodUnit(u PeriodUnit) bool {
	switch u {
	case UnitDay, UnitWeek, UnitMonth, UnitQuarter, UnitYear:
		return true
	}
	return false
}

// ValidGroupPeriod reports whether g is a supported group-by bucket.
func ValidGroupPeriod(g GroupPeriod) bool {
	switch g {
	case GroupWeek, GroupMonth, GroupQuarter, GroupYear:
		return true
	}
	return false
}

// ValidCacheBackend reports whether b is a supported storage backend.
func ValidCacheBackend(b CacheBackend) bool {
	switch b {
	case SQLiteBackend, MySQLBackend, PostgreSQLBackend, NoneBackend:
		return true
	}
	return false
}
