package contract

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/trendboard/trendboard/schema"
)

// Default values for configuration.
const (
	DefaultHorizon         = 30
	DefaultConfidenceLevel = 95
	MaxHorizon             = 365
	DefaultPrecision       = 1
	DefaultRemoteTimeout   = 10 * time.Second
)

// DateFormat is the default date representation for flags and series files.
var DateFormat = time.DateOnly

// Config holds the runtime configuration for one engine invocation.
// This struct remains the "final, validated" config; raw flag strings are
// parsed into it by ProcessAndValidate.
type Config struct {
	SeriesPath string
	SeriesName string

	Selection  *time.Time
	FocusStart *time.Time
	FocusEnd   *time.Time

	Aggregation schema.AggregationConfig
	Shadows     []schema.ShadowConfig
	Goal        schema.GoalConfig
	Forecast    schema.ForecastConfig
	Comparisons []schema.ComparisonConfig

	Sensitivity  schema.Sensitivity
	SeasonLength int
	ShowBands    bool

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.CacheBackend
	CacheDBConnect string // Please use env var as this is plaintext
	RunBackend     schema.CacheBackend
	RunDBConnect   string // Please use env var as this is plaintext

	RemoteURL     string
	RemoteModel   string
	RemoteTimeout time.Duration

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// Clone returns a deep enough copy for per-request overrides: the slices
// are copied so a caller can append without touching the base config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Shadows = append([]schema.ShadowConfig(nil), c.Shadows...)
	clone.Comparisons = append([]schema.ComparisonConfig(nil), c.Comparisons...)
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	SeriesPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	SeriesName     string `mapstructure:"name"`
	SelectionStr   string `mapstructure:"selection"`
	FocusStartStr  string `mapstructure:"focus-start"`
	FocusEndStr    string `mapstructure:"focus-end"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	RunBackend     string `mapstructure:"run-backend"`
	RunDBConnect   string `mapstructure:"run-db-connect"`
	RemoteURL      string `mapstructure:"remote-url"`
	RemoteModel    string `mapstructure:"remote-model"`
	RemoteTimeout  string `mapstructure:"remote-timeout"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`

	// --- Aggregation flags (smoothing and group-by are mutually exclusive) ---
	SmoothingStr string `mapstructure:"smoothing"` // "<period>:<unit>", e.g. "7:day"
	GroupByStr   string `mapstructure:"group-by"`  // week|month|quarter|year

	ShadowStr string `mapstructure:"shadows"` // comma list of "<periods>:<unit>[:align]"

	// --- Fields from goalCmd.Flags() ---
	GoalTypeStr     string `mapstructure:"goal-type"`
	GoalTargetStr   string `mapstructure:"goal-target"`
	GoalStartStr    string `mapstructure:"goal-start"`
	GoalEndStr      string `mapstructure:"goal-end"`
	GoalEndValueStr string `mapstructure:"goal-end-value"`

	// --- Fields from forecastCmd.Flags() ---
	ForecastHorizon  int    `mapstructure:"horizon"`
	SeasonalStr      string `mapstructure:"seasonal"`
	SeasonLength     int    `mapstructure:"season-length"`
	ConfidenceLevel  int    `mapstructure:"confidence-level"`
	AlphaStr         string `mapstructure:"alpha"`
	BetaStr          string `mapstructure:"beta"`
	GammaStr         string `mapstructure:"gamma"`
	TargetStr        string `mapstructure:"target"`
	InterpolationStr string `mapstructure:"interpolation"`
	ForecastStartStr string `mapstructure:"forecast-start"`
	ShowIntervalsStr string `mapstructure:"intervals"`
	ForecastEnabled  bool   `mapstructure:"forecast"`

	// --- Fields from anomalyCmd.Flags() ---
	SensitivityStr string `mapstructure:"sensitivity"`
	ShowBandsStr   string `mapstructure:"bands"`

	ComparisonStr string `mapstructure:"compare"` // comma list of "<id>=<source>[<index>]:<scope>"
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 0 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	output := schema.OutputMode(strings.ToLower(input.Output))
	switch output {
	case schema.TextOut, schema.CSVOut, schema.JSONOut:
	default:
		return fmt.Errorf("invalid output format %q. must be text, csv, json", input.Output)
	}
	cfg.Output = output
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	// Parse emoji flag
	if input.Emoji != "" {
		emojis, err := ParseBoolString(input.Emoji)
		if err != nil {
			return fmt.Errorf("invalid --emoji value: %w", err)
		}
		cfg.UseEmojis = emojis
	}

	// Parse color flag
	if input.Color != "" {
		colors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		cfg.UseColors = colors
	}

	// --- 2. Series path and date anchors ---
	cfg.SeriesPath = input.SeriesPathStr
	cfg.SeriesName = input.SeriesName

	var err error
	if cfg.Selection, err = parseOptionalDate(input.SelectionStr, "selection"); err != nil {
		return err
	}
	if cfg.FocusStart, err = parseOptionalDate(input.FocusStartStr, "focus start"); err != nil {
		return err
	}
	if cfg.FocusEnd, err = parseOptionalDate(input.FocusEndStr, "focus end"); err != nil {
		return err
	}
	if cfg.FocusStart != nil && cfg.FocusEnd != nil && cfg.FocusStart.After(*cfg.FocusEnd) {
		return fmt.Errorf("focus start (%s) cannot be after focus end (%s)",
			cfg.FocusStart.Format(DateFormat), cfg.FocusEnd.Format(DateFormat))
	}

	// --- 3. Aggregation: smoothing and group-by are mutually exclusive ---
	if input.SmoothingStr != "" && input.GroupByStr != "" {
		return fmt.Errorf("smoothing and group-by cannot both be set")
	}
	switch {
	case input.SmoothingStr != "":
		period, unit, err := ParsePeriodSpec(input.SmoothingStr)
		if err != nil {
			return fmt.Errorf("invalid smoothing spec: %w", err)
		}
		if cfg.Aggregation, err = schema.NewSmoothingConfig(period, unit); err != nil {
			return err
		}
	case input.GroupByStr != "":
		agg, err := schema.NewGroupByConfig(schema.GroupPeriod(strings.ToLower(input.GroupByStr)))
		if err != nil {
			return err
		}
		cfg.Aggregation = agg
	}

	// --- 4. Shadows ---
	if input.ShadowStr != "" {
		shadows, err := ParseShadowSpecs(input.ShadowStr)
		if err != nil {
			return err
		}
		cfg.Shadows = shadows
	}

	// --- 5. Goal ---
	if err := processGoal(cfg, input); err != nil {
		return err
	}

	// --- 6. Forecast ---
	if err := processForecast(cfg, input); err != nil {
		return err
	}

	// --- 7. Anomaly detection ---
	sensitivity := schema.Sensitivity(strings.ToLower(input.SensitivityStr))
	if input.SensitivityStr == "" {
		sensitivity = schema.SensitivityMedium
	}
	switch sensitivity {
	case schema.SensitivityLow, schema.SensitivityMedium, schema.SensitivityHigh:
	default:
		return fmt.Errorf("invalid sensitivity %q. must be low, medium, high", input.SensitivityStr)
	}
	cfg.Sensitivity = sensitivity
	cfg.SeasonLength = input.SeasonLength
	if input.ShowBandsStr != "" {
		if cfg.ShowBands, err = ParseBoolString(input.ShowBandsStr); err != nil {
			return err
		}
	}

	// --- 8. Comparisons ---
	if input.ComparisonStr != "" {
		comparisons, err := ParseComparisonSpecs(input.ComparisonStr)
		if err != nil {
			return err
		}
		cfg.Comparisons = comparisons
	}

	// --- 9. Persistence backends ---
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}

	// --- 10. Remote forecast service ---
	if err := processRemote(cfg, input); err != nil {
		return err
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.CacheBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and run-history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.CacheBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend != "" {
		if !schema.ValidCacheBackend(cfg.CacheBackend) {
			return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
		}
		cfg.CacheDBConnect = input.CacheDBConnect
		if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
			return err
		}
	}

	// --- Run Backend Validation ---
	cfg.RunBackend = schema.CacheBackend(strings.ToLower(input.RunBackend))
	if cfg.RunBackend != "" {
		if !schema.ValidCacheBackend(cfg.RunBackend) {
			return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", input.RunBackend)
		}
		cfg.RunDBConnect = input.RunDBConnect
		if err := ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect); err != nil {
			return err
		}

		// Cache and run history must not share a non-SQLite database
		if cfg.CacheBackend == cfg.RunBackend && cfg.CacheBackend != schema.NoneBackend &&
			cfg.CacheBackend != schema.SQLiteBackend && cfg.CacheDBConnect == cfg.RunDBConnect {
			return fmt.Errorf("cache and run history cannot share the same %s database", cfg.CacheBackend)
		}
	}

	return nil
}

// processRemote builds the remote forecast service config from raw inputs.
// An empty URL leaves the remote service disabled.
func processRemote(cfg *Config, input *ConfigRawInput) error {
	cfg.RemoteURL = strings.TrimRight(input.RemoteURL, "/")
	cfg.RemoteModel = input.RemoteModel
	cfg.RemoteTimeout = DefaultRemoteTimeout
	if input.RemoteTimeout != "" {
		timeout, err := time.ParseDuration(input.RemoteTimeout)
		if err != nil {
			return fmt.Errorf("invalid remote timeout %q: %w", input.RemoteTimeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("remote timeout must be positive (received %s)", input.RemoteTimeout)
		}
		cfg.RemoteTimeout = timeout
	}
	return nil
}

// processGoal builds the goal config from raw inputs. An empty goal type
// leaves the goal disabled.
func processGoal(cfg *Config, input *ConfigRawInput) error {
	if input.GoalTypeStr == "" {
		return nil
	}
	goalType := schema.GoalType(strings.ToLower(input.GoalTypeStr))
	switch goalType {
	case schema.GoalContinuous, schema.GoalEndOfPeriod:
	default:
		return fmt.Errorf("invalid goal type %q. must be continuous, end-of-period", input.GoalTypeStr)
	}

	goal := schema.GoalConfig{
		ID:            "goal",
		Enabled:       true,
		Type:          goalType,
		Interpolation: schema.InterpLinear,
	}

	var err error
	if goal.TargetValue, err = parseOptionalFloat(input.GoalTargetStr, "goal target"); err != nil {
		return err
	}
	if goal.StartDate, err = parseOptionalDate(input.GoalStartStr, "goal start"); err != nil {
		return err
	}
	if goal.EndDate, err = parseOptionalDate(input.GoalEndStr, "goal end"); err != nil {
		return err
	}
	if goal.EndValue, err = parseOptionalFloat(input.GoalEndValueStr, "goal end value"); err != nil {
		return err
	}

	if goalType == schema.GoalContinuous && goal.TargetValue == nil {
		return fmt.Errorf("continuous goal requires a target value")
	}
	cfg.Goal = goal
	return nil
}

// processForecast builds the forecast config from raw inputs.
func processForecast(cfg *Config, input *ConfigRawInput) error {
	if !input.ForecastEnabled {
		return nil
	}
	horizon := input.ForecastHorizon
	if horizon == 0 {
		horizon = DefaultHorizon
	}
	if horizon < 1 || horizon > MaxHorizon {
		return fmt.Errorf("forecast horizon must be between 1 and %d (received %d)", MaxHorizon, horizon)
	}

	// Manual forecast when a target is supplied, auto otherwise.
	if input.TargetStr != "" {
		target, err := strconv.ParseFloat(input.TargetStr, 64)
		if err != nil {
			return fmt.Errorf("invalid forecast target %q: %w", input.TargetStr, err)
		}
		interp := schema.InterpolationMode(strings.ToLower(input.InterpolationStr))
		if input.InterpolationStr == "" {
			interp = schema.InterpLinear
		}
		forecast, err := schema.NewManualForecastConfig(horizon, target, interp)
		if err != nil {
			return err
		}
		cfg.Forecast = forecast
		return nil
	}

	seasonal := schema.SeasonalMode(strings.ToLower(input.SeasonalStr))
	if input.SeasonalStr == "" {
		seasonal = schema.SeasonalNone
	}
	level := input.ConfidenceLevel
	if level == 0 {
		level = DefaultConfidenceLevel
	}
	forecast, err := schema.NewForecastConfig(horizon, seasonal, level)
	if err != nil {
		return err
	}
	forecast.SeasonLength = input.SeasonLength

	if forecast.Alpha, err = parseOptionalFloat(input.AlphaStr, "alpha"); err != nil {
		return err
	}
	if forecast.Beta, err = parseOptionalFloat(input.BetaStr, "beta"); err != nil {
		return err
	}
	if forecast.Gamma, err = parseOptionalFloat(input.GammaStr, "gamma"); err != nil {
		return err
	}
	if forecast.StartDate, err = parseOptionalDate(input.ForecastStartStr, "forecast start"); err != nil {
		return err
	}
	if input.ShowIntervalsStr != "" {
		show, err := ParseBoolString(input.ShowIntervalsStr)
		if err != nil {
			return err
		}
		forecast.ShowConfidenceIntervals = show
	}
	cfg.Forecast = forecast
	return nil
}

// ParsePeriodSpec parses "<period>:<unit>" into its parts, e.g. "7:day".
func ParsePeriodSpec(spec string) (int, schema.PeriodUnit, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("expected <period>:<unit> (received %q)", spec)
	}
	period, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, "", fmt.Errorf("invalid period in %q: %w", spec, err)
	}
	if period <= 0 {
		return 0, "", fmt.Errorf("period must be greater than 0 (received %d)", period)
	}
	unit := schema.PeriodUnit(strings.ToLower(strings.TrimSpace(parts[1])))
	if !schema.ValidPeriodUnit(unit) {
		return 0, "", fmt.Errorf("invalid unit %q. must be day, week, month, quarter, year", parts[1])
	}
	return period, unit, nil
}

// ParseShadowSpecs parses a comma list of "<periods>:<unit>[:align]" into
// shadow configurations with generated ids and labels.
func ParseShadowSpecs(spec string) ([]schema.ShadowConfig, error) {
	var shadows []schema.ShadowConfig
	for i, raw := range strings.Split(spec, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		align := false
		if rest, found := strings.CutSuffix(raw, ":align"); found {
			align = true
			raw = rest
		}
		periods, unit, err := ParsePeriodSpec(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid shadow spec: %w", err)
		}
		shadow, err := schema.NewShadowConfig(
			fmt.Sprintf("shadow-%d", i+1),
			periods,
			unit,
			shadowLabel(periods, unit),
		)
		if err != nil {
			return nil, err
		}
		shadow.AlignDayOfWeek = align
		shadows = append(shadows, shadow)
	}
	if len(shadows) == 0 {
		return nil, fmt.Errorf("no shadow specs found in %q", spec)
	}
	return shadows, nil
}

// shadowLabel generates a display label like "1 year ago" or "3 months ago".
func shadowLabel(periods int, unit schema.PeriodUnit) string {
	name := string(unit)
	if periods != 1 {
		name += "s"
	}
	return fmt.Sprintf("%d %s ago", periods, name)
}

// ParseComparisonSpecs parses a comma list of "<id>=<source>[<index>]:<scope>",
// e.g. "vs-ly=shadow0:selection,vs-goal=goal:focus".
func ParseComparisonSpecs(spec string) ([]schema.ComparisonConfig, error) {
	var comparisons []schema.ComparisonConfig
	for _, raw := range strings.Split(spec, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, rest, found := strings.Cut(raw, "=")
		if !found || id == "" {
			return nil, fmt.Errorf("comparison spec %q must be <id>=<source>:<scope>", raw)
		}
		sourceStr, scopeStr, found := strings.Cut(rest, ":")
		if !found {
			return nil, fmt.Errorf("comparison spec %q must be <id>=<source>:<scope>", raw)
		}

		index := 0
		source := schema.ComparisonSource(strings.ToLower(sourceStr))
		if after, found := strings.CutPrefix(strings.ToLower(sourceStr), "shadow"); found && after != "" {
			i, err := strconv.Atoi(after)
			if err != nil {
				return nil, fmt.Errorf("invalid shadow index in comparison %q: %w", raw, err)
			}
			source = schema.CompareShadow
			index = i
		}

		cmp, err := schema.NewComparisonConfig(id, source, index, schema.ComparisonScope(strings.ToLower(scopeStr)))
		if err != nil {
			return nil, fmt.Errorf("invalid comparison %q: %w", raw, err)
		}
		comparisons = append(comparisons, cmp)
	}
	if len(comparisons) == 0 {
		return nil, fmt.Errorf("no comparison specs found in %q", spec)
	}
	return comparisons, nil
}

// ParseDate parses a date accepting the flag format (2006-01-02) and
// RFC3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q. must be YYYY-MM-DD or RFC3339", s)
	}
	return t, nil
}

func parseOptionalDate(s, what string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date: %w", what, err)
	}
	return &t, nil
}

func parseOptionalFloat(s, what string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", what, s, err)
	}
	return &f, nil
}
