package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trendboard/trendboard/schema"
)

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		input       *ConfigRawInput
		expectError string
		check       func(*testing.T, *Config)
	}{
		{
			name: "valid minimal config",
			input: &ConfigRawInput{
				SeriesPathStr: "signups.json",
				Precision:     1,
				Output:        "text",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "signups.json", cfg.SeriesPath)
				assert.Equal(t, schema.TextOut, cfg.Output)
				assert.Equal(t, schema.SensitivityMedium, cfg.Sensitivity)
			},
		},
		{
			name: "invalid precision",
			input: &ConfigRawInput{
				Precision: 9,
				Output:    "text",
			},
			expectError: "precision must be between 0 and 4",
		},
		{
			name: "invalid output format",
			input: &ConfigRawInput{
				Precision: 1,
				Output:    "xml",
			},
			expectError: "invalid output format",
		},
		{
			name: "focus start after focus end",
			input: &ConfigRawInput{
				Precision:     1,
				Output:        "text",
				FocusStartStr: "2024-06-30",
				FocusEndStr:   "2024-06-01",
			},
			expectError: "cannot be after focus end",
		},
		{
			name: "smoothing and group-by are exclusive",
			input: &ConfigRawInput{
				Precision:    1,
				Output:       "text",
				SmoothingStr: "7:day",
				GroupByStr:   "week",
			},
			expectError: "cannot both be set",
		},
		{
			name: "valid smoothing",
			input: &ConfigRawInput{
				Precision:    1,
				Output:       "text",
				SmoothingStr: "7:day",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.AggSmoothing, cfg.Aggregation.Mode)
				assert.Equal(t, 7, cfg.Aggregation.Period)
				assert.Equal(t, schema.UnitDay, cfg.Aggregation.Unit)
			},
		},
		{
			name: "invalid smoothing unit",
			input: &ConfigRawInput{
				Precision:    1,
				Output:       "text",
				SmoothingStr: "7:fortnight",
			},
			expectError: "invalid smoothing spec",
		},
		{
			name: "valid group-by",
			input: &ConfigRawInput{
				Precision:  1,
				Output:     "text",
				GroupByStr: "month",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.AggGroupBy, cfg.Aggregation.Mode)
				assert.Equal(t, schema.GroupMonth, cfg.Aggregation.GroupBy)
			},
		},
		{
			name: "valid shadows with alignment",
			input: &ConfigRawInput{
				Precision: 1,
				Output:    "text",
				ShadowStr: "1:year:align,3:month",
			},
			check: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Shadows, 2)
				assert.True(t, cfg.Shadows[0].AlignDayOfWeek)
				assert.Equal(t, "1 year ago", cfg.Shadows[0].Label)
				assert.False(t, cfg.Shadows[1].AlignDayOfWeek)
				assert.Equal(t, "3 months ago", cfg.Shadows[1].Label)
			},
		},
		{
			name: "continuous goal requires target",
			input: &ConfigRawInput{
				Precision:   1,
				Output:      "text",
				GoalTypeStr: "continuous",
			},
			expectError: "continuous goal requires a target",
		},
		{
			name: "valid continuous goal",
			input: &ConfigRawInput{
				Precision:     1,
				Output:        "text",
				GoalTypeStr:   "continuous",
				GoalTargetStr: "150",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Goal.Enabled)
				require.NotNil(t, cfg.Goal.TargetValue)
				assert.InDelta(t, 150, *cfg.Goal.TargetValue, 1e-9)
			},
		},
		{
			name: "invalid goal type",
			input: &ConfigRawInput{
				Precision:   1,
				Output:      "text",
				GoalTypeStr: "stretch",
			},
			expectError: "invalid goal type",
		},
		{
			name: "manual forecast from target",
			input: &ConfigRawInput{
				Precision:       1,
				Output:          "text",
				ForecastEnabled: true,
				ForecastHorizon: 10,
				TargetStr:       "500",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Forecast.Enabled)
				assert.Equal(t, schema.ForecastManual, cfg.Forecast.Type)
				require.NotNil(t, cfg.Forecast.TargetValue)
				assert.InDelta(t, 500, *cfg.Forecast.TargetValue, 1e-9)
			},
		},
		{
			name: "forecast horizon out of range",
			input: &ConfigRawInput{
				Precision:       1,
				Output:          "text",
				ForecastEnabled: true,
				ForecastHorizon: 9999,
			},
			expectError: "forecast horizon must be between",
		},
		{
			name: "invalid sensitivity",
			input: &ConfigRawInput{
				Precision:      1,
				Output:         "text",
				SensitivityStr: "extreme",
			},
			expectError: "invalid sensitivity",
		},
		{
			name: "valid comparisons",
			input: &ConfigRawInput{
				Precision:     1,
				Output:        "text",
				ComparisonStr: "vs-ly=shadow0:selection,vs-goal=goal:focus",
			},
			check: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Comparisons, 2)
				assert.Equal(t, schema.CompareShadow, cfg.Comparisons[0].Source)
				assert.Equal(t, schema.CompareGoal, cfg.Comparisons[1].Source)
			},
		},
		{
			name: "invalid cache backend",
			input: &ConfigRawInput{
				Precision:    1,
				Output:       "text",
				CacheBackend: "redis",
			},
			expectError: "invalid cache backend",
		},
		{
			name: "mysql cache backend requires connection string",
			input: &ConfigRawInput{
				Precision:    1,
				Output:       "text",
				CacheBackend: "mysql",
			},
			expectError: "connection string is required",
		},
		{
			name: "run backend cannot share mysql database with cache",
			input: &ConfigRawInput{
				Precision:      1,
				Output:         "text",
				CacheBackend:   "mysql",
				CacheDBConnect: "user:pass@tcp(localhost:3306)/trendboard",
				RunBackend:     "mysql",
				RunDBConnect:   "user:pass@tcp(localhost:3306)/trendboard",
			},
			expectError: "cannot share the same mysql database",
		},
		{
			name: "invalid remote timeout",
			input: &ConfigRawInput{
				Precision:     1,
				Output:        "text",
				RemoteURL:     "http://localhost:8000",
				RemoteTimeout: "soon",
			},
			expectError: "invalid remote timeout",
		},
		{
			name: "remote url trailing slash is trimmed",
			input: &ConfigRawInput{
				Precision:     1,
				Output:        "text",
				RemoteURL:     "http://localhost:8000/",
				RemoteTimeout: "30s",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://localhost:8000", cfg.RemoteURL)
				assert.Equal(t, 30*time.Second, cfg.RemoteTimeout)
			},
		},
		{
			name: "invalid emoji value",
			input: &ConfigRawInput{
				Precision: 1,
				Output:    "text",
				Emoji:     "maybe",
			},
			expectError: "invalid --emoji value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := ProcessAndValidate(cfg, tt.input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestParsePeriodSpec(t *testing.T) {
	period, unit, err := ParsePeriodSpec("7:day")
	require.NoError(t, err)
	assert.Equal(t, 7, period)
	assert.Equal(t, schema.UnitDay, unit)

	_, _, err = ParsePeriodSpec("7")
	assert.Error(t, err)

	_, _, err = ParsePeriodSpec("0:day")
	assert.Error(t, err)

	_, _, err = ParsePeriodSpec("x:day")
	assert.Error(t, err)
}

func TestParseShadowSpecs(t *testing.T) {
	shadows, err := ParseShadowSpecs("1:year, 2:year")
	require.NoError(t, err)
	require.Len(t, shadows, 2)
	assert.Equal(t, "shadow-1", shadows[0].ID)
	assert.Equal(t, "shadow-2", shadows[1].ID)
	assert.Equal(t, "2 years ago", shadows[1].Label)

	_, err = ParseShadowSpecs(",,")
	assert.Error(t, err)
}

func TestParseComparisonSpecs(t *testing.T) {
	comparisons, err := ParseComparisonSpecs("vs-ly=shadow1:selection")
	require.NoError(t, err)
	require.Len(t, comparisons, 1)
	assert.Equal(t, "vs-ly", comparisons[0].ID)
	assert.Equal(t, schema.CompareShadow, comparisons[0].Source)
	assert.Equal(t, 1, comparisons[0].ShadowIndex)

	_, err = ParseComparisonSpecs("missing-scope=goal")
	assert.Error(t, err)

	_, err = ParseComparisonSpecs("=goal:focus")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-06-15T12:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 12, d.Hour())

	_, err = ParseDate("June 15th")
	assert.Error(t, err)
}

func TestConfigClone(t *testing.T) {
	base := &Config{
		SeriesName: "signups",
		Shadows:    []schema.ShadowConfig{{ID: "shadow-1"}},
	}
	clone := base.Clone()
	clone.Shadows = append(clone.Shadows, schema.ShadowConfig{ID: "shadow-2"})
	clone.SeriesName = "other"

	assert.Len(t, base.Shadows, 1)
	assert.Equal(t, "signups", base.SeriesName)
	assert.Len(t, clone.Shadows, 2)
}
