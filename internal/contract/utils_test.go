package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainSeverityLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "high severity",
			input:    "high",
			expected: HighValue,
		},
		{
			name:     "high severity mixed case",
			input:    "High",
			expected: HighValue,
		},
		{
			name:     "medium maps to moderate",
			input:    "medium",
			expected: ModerateValue,
		},
		{
			name:     "low severity",
			input:    "low",
			expected: LowValue,
		},
		{
			name:     "unknown falls back to low",
			input:    "whatever",
			expected: LowValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainSeverityLabel(tt.input))
		})
	}
}

func TestGetColorSeverityLabel(t *testing.T) {
	// Colored output embeds the plain label regardless of terminal support.
	assert.Contains(t, GetColorSeverityLabel("high"), HighValue)
	assert.Contains(t, GetColorSeverityLabel("medium"), ModerateValue)
	assert.Contains(t, GetColorSeverityLabel("low"), LowValue)
}

func TestColorDelta(t *testing.T) {
	assert.Contains(t, ColorDelta("+5", 5), "+5")
	assert.Contains(t, ColorDelta("-5", -5), "-5")
	assert.Equal(t, "0", ColorDelta("0", 0))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "true", "1", "YES", "True"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "false", "0", "NO"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.csv")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NotNil(t, f)
	_ = f.Close()
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestDBFilePaths(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetDBFilePath(), ".trendboard_cache.db"))
	assert.True(t, strings.HasSuffix(GetRunDBFilePath(), ".trendboard_runs.db"))
	assert.NotEqual(t, GetDBFilePath(), GetRunDBFilePath())
}
