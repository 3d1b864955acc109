package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Severity label constants.
const (
	HighValue     = "High"     // High severity
	ModerateValue = "Moderate" // Moderate severity
	LowValue      = "Low"      // Low severity
)

// Color variables for console output.
var (
	HighColor     = color.New(color.FgRed, color.Bold) // highColor represents standard danger.
	ModerateColor = color.New(color.FgYellow)          // moderateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)            // lowColor represents informational / low-priority signal.

	UpColor   = color.New(color.FgGreen) // upColor marks a positive delta.
	DownColor = color.New(color.FgRed)   // downColor marks a negative delta.
)

// GetPlainSeverityLabel returns a plain text label for an anomaly severity.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainSeverityLabel(severity string) string {
	switch strings.ToLower(severity) {
	case "high":
		return HighValue
	case "medium":
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorSeverityLabel returns a colored severity label for console output
// (table). It uses GetPlainSeverityLabel to determine the string, and then
// applies the appropriate color.
func GetColorSeverityLabel(severity string) string {
	text := GetPlainSeverityLabel(severity)
	switch text {
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// ColorDelta formats a signed delta with direction coloring for table
// output. Zero deltas stay uncolored.
func ColorDelta(text string, delta float64) string {
	switch {
	case delta > 0:
		return UpColor.Sprint(text)
	case delta < 0:
		return DownColor.Sprint(text)
	}
	return text
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for forecast cache
// storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".trendboard_cache.db"
	}
	return filepath.Join(homeDir, ".trendboard_cache.db")
}

// GetRunDBFilePath returns the path to the SQLite DB file for run-history
// storage.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".trendboard_runs.db"
	}
	return filepath.Join(homeDir, ".trendboard_runs.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
