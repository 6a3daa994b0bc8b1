package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Coverage label constants for the share of commits referencing a PR.
const (
	HighCoverage     = "High"
	ModerateCoverage = "Moderate"
	LowCoverage      = "Low"
)

// Color variables for console output.
var (
	HighColor     = color.New(color.FgGreen, color.Bold)
	ModerateColor = color.New(color.FgYellow)
	LowColor      = color.New(color.FgRed, color.Bold)
	HeaderColor   = color.New(color.FgCyan, color.Bold)
)

// GetPlainCoverageLabel returns a label for the share of commits
// that reference a pull request, given as a percentage.
func GetPlainCoverageLabel(pct float64) string {
	switch {
	case pct >= 75:
		return HighCoverage
	case pct >= 40:
		return ModerateCoverage
	default:
		return LowCoverage
	}
}

// GetColorCoverageLabel returns a colored coverage label for console output.
func GetColorCoverageLabel(pct float64) string {
	text := GetPlainCoverageLabel(pct)

	switch text {
	case HighCoverage:
		return HighColor.Sprint(text)
	case ModerateCoverage:
		return ModerateColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout.
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

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".commitstat_cache.db"
	}
	return filepath.Join(homeDir, ".commitstat_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for run history.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".commitstat_analysis.db"
	}
	return filepath.Join(homeDir, ".commitstat_analysis.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the ellipsis.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
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
