package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faultline-io/faultline/schema"
	"github.com/fatih/color"
)

// Risk label constants.
const (
	CriticalValue = "Critical" // Critical risk
	HighValue     = "High"     // High risk
	ModerateValue = "Moderate" // Moderate risk
	LowValue      = "Low"      // Low risk
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // criticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // highColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // moderateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // lowColor represents informational / low-priority signal.
)

// GetPlainLabel returns a plain text label for a 0-100 risk or confidence
// score. This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 80:
		return CriticalValue
	case score >= 60:
		return HighValue
	case score >= 40:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// GetSeverityLabel returns a colored or plain label for a severity level.
func GetSeverityLabel(s schema.Severity, useColors bool) string {
	if !useColors {
		return string(s)
	}
	switch s {
	case schema.SeverityCritical:
		return CriticalColor.Sprint(string(s))
	case schema.SeverityWarning:
		return ModerateColor.Sprint(string(s))
	default:
		return LowColor.Sprint(string(s))
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout for an empty path.
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

// GetStoreDBFilePath returns the path to the SQLite DB file for run storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".faultline_runs.db"
	}
	return filepath.Join(homeDir, ".faultline_runs.db")
}

// TruncateText truncates a string to a maximum width with ellipsis suffix.
// Requires maxWidth > 3 to ensure there's space for both the "..." and at
// least one character of content.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
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
