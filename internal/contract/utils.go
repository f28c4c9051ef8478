package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Verdict label constants.
const (
	TrueValue        = "true"
	FalseValue       = "false"
	UnavailableValue = "-"
)

// Color variables for console output.
var (
	TrueColor        = color.New(color.FgGreen, color.Bold) // TrueColor marks a passing verdict.
	FalseColor       = color.New(color.FgRed, color.Bold)   // FalseColor marks a failing verdict.
	UnavailableColor = color.New(color.Faint)               // UnavailableColor marks a metric that does not apply.
	ValueColor       = color.New(color.FgCyan)              // ValueColor marks any other payload.
)

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(text string) string {
	switch text {
	case TrueValue:
		return TrueColor.Sprint(text)
	case FalseValue:
		return FalseColor.Sprint(text)
	case UnavailableValue:
		return UnavailableColor.Sprint(text)
	default:
		return ValueColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetReportDBFilePath returns the path to the SQLite DB file for report storage.
func GetReportDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".repometrics_reports.db"
	}
	return filepath.Join(homeDir, ".repometrics_reports.db")
}

// GetRunDBFilePath returns the path to the SQLite DB file for run history storage.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".repometrics_runs.db"
	}
	return filepath.Join(homeDir, ".repometrics_runs.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so the ellipsis leaves room for content.
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
