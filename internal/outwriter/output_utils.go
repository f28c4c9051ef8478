package outwriter

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// shortHashLen is the number of commit hash characters shown in tables.
const shortHashLen = 8

// FormatResult renders a result payload as a single line.
// Verdict payloads collapse to their verdict, maps render as sorted key=value pairs.
func FormatResult(result any) string {
	switch r := result.(type) {
	case nil:
		return ""
	case string:
		return r
	case map[string]any:
		if v, ok := r["result"]; ok && len(r) == 1 {
			return FormatResult(v)
		}
		keys := slices.Sorted(maps.Keys(r))
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, FormatResult(r[k])))
		}
		return strings.Join(parts, ", ")
	case []any:
		parts := make([]string, 0, len(r))
		for _, v := range r {
			parts = append(parts, FormatResult(v))
		}
		return "[" + strings.Join(parts, "; ") + "]"
	case []string:
		return "[" + strings.Join(r, "; ") + "]"
	case fmt.Stringer:
		return r.String()
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprint(result)
	}
	return string(data)
}

// verdictOf returns the verdict string of a result when it has one.
func verdictOf(result any) (string, bool) {
	switch r := result.(type) {
	case string:
		return r, r == schema.UnavailableResult
	case map[string]any:
		s, ok := r["result"].(string)
		return s, ok && (s == contract.TrueValue || s == contract.FalseValue)
	}
	return "", false
}

// formatCell renders a result for a table cell, colored when enabled.
func formatCell(result any, cfg *contract.Config) string {
	text := contract.TruncateText(FormatResult(result), GetMaxTableValueWidth(cfg))
	if !cfg.UseColors {
		return text
	}
	if verdict, ok := verdictOf(result); ok && verdict == text {
		return contract.GetColorLabel(verdict)
	}
	return text
}

// shortHash trims a commit hash for display.
func shortHash(hash string) string {
	hash = strings.TrimSpace(hash)
	if len(hash) > shortHashLen {
		return hash[:shortHashLen]
	}
	return hash
}
