package outwriter

import (
	"os"

	"github.com/huangsam/repometrics/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableValueWidth calculates the maximum width for result values in table output
// based on terminal width and table configuration.
func GetMaxTableValueWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Group + Metric + Commit columns with borders/padding
	baseWidth := 50

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 80 {
		return 80
	}
	return available
}
