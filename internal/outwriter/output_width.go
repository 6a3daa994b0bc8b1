package outwriter

import (
	"os"

	"github.com/huangsam/commitstat/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableNameWidth calculates the maximum width for component and
// language names in table output based on terminal width.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	termWidth := cfg.Width

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Commits + Added + Deleted + Modified with borders and padding
	baseWidth := 60

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}
