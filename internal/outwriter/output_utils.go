package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/faultline-io/faultline/internal/contract"
	"golang.org/x/term"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// headerTitle prefixes a table title with an emoji when enabled.
func headerTitle(cfg *contract.Config, emoji, title string) string {
	if cfg.UseEmojis {
		return emoji + " " + title
	}
	return title
}

// getMaxTableDescWidth calculates the maximum width for pattern descriptions
// in table output based on terminal width and table configuration.
func getMaxTableDescWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns with borders and padding
	baseWidth := 70 // Rank + Sensor + Equipment + Type + Severity + Conf + Anomalies

	available := termWidth - baseWidth
	if available < 20 {
		// Minimum reasonable description width
		return 20
	}
	if available > 80 {
		// Maximum description width to keep rows scannable
		return 80
	}
	return available
}
