package cmd

import (
	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/internal/outwriter"
	"github.com/spf13/cobra"
)

// baselinesCmd displays the active thresholds and equipment baselines.
var baselinesCmd = &cobra.Command{
	Use:   "baselines",
	Short: "Display active detection settings and equipment operating baselines",
	Long: `Show the effective configuration the detector and classifier will use.

Displays:
- Detection algorithm, confidence method and threshold knobs
- Per-equipment operating ranges (min/max expected value)
- Per-equipment business criticality scores

Values reflect defaults overlaid with .faultline.yaml overrides, so this
is the fastest way to verify a config file took effect.

No sensor data is read - this is purely informational.

Examples:
  # Show effective settings
  faultline baselines

  # Verify config file overrides
  faultline baselines --config .faultline.yaml

  # Export the baseline table
  faultline baselines --output csv --output-file baselines.csv`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.PrintBaselines(cfg); err != nil {
			contract.LogFatal("Cannot display baselines", err)
		}
	},
}
