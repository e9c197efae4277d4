package cmd

import (
	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/internal/outwriter"
	"github.com/faultline-io/faultline/internal/pipeline"
	"github.com/spf13/cobra"
)

// detectCmd performs statistical anomaly detection.
var detectCmd = &cobra.Command{
	Use:   "detect [readings-file]",
	Short: "Detect statistical anomalies in sensor readings.",
	Long: `Analyze building sensor time series and surface anomalous patterns.

Each sensor's readings are analyzed independently using the selected
algorithm, helping you:
- Spot readings far outside a sensor's normal distribution
- Catch sustained drifts away from equipment baselines
- Find values breaching expected operating ranges
- Separate daily-cycle noise from genuine deviations

Sensors with fewer readings than --min-points are skipped silently;
detected patterns are ranked by confidence score.

Examples:
  # Detect with the default z-score algorithm
  faultline detect readings.csv

  # Robust detection on spiky data
  faultline detect readings.csv --algorithm modified_zscore

  # Focus on one equipment class and tighten the threshold
  faultline detect readings.csv --equipment HVAC --threshold 2.5

  # Track runs in SQLite and export findings to CSV
  faultline detect readings.csv --store-backend sqlite --output csv --output-file patterns.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: requireInputSetup,
	Run: func(_ *cobra.Command, _ []string) {
		result, duration, err := pipeline.RunDetection(rootCtx, cfg, storeManager)
		if err != nil {
			contract.LogFatal("Cannot run detection", err)
		}
		if err := outwriter.PrintPatternResults(result, cfg, duration); err != nil {
			contract.LogFatal("Cannot write detection results", err)
		}
	},
}
