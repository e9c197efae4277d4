package cmd

import (
	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/internal/outwriter"
	"github.com/faultline-io/faultline/internal/pipeline"
	"github.com/spf13/cobra"
)

// classifyCmd detects anomalies and classifies them into failure patterns.
var classifyCmd = &cobra.Command{
	Use:   "classify [readings-file]",
	Short: "Classify detected anomalies into failure patterns.",
	Long: `Run detection and classify each pattern into a failure category with
risk scoring and a recommended response window.

Classification distinguishes:
- Cascade risks spreading across correlated sensors
- Threshold breaches outside equipment operating ranges
- Sustained failures that persist for hours
- Intermittent failures recurring in distinct episodes
- Gradual degradation drifting away from baseline
- Cyclic patterns following the daily cycle
- Sudden spikes with no supporting trend

Each result carries a risk score, failure probability, urgency level and
the window within which maintenance should respond. Severity can be
escalated by risk but never reduced.

Examples:
  # Classify with default knobs
  faultline classify readings.csv

  # Require longer persistence before calling a failure sustained
  faultline classify readings.csv --sustained-hours 12

  # Persist classified runs for trend tracking
  faultline classify readings.csv --store-backend sqlite

  # Export full scores for BI tools
  faultline classify readings.csv --output parquet --output-file scores.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: requireInputSetup,
	Run: func(_ *cobra.Command, _ []string) {
		results, duration, err := pipeline.RunClassification(rootCtx, cfg, storeManager)
		if err != nil {
			contract.LogFatal("Cannot run classification", err)
		}
		if err := outwriter.PrintClassificationResults(results, cfg, duration); err != nil {
			contract.LogFatal("Cannot write classification results", err)
		}
	},
}
