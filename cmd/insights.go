package cmd

import (
	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/internal/outwriter"
	"github.com/faultline-io/faultline/internal/pipeline"
	"github.com/spf13/cobra"
)

// insightsCmd generates validated insights and savings scenarios.
var insightsCmd = &cobra.Command{
	Use:   "insights [readings-file]",
	Short: "Generate confidence-bounded insights from sensor readings.",
	Long: `Compute validated business metrics from the same readings the
detector consumes.

Produces:
- Per-sensor trend insights with confidence intervals
- Data quality metrics (coverage, gaps, flatlines)
- Building-wide peak load windows
- Savings scenarios under assumed consumption reductions

Every insight carries explicit bounds and caveats so downstream reports
never overstate certainty.

Examples:
  # Generate insights for all sensors
  faultline insights readings.csv

  # Project savings at the local energy rate
  faultline insights readings.csv --energy-rate 0.22

  # Export for reporting
  faultline insights readings.csv --output json --output-file insights.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: requireInputSetup,
	Run: func(_ *cobra.Command, _ []string) {
		insights, savings, duration, err := pipeline.RunInsights(cfg)
		if err != nil {
			contract.LogFatal("Cannot generate insights", err)
		}
		if err := outwriter.PrintInsightResults(insights, savings, cfg, duration); err != nil {
			contract.LogFatal("Cannot write insight results", err)
		}
	},
}
