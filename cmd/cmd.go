// Package cmd defines the command-line interface for faultline.
package cmd

import (
	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(baselinesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("sensor", "s", "", "Restrict analysis to one sensor ID")
	rootCmd.PersistentFlags().StringP("equipment", "e", "", "Restrict analysis to one equipment type (HVAC, Power, Fire, ...)")
	rootCmd.PersistentFlags().Int("floor", 0, "Restrict analysis to one floor (0 = all floors)")
	rootCmd.PersistentFlags().String("start", "", "Start date in ISO8601 or time ago")
	rootCmd.PersistentFlags().String("end", "", "End date in ISO8601 or time ago")
	rootCmd.PersistentFlags().String("granularity", "1h", "Expected reading interval (e.g. 15m, 1h)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("workers", schema.DefaultDetectionWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.NoneBackend), "Run store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().StringP("algorithm", "a", string(schema.ZScoreAlgorithm), "Detection algorithm: zscore, modified_zscore, iqr, moving_average or seasonal")
	rootCmd.PersistentFlags().String("confidence-method", string(schema.StatisticalConfidence), "Confidence method: statistical, historical or ensemble")
	rootCmd.PersistentFlags().Float64("threshold", schema.DefaultThresholdMultiplier, "Deviation threshold multiplier (standard deviations)")
	rootCmd.PersistentFlags().Int("sensitivity", schema.DefaultSensitivity, "Detection sensitivity: 1 (strict) to 10 (loose)")
	rootCmd.PersistentFlags().Int("min-points", schema.DefaultMinimumDataPoints, "Minimum readings per sensor before analysis")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of classifyCmd to Viper
	classifyCmd.Flags().Float64("sustained-hours", schema.DefaultSustainedHours, "Hours of persistent deviation for a sustained failure")
	classifyCmd.Flags().Int("intermittent-count", schema.DefaultIntermittentCount, "Distinct anomaly episodes for an intermittent failure")
	classifyCmd.Flags().Float64("degradation-rate", schema.DefaultDegradationPerHour, "Per-hour drift rate for gradual degradation")
	if err := viper.BindPFlags(classifyCmd.Flags()); err != nil {
		contract.LogFatal("Error binding classify flags", err)
	}

	// Bind all flags of insightsCmd to Viper
	insightsCmd.Flags().Float64("energy-rate", schema.DefaultEnergyRatePerKWh, "Energy rate per kWh for savings projections")
	insightsCmd.Flags().Int("peak-window", schema.DefaultPeakWindowHours, "Width of the peak-load window in hours")
	if err := viper.BindPFlags(insightsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding insights flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
