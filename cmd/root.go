package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/internal/runstore"
	"github.com/faultline-io/faultline/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profile holds profiling configuration.
var profile = &contract.ProfileConfig{}

// storeManager is the global run store manager instance.
var storeManager contract.StoreManager

// startProfiling starts CPU and memory profiling if enabled.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	// Start CPU profiling
	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	// Memory profiling will be captured at the end
	_, err = fmt.Fprintf(os.Stdout, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	// Write memory profile
	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stdout, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profile.Prefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "faultline",
	Short:              "Detect failure patterns in building sensor data.",
	Long:               `Faultline analyzes building sensor time series to surface anomalies, classify failure patterns and validate operational insights.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".faultline") // Name of config file (without extension)
		viper.SetConfigType("yaml")       // We'll use YAML format
		viper.AddConfigPath(".")          // Look in the current directory
		viper.AddConfigPath("$HOME")      // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("FAULTLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("workers", schema.DefaultDetectionWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("granularity", "1h")
	viper.SetDefault("store-backend", schema.NoneBackend)
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("emoji", "yes")
	viper.SetDefault("color", "yes")
	viper.SetDefault("algorithm", schema.ZScoreAlgorithm)
	viper.SetDefault("confidence-method", schema.StatisticalConfidence)
	viper.SetDefault("threshold", schema.DefaultThresholdMultiplier)
	viper.SetDefault("sensitivity", schema.DefaultSensitivity)
	viper.SetDefault("min-points", schema.DefaultMinimumDataPoints)
	viper.SetDefault("sustained-hours", schema.DefaultSustainedHours)
	viper.SetDefault("intermittent-count", schema.DefaultIntermittentCount)
	viper.SetDefault("degradation-rate", schema.DefaultDegradationPerHour)
	viper.SetDefault("energy-rate", schema.DefaultEnergyRatePerKWh)
	viper.SetDefault("peak-window", schema.DefaultPeakWindowHours)
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ *cobra.Command, args []string) error {
	// Handle profiling flag
	profilePrefix := viper.GetString("profile")
	if err := contract.ProcessProfilingConfig(profile, profilePrefix); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if profile.Enabled {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.InputPathStr = args[0]
	}

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Initialize persistence layer with validated config
	if err := runstore.InitStores(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run store: %w", err)
	}

	return nil
}

// requireInputSetup runs sharedSetup and then insists on a readings file.
func requireInputSetup(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(cmd, args); err != nil {
		return err
	}
	if cfg.InputPath == "" {
		return fmt.Errorf("a readings file is required (e.g. 'faultline %s readings.csv')", cmd.Name())
	}
	return nil
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".faultline")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
