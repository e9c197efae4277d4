// Package main provides a performance benchmarking tool for the Faultline CLI.
// It measures execution times across synthetic sensor datasets of different sizes
// and command types, running each test multiple times, treating the first
// successful run as cold and averaging the rest as warm, generating CSV output
// for performance analysis and documentation.
//
// Prerequisites:
// - faultline binary installed and available in PATH
//
// Usage: go run benchmark/main.go [dataset-dir]
//
//	dataset-dir: Directory where synthetic readings files are generated
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-store average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	DatasetDir   string
	Timeout      time.Duration
	Workers      int
	NoStoreRuns  int
	StoreRuns    int
	Datasets     []string
	DatasetSpecs map[string][2]int // sensors, hours per sensor
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [dataset-dir]\n", os.Args[0])
		os.Exit(1)
	}
	datasetDir := os.Args[1]

	config := BenchmarkConfig{
		DatasetDir:  datasetDir,
		Timeout:     5 * time.Minute,
		Workers:     10,
		NoStoreRuns: 3,
		StoreRuns:   4,
		Datasets:    []string{"small", "medium", "large"},
		DatasetSpecs: map[string][2]int{
			"small":  {5, 24 * 7},    // 5 sensors, one week hourly
			"medium": {20, 24 * 30},  // 20 sensors, one month hourly
			"large":  {100, 24 * 90}, // 100 sensors, one quarter hourly
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	if err := generateDatasets(config); err != nil {
		fmt.Printf("Failed to generate datasets: %v\n", err)
		os.Exit(1)
	}

	// Clear the run store using faultline history clear
	fmt.Printf("Clearing run history...\n")
	clearCmd := exec.Command("faultline", "history", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear run history: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Run history cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the faultline binary and dataset directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	// Check if faultline is available
	if _, err := exec.LookPath("faultline"); err != nil {
		return fmt.Errorf("faultline binary not found in PATH")
	}

	if err := os.MkdirAll(config.DatasetDir, 0o755); err != nil {
		return fmt.Errorf("cannot create dataset directory %s: %w", config.DatasetDir, err)
	}

	return nil
}

// generateDatasets writes one synthetic readings CSV per configured dataset.
// Values follow a daily sinusoidal load curve with gaussian noise, and every
// sensor gets periodic spikes so detection always has work to do.
func generateDatasets(config BenchmarkConfig) error {
	equipment := []string{"HVAC", "Power", "Lighting", "Water", "Elevator"}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, name := range config.Datasets {
		spec := config.DatasetSpecs[name]
		sensors, hours := spec[0], spec[1]
		path := datasetPath(config, name)

		fmt.Printf("Generating %s dataset: %d sensors x %d hours -> %s\n", name, sensors, hours, path)

		file, err := os.Create(path)
		if err != nil {
			return err
		}

		writer := csv.NewWriter(file)
		if err := writer.Write([]string{"timestamp", "sensor_id", "value", "equipment_type", "floor_number"}); err != nil {
			_ = file.Close()
			return err
		}

		rng := rand.New(rand.NewSource(42))
		for s := 0; s < sensors; s++ {
			equip := equipment[s%len(equipment)]
			sensorID := fmt.Sprintf("%s-%03d", strings.ToLower(equip), s)
			floor := fmt.Sprintf("%d", s%10+1)
			mean, amplitude := loadCurve(equip)

			for h := 0; h < hours; h++ {
				ts := base.Add(time.Duration(h) * time.Hour)
				value := mean + amplitude*math.Sin(2*math.Pi*float64(h%24)/24) + rng.NormFloat64()*amplitude*0.1
				if h%97 == 96 {
					value = mean * 2.5 // injected spike
				}
				record := []string{ts.Format(time.RFC3339), sensorID, fmt.Sprintf("%.2f", value), equip, floor}
				if err := writer.Write(record); err != nil {
					_ = file.Close()
					return err
				}
			}
		}

		writer.Flush()
		if err := writer.Error(); err != nil {
			_ = file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
	}

	return nil
}

// loadCurve returns the mean level and daily swing for an equipment type.
func loadCurve(equipment string) (mean, amplitude float64) {
	switch equipment {
	case "HVAC":
		return 21, 2
	case "Power":
		return 500, 120
	case "Lighting":
		return 60, 30
	case "Water":
		return 50, 15
	default: // Elevator and anything else
		return 40, 20
	}
}

func datasetPath(config BenchmarkConfig, name string) string {
	return filepath.Join(config.DatasetDir, fmt.Sprintf("readings_%s.csv", name))
}

// runBenchmarks executes all benchmark tests across configured datasets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d workers, no-store: %d runs, store: %d runs\n",
		len(config.Datasets), config.Timeout, config.Workers, config.NoStoreRuns, config.StoreRuns)

	for _, dataset := range config.Datasets {
		fmt.Printf("Benchmarking %s\n", dataset)

		readings := datasetPath(config, dataset)

		// Anomaly detection
		result := runBenchmarkSuite(config, dataset, readings, "detect", "anomaly detection", "")
		results = append(results, result)

		// Pattern classification
		result = runBenchmarkSuite(config, dataset, readings, "classify", "pattern classification", "")
		results = append(results, result)

		// Insight generation
		result = runBenchmarkSuite(config, dataset, readings, "insights", "insight generation", "--energy-rate 0.15")
		results = append(results, result)
	}

	return results
}

// runBenchmarkSuite runs both no-store and store benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, dataset, readings, command, description, extraArgs string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", description, dataset)

	// Helper to run a benchmark phase
	runPhase := func(storeBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, readings, command, extraArgs, storeBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-store runs
	_, noStoreAvg := runPhase("none", config.NoStoreRuns, "No-store")

	// Phase 2: Store runs
	coldTime, warmAvg := runPhase("sqlite", config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     command,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a faultline command multiple times with the specified store backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, readings, command, extraArgs, storeBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	// Prepare command arguments
	args := []string{command, readings, "--store-backend", storeBackend, "--workers", fmt.Sprintf("%d", config.Workers)}
	if extraArgs != "" {
		args = append(args, parseArgs(extraArgs)...)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("faultline", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func parseArgs(argsStr string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, r := range argsStr {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ' ':
			if !inQuotes && current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			} else if inQuotes {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	switch command {
	case "classify":
		return strings.Contains(outputStr, "Classified") && strings.Contains(outputStr, "patterns in")
	case "insights":
		return strings.Contains(outputStr, "insights and") && strings.Contains(outputStr, "savings scenarios in")
	default:
		return strings.Contains(outputStr, "Detection completed in") && strings.Contains(outputStr, "workers")
	}
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/faultline_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "cmd", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoStoreTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "detect", "Anomaly Detection:")
	printCommandSummary(results, "classify", "Pattern Classification:")
	printCommandSummary(results, "insights", "Insight Generation:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s: No-store: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoStoreTime, result.ColdTime, result.WarmTime)
		}
	}
}
