package contract

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faultline-io/faultline/schema"
)

// Default values for configuration.
const (
	DefaultLookbackHours = 7 * 24
	DefaultResultLimit   = 25
	MaxResultLimit       = 1000
	DefaultPrecision     = 1
	MaxThreshold         = 10.0
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// BaselineRawInput holds one equipment operating range from the YAML
// config file. Pointers distinguish "not provided" from zero.
type BaselineRawInput struct {
	Min *float64 `mapstructure:"min"`
	Max *float64 `mapstructure:"max"`
}

// Config holds the runtime configuration for an analysis invocation.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath   string
	StartTime   time.Time
	EndTime     time.Time
	Granularity time.Duration

	SensorFilter    string
	EquipmentFilter schema.EquipmentType
	FloorFilter     int

	Algorithm           schema.DetectionAlgorithm
	ConfidenceMethod    schema.ConfidenceMethod
	ThresholdMultiplier float64
	Sensitivity         int
	MinimumDataPoints   int
	Workers             int

	SustainedHours     float64
	IntermittentCount  int
	DegradationPerHour float64

	EnergyRatePerKWh float64
	PeakWindowHours  int

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	// Baselines holds the effective per-equipment operating ranges:
	// defaults overlaid with config file overrides.
	Baselines map[schema.EquipmentType]schema.ValueRange

	// Criticality holds the effective per-equipment criticality table.
	Criticality map[schema.EquipmentType]float64

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Sensor         string `mapstructure:"sensor"`
	Equipment      string `mapstructure:"equipment"`
	Floor          int    `mapstructure:"floor"`
	Start          string `mapstructure:"start"`
	End            string `mapstructure:"end"`
	Granularity    string `mapstructure:"granularity"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`

	// --- Detection knobs ---
	Algorithm        string  `mapstructure:"algorithm"`
	ConfidenceMethod string  `mapstructure:"confidence-method"`
	Threshold        float64 `mapstructure:"threshold"`
	Sensitivity      int     `mapstructure:"sensitivity"`
	MinPoints        int     `mapstructure:"min-points"`

	// --- Classifier knobs ---
	SustainedHours    float64 `mapstructure:"sustained-hours"`
	IntermittentCount int     `mapstructure:"intermittent-count"`
	DegradationRate   float64 `mapstructure:"degradation-rate"`

	// --- Insight knobs ---
	EnergyRate      float64 `mapstructure:"energy-rate"`
	PeakWindowHours int     `mapstructure:"peak-window"`

	// --- Baseline overrides from config file ---
	Baselines map[string]BaselineRawInput `mapstructure:"baselines"`

	// --- Criticality overrides from config file ---
	Criticality map[string]float64 `mapstructure:"criticality"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Baselines != nil {
		clone.Baselines = make(map[schema.EquipmentType]schema.ValueRange)
		maps.Copy(clone.Baselines, c.Baselines)
	}
	if c.Criticality != nil {
		clone.Criticality = make(map[schema.EquipmentType]float64)
		maps.Copy(clone.Criticality, c.Criticality)
	}
	return &clone
}

// Window returns the analysis window described by the config.
func (c *Config) Window() schema.AnalysisWindow {
	return schema.AnalysisWindow{
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		Granularity: c.Granularity,
	}
}

// DetectionConfig derives the detector configuration.
func (c *Config) DetectionConfig() schema.DetectionConfig {
	return schema.DetectionConfig{
		Algorithm:           c.Algorithm,
		ConfidenceMethod:    c.ConfidenceMethod,
		ThresholdMultiplier: c.ThresholdMultiplier,
		Sensitivity:         c.Sensitivity,
		MinimumDataPoints:   c.MinimumDataPoints,
		SeasonalLag:         schema.DefaultSeasonalLag,
		MinSeasonalPoints:   schema.DefaultMinSeasonalPoints,
		Workers:             c.Workers,
		Baselines:           c.Baselines,
	}
}

// ClassifierConfig derives the classifier configuration.
func (c *Config) ClassifierConfig() schema.ClassifierConfig {
	return schema.ClassifierConfig{
		SustainedHours:     c.SustainedHours,
		IntermittentCount:  c.IntermittentCount,
		DegradationPerHour: c.DegradationPerHour,
		Criticality:        c.Criticality,
	}
}

// ValidationConfig derives the insight validation configuration.
func (c *Config) ValidationConfig() schema.ValidationConfig {
	return schema.ValidationConfig{
		EnergyRatePerKWh: c.EnergyRatePerKWh,
		PeakWindowHours:  c.PeakWindowHours,
	}
}

// Filter returns the reading filter described by the config.
func (c *Config) Filter() ReadingFilter {
	return ReadingFilter{
		SensorID:      c.SensorFilter,
		EquipmentType: c.EquipmentFilter,
		FloorNumber:   c.FloorFilter,
		StartTime:     c.StartTime,
		EndTime:       c.EndTime,
	}
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	if err := processDetectionKnobs(cfg, input); err != nil {
		return err
	}
	if err := processClassifierKnobs(cfg, input); err != nil {
		return err
	}
	if err := processBaselines(cfg, input); err != nil {
		return err
	}
	if err := processCriticality(cfg, input); err != nil {
		return err
	}
	return resolveInputPath(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-detection fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.SensorFilter = strings.TrimSpace(input.Sensor)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Equipment / Floor Filter Validation ---
	if eq := strings.TrimSpace(input.Equipment); eq != "" {
		cfg.EquipmentFilter = schema.EquipmentType(eq)
		if _, ok := schema.DefaultCriticalityTable()[cfg.EquipmentFilter]; !ok {
			return fmt.Errorf("unknown equipment type '%s'", eq)
		}
	}
	if input.Floor < 0 {
		return fmt.Errorf("floor cannot be negative (received %d)", input.Floor)
	}
	cfg.FloorFilter = input.Floor

	// --- 2. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 3. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 4. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- 5. Store Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// processTimeRange handles the date parsing and time range validation.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	now := time.Now()
	cfg.EndTime = now
	cfg.StartTime = cfg.EndTime.Add(-DefaultLookbackHours * time.Hour)

	parseAbsolute := func(s string) (time.Time, error) {
		return time.Parse(DateTimeFormat, s)
	}

	// --- Process Start Time ---
	if input.Start != "" {
		t, err := parseAbsolute(input.Start)
		if err == nil {
			cfg.StartTime = t
		} else {
			t, relErr := ParseRelativeTime(input.Start, now)
			if relErr != nil {
				return fmt.Errorf("invalid start date format for '%s'. Expected absolute ISO8601 or 'N [units] ago': %v", input.Start, err)
			}
			cfg.StartTime = t
		}
	}

	// --- Process End Time ---
	if input.End != "" {
		t, err := parseAbsolute(input.End)
		if err == nil {
			cfg.EndTime = t
		} else {
			t, relErr := ParseRelativeTime(input.End, now)
			if relErr != nil {
				return fmt.Errorf("invalid end date format for '%s'. Expected absolute ISO8601 or 'N [units] ago': %v", input.End, err)
			}
			cfg.EndTime = t
		}
	}

	// --- Granularity ---
	cfg.Granularity = time.Hour
	if input.Granularity != "" {
		g, err := ParseGranularity(input.Granularity)
		if err != nil {
			return err
		}
		cfg.Granularity = g
	}

	// --- Final Validation ---
	if !cfg.StartTime.IsZero() && !cfg.EndTime.IsZero() && cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}

	return nil
}

// processDetectionKnobs validates the detector tuning parameters.
func processDetectionKnobs(cfg *Config, input *ConfigRawInput) error {
	cfg.Algorithm = schema.DetectionAlgorithm(strings.ToLower(input.Algorithm))
	if _, ok := schema.ValidDetectionAlgorithms[cfg.Algorithm]; !ok {
		return fmt.Errorf("invalid algorithm '%s'. must be zscore, modified_zscore, iqr, moving_average, seasonal", input.Algorithm)
	}

	cfg.ConfidenceMethod = schema.ConfidenceMethod(strings.ToLower(input.ConfidenceMethod))
	if _, ok := schema.ValidConfidenceMethods[cfg.ConfidenceMethod]; !ok {
		return fmt.Errorf("invalid confidence method '%s'. must be statistical, historical, ensemble", input.ConfidenceMethod)
	}

	if input.Threshold <= 0 || input.Threshold > MaxThreshold {
		return fmt.Errorf("threshold must be greater than 0 and cannot exceed %.1f (received %.2f)", MaxThreshold, input.Threshold)
	}
	cfg.ThresholdMultiplier = input.Threshold

	if input.Sensitivity < 1 || input.Sensitivity > 10 {
		return fmt.Errorf("sensitivity must be between 1 and 10 (received %d)", input.Sensitivity)
	}
	cfg.Sensitivity = input.Sensitivity

	if input.MinPoints < 5 {
		return fmt.Errorf("min-points must be at least 5 (received %d)", input.MinPoints)
	}
	cfg.MinimumDataPoints = input.MinPoints

	return nil
}

// processClassifierKnobs validates the classifier and insight parameters.
func processClassifierKnobs(cfg *Config, input *ConfigRawInput) error {
	if input.SustainedHours <= 0 {
		return fmt.Errorf("sustained-hours must be positive (received %.2f)", input.SustainedHours)
	}
	cfg.SustainedHours = input.SustainedHours

	if input.IntermittentCount < 2 {
		return fmt.Errorf("intermittent-count must be at least 2 (received %d)", input.IntermittentCount)
	}
	cfg.IntermittentCount = input.IntermittentCount

	if input.DegradationRate <= 0 {
		return fmt.Errorf("degradation-rate must be positive (received %.3f)", input.DegradationRate)
	}
	cfg.DegradationPerHour = input.DegradationRate

	if input.EnergyRate <= 0 {
		return fmt.Errorf("energy-rate must be positive (received %.3f)", input.EnergyRate)
	}
	cfg.EnergyRatePerKWh = input.EnergyRate

	if input.PeakWindowHours < 1 || input.PeakWindowHours > 12 {
		return fmt.Errorf("peak-window must be between 1 and 12 hours (received %d)", input.PeakWindowHours)
	}
	cfg.PeakWindowHours = input.PeakWindowHours

	return nil
}

// processBaselines overlays config file ranges onto the defaults.
func processBaselines(cfg *Config, input *ConfigRawInput) error {
	cfg.Baselines = schema.DefaultBaselines()

	for name, raw := range input.Baselines {
		eq := schema.EquipmentType(name)
		if _, ok := schema.DefaultCriticalityTable()[eq]; !ok {
			return fmt.Errorf("unknown equipment type '%s' in baselines config", name)
		}
		rng := cfg.Baselines[eq]
		if raw.Min != nil {
			rng.Min = *raw.Min
		}
		if raw.Max != nil {
			rng.Max = *raw.Max
		}
		if rng.Min >= rng.Max {
			return fmt.Errorf("baseline for %s must have min < max (received %.2f >= %.2f)", name, rng.Min, rng.Max)
		}
		cfg.Baselines[eq] = rng
	}
	return nil
}

// processCriticality overlays config file criticality onto the defaults.
func processCriticality(cfg *Config, input *ConfigRawInput) error {
	cfg.Criticality = schema.DefaultCriticalityTable()

	for name, value := range input.Criticality {
		eq := schema.EquipmentType(name)
		if _, ok := cfg.Criticality[eq]; !ok {
			return fmt.Errorf("unknown equipment type '%s' in criticality config", name)
		}
		if value < 0 || value > 100 {
			return fmt.Errorf("criticality for %s must be between 0 and 100 (received %.2f)", name, value)
		}
		cfg.Criticality[eq] = value
	}
	return nil
}

// resolveInputPath resolves and verifies the readings file path. An empty
// path is allowed for commands that do not read sensor data.
func resolveInputPath(cfg *Config, input *ConfigRawInput) error {
	if input.InputPathStr == "" {
		return nil
	}

	absPath, err := filepath.Abs(input.InputPathStr)
	if err != nil {
		return err
	}
	absPath = filepath.Clean(absPath)

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("cannot read input file %s: %w", input.InputPathStr, err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path %s is a directory, expected a CSV or JSON file", input.InputPathStr)
	}

	cfg.InputPath = absPath
	return nil
}
