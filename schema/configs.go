package schema

// Default detection knobs. MinimumDataPoints follows the CLT minimum sample
// size for the normal approximation; ThresholdMultiplier 3.0 covers 99.7%
// of a normal distribution, so exceedance has a <0.3% base rate.
const (
	DefaultThresholdMultiplier = 3.0
	DefaultSensitivity         = 5  // 1 (strict) .. 10 (loose), scales the IQR fence
	DefaultMinimumDataPoints   = 30
	DefaultSeasonalLag         = 24 // hourly data, daily cycle
	DefaultMinSeasonalPoints   = 48 // two full daily cycles
	DefaultDetectionWorkers    = 10
)

// Default classifier knobs.
const (
	DefaultSustainedHours     = 6.0
	DefaultIntermittentCount  = 5
	DefaultDegradationPerHour = 0.1
	DefaultHistoricalAccuracy = 85.0
)

// Default validation knobs.
const (
	DefaultEnergyRatePerKWh = 0.15
	DefaultPeakWindowHours  = 4
)

// Risk score factor weights. They sum to 1.0.
const (
	RiskWeightConfidence  = 0.35
	RiskWeightSeverity    = 0.30
	RiskWeightCriticality = 0.20
	RiskWeightHistory     = 0.15
)

// ValueRange is an equipment operating baseline. Readings outside the range
// are tagged with the threshold pattern type.
type ValueRange struct {
	Min float64 `json:"min" mapstructure:"min"`
	Max float64 `json:"max" mapstructure:"max"`
}

// DetectionConfig holds the tunable parameters for the anomaly detector.
// It is a plain value passed into core.NewDetector; there is no global
// config singleton.
type DetectionConfig struct {
	Algorithm           DetectionAlgorithm
	ConfidenceMethod    ConfidenceMethod
	ThresholdMultiplier float64
	Sensitivity         int
	MinimumDataPoints   int
	SeasonalLag         int
	MinSeasonalPoints   int
	Workers             int

	// Baselines maps equipment types to their expected operating ranges.
	Baselines map[EquipmentType]ValueRange
}

// ClassifierConfig holds the tunable parameters for the pattern classifier.
type ClassifierConfig struct {
	SustainedHours     float64
	IntermittentCount  int
	DegradationPerHour float64

	// Criticality overrides the default per-equipment criticality table.
	Criticality map[EquipmentType]float64
}

// ValidationConfig holds parameters for the insight validation framework.
type ValidationConfig struct {
	EnergyRatePerKWh float64 // used for savings scenarios
	PeakWindowHours  int     // width of the peak-load window
}

// MinConfidenceFloor returns the minimum confidence a raw anomaly hit must
// reach to become a DetectedPattern.
func (c DetectionConfig) MinConfidenceFloor() float64 {
	return c.ThresholdMultiplier * 20
}

// CriticalityFor returns the business criticality for an equipment type.
func (c ClassifierConfig) CriticalityFor(eq EquipmentType) float64 {
	if v, ok := c.Criticality[eq]; ok {
		return v
	}
	return DefaultCriticality
}

// DefaultDetectionConfig returns the documented default detection config.
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		Algorithm:           ZScoreAlgorithm,
		ConfidenceMethod:    StatisticalConfidence,
		ThresholdMultiplier: DefaultThresholdMultiplier,
		Sensitivity:         DefaultSensitivity,
		MinimumDataPoints:   DefaultMinimumDataPoints,
		SeasonalLag:         DefaultSeasonalLag,
		MinSeasonalPoints:   DefaultMinSeasonalPoints,
		Workers:             DefaultDetectionWorkers,
		Baselines:           DefaultBaselines(),
	}
}

// DefaultClassifierConfig returns the documented default classifier config.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		SustainedHours:     DefaultSustainedHours,
		IntermittentCount:  DefaultIntermittentCount,
		DegradationPerHour: DefaultDegradationPerHour,
		Criticality:        DefaultCriticalityTable(),
	}
}

// DefaultValidationConfig returns the documented default validation config.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		EnergyRatePerKWh: DefaultEnergyRatePerKWh,
		PeakWindowHours:  DefaultPeakWindowHours,
	}
}

// DefaultBaselines returns the default operating ranges per equipment type.
// Values are in the native unit of each system's primary sensor.
func DefaultBaselines() map[EquipmentType]ValueRange {
	return map[EquipmentType]ValueRange{
		HVACEquipment:     {Min: 15, Max: 30},    // supply air temperature, C
		PowerEquipment:    {Min: 0, Max: 5000},   // demand, kW
		LightingEquipment: {Min: 0, Max: 1200},   // circuit load, W
		WaterEquipment:    {Min: 1, Max: 8},      // line pressure, bar
		ElevatorEquipment: {Min: 0, Max: 40},     // motor current, A
		FireEquipment:     {Min: 0, Max: 100},    // loop signal, %
		SecurityEquipment: {Min: 0, Max: 100},    // loop signal, %
	}
}
