package schema

// Custom string types for type safety.
type (
	// Severity is the operational severity of a detected pattern.
	Severity string

	// PatternType is the detector-level shape of an anomaly.
	PatternType string

	// ClassifiedPatternType is the classifier's refined maintenance category.
	ClassifiedPatternType string

	// UrgencyLevel orders maintenance response priority.
	UrgencyLevel string

	// DetectionAlgorithm selects the statistical detection method.
	DetectionAlgorithm string

	// ConfidenceMethod selects the confidence scoring strategy.
	ConfidenceMethod string

	// EquipmentType identifies the building system a sensor belongs to.
	EquipmentType string

	// ErrorKind is the detector's failure taxonomy.
	ErrorKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run tracking.
	DatabaseBackend string
)

// All severities supported. The classifier may escalate but never
// de-escalate the detector's severity.
const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Detector-level pattern types.
const (
	SpikePattern     PatternType = "spike"     // point outlier against the batch distribution
	TrendPattern     PatternType = "trend"     // deviation from a local moving-average window
	SeasonalPattern  PatternType = "seasonal"  // residual outlier after deseasonalizing
	ThresholdPattern PatternType = "threshold" // outside the equipment operating baseline
)

// Classifier-level pattern types. Priority order matters; see core.Classifier.
const (
	CascadeRisk         ClassifiedPatternType = "cascade_risk"
	ThresholdBreach     ClassifiedPatternType = "threshold_breach"
	SustainedFailure    ClassifiedPatternType = "sustained_failure"
	IntermittentFailure ClassifiedPatternType = "intermittent_failure"
	GradualDegradation  ClassifiedPatternType = "gradual_degradation"
	CyclicPattern       ClassifiedPatternType = "cyclic_pattern"
	SuddenSpike         ClassifiedPatternType = "sudden_spike"
)

// Urgency levels, ordered immediate > urgent > scheduled > monitor.
const (
	UrgencyImmediate UrgencyLevel = "immediate"
	UrgencyUrgent    UrgencyLevel = "urgent"
	UrgencyScheduled UrgencyLevel = "scheduled"
	UrgencyMonitor   UrgencyLevel = "monitor"
)

// All detection algorithms supported.
const (
	ZScoreAlgorithm         DetectionAlgorithm = "zscore" // default
	ModifiedZScoreAlgorithm DetectionAlgorithm = "modified_zscore"
	IQRAlgorithm            DetectionAlgorithm = "iqr"
	MovingAverageAlgorithm  DetectionAlgorithm = "moving_average"
	SeasonalAlgorithm       DetectionAlgorithm = "seasonal"
)

// All confidence scoring methods supported.
const (
	StatisticalConfidence ConfidenceMethod = "statistical" // default
	HistoricalConfidence  ConfidenceMethod = "historical"
	EnsembleConfidence    ConfidenceMethod = "ensemble"
)

// Known equipment types. Unknown types fall back to DefaultCriticality.
const (
	FireEquipment     EquipmentType = "Fire"
	PowerEquipment    EquipmentType = "Power"
	SecurityEquipment EquipmentType = "Security"
	HVACEquipment     EquipmentType = "HVAC"
	ElevatorEquipment EquipmentType = "Elevator"
	WaterEquipment    EquipmentType = "Water"
	LightingEquipment EquipmentType = "Lighting"
)

// Detector failure taxonomy. A run with zero patterns is a success, not
// a failure.
const (
	EmptyDataError        ErrorKind = "empty_data"
	InsufficientDataError ErrorKind = "insufficient_data"
	AnalysisFailureError  ErrorKind = "analysis_failure"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run-tracking backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// DefaultCriticality applies to equipment types without a table entry.
const DefaultCriticality = 70.0

// AllDetectionAlgorithms returns a list of all supported algorithms.
var AllDetectionAlgorithms = []DetectionAlgorithm{
	ZScoreAlgorithm, ModifiedZScoreAlgorithm, IQRAlgorithm,
	MovingAverageAlgorithm, SeasonalAlgorithm,
}

// ValidDetectionAlgorithms lists all valid detection algorithms.
var ValidDetectionAlgorithms = map[DetectionAlgorithm]struct{}{
	ZScoreAlgorithm:         {},
	ModifiedZScoreAlgorithm: {},
	IQRAlgorithm:            {},
	MovingAverageAlgorithm:  {},
	SeasonalAlgorithm:       {},
}

// ValidConfidenceMethods lists all valid confidence methods.
var ValidConfidenceMethods = map[ConfidenceMethod]struct{}{
	StatisticalConfidence: {},
	HistoricalConfidence:  {},
	EnsembleConfidence:    {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run-tracking backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSeverities lists all valid severities.
var ValidSeverities = map[Severity]struct{}{
	SeverityInfo:     {},
	SeverityWarning:  {},
	SeverityCritical: {},
}

// DefaultCriticalityTable maps equipment types to business criticality
// (0-100) for risk scoring. Life-safety systems rank highest.
func DefaultCriticalityTable() map[EquipmentType]float64 {
	return map[EquipmentType]float64{
		FireEquipment:     100,
		PowerEquipment:    95,
		SecurityEquipment: 90,
		HVACEquipment:     85,
		ElevatorEquipment: 80,
		WaterEquipment:    75,
		LightingEquipment: 60,
	}
}

// HighCriticalityTypes are equipment types that lower the immediate-urgency
// risk bar from 75 to 70.
var HighCriticalityTypes = map[EquipmentType]struct{}{
	PowerEquipment:    {},
	FireEquipment:     {},
	SecurityEquipment: {},
}

// Rank returns the ordinal position of a severity for escalation checks.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Rank returns the ordinal position of an urgency level.
func (u UrgencyLevel) Rank() int {
	switch u {
	case UrgencyImmediate:
		return 3
	case UrgencyUrgent:
		return 2
	case UrgencyScheduled:
		return 1
	default:
		return 0
	}
}
