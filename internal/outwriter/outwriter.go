// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WritePatterns prints detection results using the configured output format.
func (ow *OutWriter) WritePatterns(result schema.AnomalyDetectionResult, cfg *contract.Config, duration time.Duration) error {
	return PrintPatternResults(result, cfg, duration)
}

// WriteClassifications prints classification results using the configured output format.
func (ow *OutWriter) WriteClassifications(results []schema.ClassificationResult, cfg *contract.Config, duration time.Duration) error {
	return PrintClassificationResults(results, cfg, duration)
}

// WriteInsights prints validated insights and savings scenarios using the
// configured output format.
func (ow *OutWriter) WriteInsights(insights []schema.ValidatedInsight, savings []schema.SavingsScenario, cfg *contract.Config, duration time.Duration) error {
	return PrintInsightResults(insights, savings, cfg, duration)
}

// WriteRuns prints persisted run history using the configured output format.
func (ow *OutWriter) WriteRuns(runs []schema.DetectionRunRecord, cfg *contract.Config) error {
	return PrintRunHistory(runs, cfg)
}

// WriteStatus prints run store status using the configured output format.
func (ow *OutWriter) WriteStatus(status schema.StoreStatus, cfg *contract.Config) error {
	return PrintStoreStatus(status, cfg)
}
