// Package pipeline wires ingestion, the core engines and the run store
// into the end-to-end operations exposed by the CLI and the MCP server.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/faultline-io/faultline/core"
	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/internal/ingest"
	"github.com/faultline-io/faultline/schema"
)

// RunDetection loads readings, runs the anomaly detector and persists the
// run when a store manager is provided. The result is returned even when
// detection fails so callers can render partial statistics.
func RunDetection(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.AnomalyDetectionResult, time.Duration, error) {
	start := time.Now()

	data, err := loadReadings(cfg)
	if err != nil {
		return schema.AnomalyDetectionResult{}, time.Since(start), err
	}

	detector := core.NewDetector(cfg.DetectionConfig())
	result := detector.DetectAnomalies(ctx, data, cfg.Window())

	if cfg.ResultLimit > 0 && len(result.Patterns) > cfg.ResultLimit {
		result.Patterns = result.Patterns[:cfg.ResultLimit]
	}

	if result.Success && mgr != nil {
		if err := persistRun(mgr, start, cfg, result.Summary.TotalPointsAnalyzed, result.Patterns, nil); err != nil {
			return result, time.Since(start), fmt.Errorf("failed to persist detection run: %w", err)
		}
	}

	return result, time.Since(start), nil
}

// RunClassification runs detection followed by the pattern classifier.
// Persisted pattern rows carry the classification scores.
func RunClassification(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.ClassificationResult, time.Duration, error) {
	start := time.Now()

	data, err := loadReadings(cfg)
	if err != nil {
		return nil, time.Since(start), err
	}

	detector := core.NewDetector(cfg.DetectionConfig())
	result := detector.DetectAnomalies(ctx, data, cfg.Window())
	if !result.Success {
		return nil, time.Since(start), fmt.Errorf("detection failed (%s): %s", result.ErrorKind, result.Error)
	}

	classifier := core.NewClassifier(cfg.ClassifierConfig())
	classified := classifier.ClassifyPatterns(result.Patterns)

	if cfg.ResultLimit > 0 && len(classified) > cfg.ResultLimit {
		classified = classified[:cfg.ResultLimit]
	}

	if mgr != nil {
		if err := persistRun(mgr, start, cfg, result.Summary.TotalPointsAnalyzed, result.Patterns, classified); err != nil {
			return classified, time.Since(start), fmt.Errorf("failed to persist classification run: %w", err)
		}
	}

	return classified, time.Since(start), nil
}

// RunInsights loads readings and produces validated insights plus savings
// scenarios. Insights never touch the run store.
func RunInsights(cfg *contract.Config) ([]schema.ValidatedInsight, []schema.SavingsScenario, time.Duration, error) {
	start := time.Now()

	data, err := loadReadings(cfg)
	if err != nil {
		return nil, nil, time.Since(start), err
	}

	validator := core.NewValidator(cfg.ValidationConfig())
	insights := validator.Insights(data)
	core.SortInsights(insights)
	savings := validator.Savings(data)

	return insights, savings, time.Since(start), nil
}

func loadReadings(cfg *contract.Config) ([]schema.TimeSeriesPoint, error) {
	src, err := ingest.NewSource(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	data, err := src.Load(cfg.Filter())
	if err != nil {
		return nil, fmt.Errorf("failed to load readings from %s: %w", cfg.InputPath, err)
	}
	return data, nil
}

// persistRun writes one detection run with its pattern rows. Classifications
// may be nil for detect-only runs; pattern rows then carry zero scores.
func persistRun(mgr contract.StoreManager, start time.Time, cfg *contract.Config, totalPoints int, patterns []schema.DetectedPattern, classified []schema.ClassificationResult) error {
	store := mgr.GetRunStore()

	runID, err := store.BeginRun(start, configParams(cfg))
	if err != nil {
		return err
	}

	byPattern := make(map[string]schema.ClassificationResult, len(classified))
	for _, c := range classified {
		byPattern[c.PatternID] = c
	}

	for _, p := range patterns {
		if err := store.RecordPattern(runID, p, byPattern[p.ID]); err != nil {
			return err
		}
	}

	return store.EndRun(runID, time.Now(), totalPoints, len(patterns))
}

func configParams(cfg *contract.Config) map[string]any {
	return map[string]any{
		"algorithm":         string(cfg.Algorithm),
		"confidence_method": string(cfg.ConfidenceMethod),
		"threshold":         cfg.ThresholdMultiplier,
		"sensitivity":       cfg.Sensitivity,
		"min_points":        cfg.MinimumDataPoints,
		"workers":           cfg.Workers,
	}
}
