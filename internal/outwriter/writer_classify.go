package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/schema"
)

// writeJSONResultsForClassifications marshals the classification results to
// JSON with rank and risk label added.
func writeJSONResultsForClassifications(w io.Writer, results []schema.ClassificationResult) error {
	type JSONClassificationResult struct {
		Rank      int    `json:"rank"`
		RiskLabel string `json:"risk_label"`
		schema.ClassificationResult
	}

	output := make([]JSONClassificationResult, len(results))
	for i, r := range results {
		output[i] = JSONClassificationResult{
			Rank:                 i + 1,
			RiskLabel:            contract.GetPlainLabel(r.RiskScore),
			ClassificationResult: r,
		}
	}

	return writeJSON(w, output)
}

// writeCSVResultsForClassifications writes one CSV row per classified pattern.
func writeCSVResultsForClassifications(w *csv.Writer, results []schema.ClassificationResult, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"rank",
		"pattern_id",
		"sensor_id",
		"equipment_type",
		"original_type",
		"classified_type",
		"severity",
		"confidence",
		"risk_score",
		"risk_label",
		"failure_probability",
		"urgency",
		"respond_within",
		"business_impact",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for i, r := range results {
		row := []string{
			strconv.Itoa(i + 1),
			r.PatternID,
			r.SensorID,
			string(r.EquipmentType),
			string(r.OriginalType),
			string(r.ClassifiedType),
			string(r.Severity),
			fmtFloat(r.ConfidenceScore),
			fmtFloat(r.RiskScore),
			contract.GetPlainLabel(r.RiskScore),
			fmtFloat(r.FailureProbability),
			string(r.UrgencyLevel),
			r.Response.Within.String(),
			string(r.Response.BusinessImpact),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
