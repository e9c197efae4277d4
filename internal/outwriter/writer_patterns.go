package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/schema"
)

// writeJSONResultsForPatterns marshals the full detection result to JSON and writes it.
func writeJSONResultsForPatterns(w io.Writer, result schema.AnomalyDetectionResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForPatterns writes one CSV row per detected pattern.
func writeCSVResultsForPatterns(w *csv.Writer, patterns []schema.DetectedPattern, fmtFloat func(float64) string, intFmt string) error {
	// 1. Write Header Row
	header := []string{
		"rank",
		"pattern_id",
		"sensor_id",
		"equipment_type",
		"floor",
		"pattern_type",
		"severity",
		"confidence",
		"anomalies",
		"points",
		"algorithm",
		"threshold",
		"detected_at",
		"description",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for i, p := range patterns {
		anomalies := 0
		for _, dp := range p.DataPoints {
			if dp.IsAnomaly {
				anomalies++
			}
		}
		row := []string{
			strconv.Itoa(i + 1),
			p.ID,
			p.SensorID,
			string(p.EquipmentType),
			fmt.Sprintf(intFmt, p.FloorNumber),
			string(p.PatternType),
			string(p.Severity),
			fmtFloat(p.ConfidenceScore),
			fmt.Sprintf(intFmt, anomalies),
			fmt.Sprintf(intFmt, len(p.DataPoints)),
			string(p.Metadata.DetectionAlgorithm),
			fmtFloat(p.Metadata.ThresholdUsed),
			p.Timestamp.Format(contract.DateTimeFormat),
			p.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
