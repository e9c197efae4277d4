package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/faultline-io/faultline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePatterns() []schema.DetectedPattern {
	return []schema.DetectedPattern{
		{
			ID:              "pat-1",
			Timestamp:       time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
			SensorID:        "temp-301",
			EquipmentType:   schema.HVACEquipment,
			FloorNumber:     3,
			PatternType:     schema.SpikePattern,
			Severity:        schema.SeverityWarning,
			ConfidenceScore: 82.5,
			Description:     "Temperature spike above seasonal baseline",
			DataPoints: []schema.PatternDataPoint{
				{Value: 31.0, ExpectedValue: 22.0, Deviation: 9.0, IsAnomaly: true},
				{Value: 22.5, ExpectedValue: 22.0, Deviation: 0.5},
			},
			Metadata: schema.PatternMetadata{
				DetectionAlgorithm: schema.ZScoreAlgorithm,
				ThresholdUsed:      3.0,
			},
		},
	}
}

func sampleClassifications() []schema.ClassificationResult {
	return []schema.ClassificationResult{
		{
			PatternID:          "pat-1",
			SensorID:           "temp-301",
			EquipmentType:      schema.HVACEquipment,
			OriginalType:       schema.SpikePattern,
			ClassifiedType:     schema.SuddenSpike,
			Severity:           schema.SeverityWarning,
			ConfidenceScore:    82.5,
			RiskScore:          68.0,
			FailureProbability: 71.2,
			UrgencyLevel:       schema.UrgencyUrgent,
			Response: schema.RecommendedResponse{
				Within:         8 * time.Hour,
				BusinessImpact: schema.SeverityWarning,
			},
		},
	}
}

func TestWriteJSONResultsForPatterns(t *testing.T) {
	result := schema.AnomalyDetectionResult{
		Success:  true,
		Patterns: samplePatterns(),
		Summary: schema.StatisticalSummary{
			TotalPointsAnalyzed: 2,
			SensorsAnalyzed:     1,
			AnomaliesDetected:   1,
		},
	}

	var buf bytes.Buffer
	err := writeJSONResultsForPatterns(&buf, result)
	require.NoError(t, err)

	var decoded map[string]interface{}
	err = json.Unmarshal(buf.Bytes(), &decoded)
	require.NoError(t, err)

	assert.Equal(t, true, decoded["success"])
	patterns, ok := decoded["patterns"].([]interface{})
	require.True(t, ok)
	require.Len(t, patterns, 1)
	first := patterns[0].(map[string]interface{})
	assert.Equal(t, "temp-301", first["sensor_id"])
	assert.Equal(t, 82.5, first["confidence_score"])
}

func TestWriteCSVResultsForPatterns(t *testing.T) {
	fmtFloat, intFmt := createFormatters(1)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForPatterns(w, samplePatterns(), fmtFloat, intFmt)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2) // header + 1 row

	assert.Contains(t, lines[0], "rank")
	assert.Contains(t, lines[0], "sensor_id")
	assert.Contains(t, lines[0], "anomalies")

	assert.Contains(t, lines[1], "pat-1")
	assert.Contains(t, lines[1], "temp-301")
	assert.Contains(t, lines[1], "82.5")
	assert.Contains(t, lines[1], "zscore")
	// One of the two data points is anomalous
	fields := strings.Split(lines[1], ",")
	assert.Equal(t, "1", fields[8])
	assert.Equal(t, "2", fields[9])
}

func TestWriteJSONResultsForClassifications(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONResultsForClassifications(&buf, sampleClassifications())
	require.NoError(t, err)

	var decoded []map[string]interface{}
	err = json.Unmarshal(buf.Bytes(), &decoded)
	require.NoError(t, err)
	require.Len(t, decoded, 1)

	assert.Equal(t, float64(1), decoded[0]["rank"])
	assert.Equal(t, "High", decoded[0]["risk_label"])
	assert.Equal(t, "sudden_spike", decoded[0]["classified_type"])
	assert.Equal(t, "urgent", decoded[0]["urgency_level"])
}

func TestWriteCSVResultsForClassifications(t *testing.T) {
	fmtFloat, _ := createFormatters(1)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForClassifications(w, sampleClassifications(), fmtFloat)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "classified_type")
	assert.Contains(t, lines[0], "respond_within")

	assert.Contains(t, lines[1], "sudden_spike")
	assert.Contains(t, lines[1], "68.0")
	assert.Contains(t, lines[1], "8h0m0s")
	assert.Contains(t, lines[1], "High")
}

func TestWriteJSONResultsForInsights(t *testing.T) {
	insights := []schema.ValidatedInsight{
		{
			ID:         "ins-1",
			Kind:       schema.TrendInsight,
			SensorID:   "power-101",
			Metric:     "slope_per_hour",
			Value:      0.42,
			LowerBound: 0.3,
			UpperBound: 0.55,
			Confidence: 95.0,
			SampleSize: 96,
			Method:     "linear_regression",
		},
	}
	savings := []schema.SavingsScenario{
		{Name: "conservative", ReductionPercent: 5, AnnualSavings: 1200, LowerBound: 900, UpperBound: 1500, Confidence: 90},
	}

	var buf bytes.Buffer
	err := writeJSONResultsForInsights(&buf, insights, savings)
	require.NoError(t, err)

	var decoded map[string]interface{}
	err = json.Unmarshal(buf.Bytes(), &decoded)
	require.NoError(t, err)

	ins, ok := decoded["insights"].([]interface{})
	require.True(t, ok)
	require.Len(t, ins, 1)
	assert.Equal(t, "trend", ins[0].(map[string]interface{})["kind"])

	sav, ok := decoded["savings_scenarios"].([]interface{})
	require.True(t, ok)
	require.Len(t, sav, 1)
	assert.Equal(t, "conservative", sav[0].(map[string]interface{})["name"])
}

func TestWriteCSVResultsForInsights(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	insights := []schema.ValidatedInsight{
		{
			Kind:        schema.PeakLoadInsight,
			SensorID:    "power-101",
			Metric:      "peak_window_avg",
			Value:       18.25,
			LowerBound:  17.0,
			UpperBound:  19.5,
			Confidence:  92.5,
			SampleSize:  48,
			Method:      "window_scan",
			Caveats:     []string{"short window"},
			GeneratedAt: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		},
	}
	savings := []schema.SavingsScenario{
		{Name: "moderate", ReductionPercent: 10, AnnualSavings: 2400.5, LowerBound: 1800, UpperBound: 3000, Confidence: 85},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForInsights(w, insights, savings, fmtFloat)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + insight + savings

	assert.Contains(t, lines[0], "kind")
	assert.Contains(t, lines[0], "caveats")

	assert.Contains(t, lines[1], "peak_load")
	assert.Contains(t, lines[1], "18.25")
	assert.Contains(t, lines[1], "short window")

	assert.Contains(t, lines[2], "savings")
	assert.Contains(t, lines[2], "2400.50")
	assert.Contains(t, lines[2], "cost_projection")
}

func TestWriteCSVResultsForRuns(t *testing.T) {
	end := time.Date(2026, 3, 10, 12, 5, 0, 0, time.UTC)
	durationMs := int32(4500)
	runs := []schema.DetectionRunRecord{
		{
			RunID:            7,
			StartTime:        time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
			EndTime:          &end,
			RunDurationMs:    &durationMs,
			TotalPoints:      960,
			PatternsDetected: 3,
		},
		{
			RunID:     8,
			StartTime: time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC),
			// Still running, nullable fields empty
		},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForRuns(w, runs)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "run_id")
	assert.Contains(t, lines[0], "patterns_detected")

	assert.Contains(t, lines[1], "7")
	assert.Contains(t, lines[1], "4500")
	assert.Contains(t, lines[1], "960")

	fields := strings.Split(lines[2], ",")
	assert.Equal(t, "8", fields[0])
	assert.Empty(t, fields[2]) // no end time
	assert.Empty(t, fields[3]) // no duration
}
