package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/schema"
)

// writeJSONResultsForInsights marshals insights and savings into one document.
func writeJSONResultsForInsights(w io.Writer, insights []schema.ValidatedInsight, savings []schema.SavingsScenario) error {
	output := struct {
		Insights []schema.ValidatedInsight `json:"insights"`
		Savings  []schema.SavingsScenario  `json:"savings_scenarios"`
	}{
		Insights: insights,
		Savings:  savings,
	}
	return writeJSON(w, output)
}

// writeCSVResultsForInsights writes insights and savings scenarios as one
// CSV stream. Savings rows reuse the insight columns with kind "savings".
func writeCSVResultsForInsights(w *csv.Writer, insights []schema.ValidatedInsight, savings []schema.SavingsScenario, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"kind",
		"sensor_id",
		"metric",
		"value",
		"lower_bound",
		"upper_bound",
		"confidence",
		"sample_size",
		"method",
		"generated_at",
		"caveats",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Insight Rows
	for _, ins := range insights {
		row := []string{
			string(ins.Kind),
			ins.SensorID,
			ins.Metric,
			fmtFloat(ins.Value),
			fmtFloat(ins.LowerBound),
			fmtFloat(ins.UpperBound),
			fmtFloat(ins.Confidence),
			strconv.Itoa(ins.SampleSize),
			ins.Method,
			ins.GeneratedAt.Format(contract.DateTimeFormat),
			strings.Join(ins.Caveats, "|"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	// 3. Write Savings Rows
	for _, s := range savings {
		row := []string{
			"savings",
			"all",
			s.Name,
			fmtFloat(s.AnnualSavings),
			fmtFloat(s.LowerBound),
			fmtFloat(s.UpperBound),
			fmtFloat(s.Confidence),
			"0",
			"cost_projection",
			"",
			"",
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
