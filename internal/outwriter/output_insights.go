package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintInsightResults outputs validated insights and savings scenarios,
// dispatching based on the output format configured.
func PrintInsightResults(insights []schema.ValidatedInsight, savings []schema.SavingsScenario, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForInsights(insights, savings, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForInsights(insights, savings, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for insights, use text, csv or json")
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printInsightTables(insights, savings, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// printJSONResultsForInsights handles opening the file and calling the JSON writer.
func printJSONResultsForInsights(insights []schema.ValidatedInsight, savings []schema.SavingsScenario, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForInsights(w, insights, savings)
	}, "Wrote JSON insight results")
}

// printCSVResultsForInsights handles opening the file and calling the CSV writer.
func printCSVResultsForInsights(insights []schema.ValidatedInsight, savings []schema.SavingsScenario, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForInsights(csvWriter, insights, savings, fmtFloat)
	}, "Wrote CSV insight results")
}

// printInsightTables prints the insight table followed by the savings table.
func printInsightTables(insights []schema.ValidatedInsight, savings []schema.SavingsScenario, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, headerTitle(cfg, "📊", "Validated Insights")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Kind", "Sensor", "Metric", "Value", "Bounds", "Conf", "Caveats"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, ins := range insights {
		row := []string{
			string(ins.Kind),
			ins.SensorID,
			ins.Metric,
			fmtFloat(ins.Value),
			fmt.Sprintf("[%s, %s]", fmtFloat(ins.LowerBound), fmtFloat(ins.UpperBound)),
			fmtFloat(ins.Confidence),
			contract.TruncateText(strings.Join(ins.Caveats, "; "), getMaxTableDescWidth(cfg)),
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(savings) > 0 {
		if _, err := fmt.Fprintln(writer, headerTitle(cfg, "💰", "Savings Scenarios")); err != nil {
			return err
		}

		savingsTable := tablewriter.NewWriter(writer)
		savingsTable.Header([]string{"Scenario", "Reduction", "Annual Savings", "Bounds", "Conf"})
		savingsTable.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})

		var savingsData [][]string
		for _, s := range savings {
			row := []string{
				s.Name,
				fmt.Sprintf("%s%%", fmtFloat(s.ReductionPercent)),
				fmtFloat(s.AnnualSavings),
				fmt.Sprintf("[%s, %s]", fmtFloat(s.LowerBound), fmtFloat(s.UpperBound)),
				fmtFloat(s.Confidence),
			}
			savingsData = append(savingsData, row)
		}
		if err := savingsTable.Bulk(savingsData); err != nil {
			return err
		}
		if err := savingsTable.Render(); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Generated %d insights and %d savings scenarios in %v\n", len(insights), len(savings), duration); err != nil {
		return err
	}
	return nil
}
