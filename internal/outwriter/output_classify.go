package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/internal/parquet"
	"github.com/faultline-io/faultline/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintClassificationResults outputs the classification results, dispatching based on the output format configured.
func PrintClassificationResults(results []schema.ClassificationResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForClassifications(results, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForClassifications(results, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetResultsForClassifications(results, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printClassificationTable(results, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// printJSONResultsForClassifications handles opening the file and calling the JSON writer.
func printJSONResultsForClassifications(results []schema.ClassificationResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForClassifications(w, results)
	}, "Wrote JSON classification results")
}

// printCSVResultsForClassifications handles opening the file and calling the CSV writer.
func printCSVResultsForClassifications(results []schema.ClassificationResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForClassifications(csvWriter, results, fmtFloat)
	}, "Wrote CSV classification results")
}

// printParquetResultsForClassifications writes classified patterns as Parquet rows.
func printParquetResultsForClassifications(results []schema.ClassificationResult, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	rows := make([]parquet.PatternScore, len(results))
	for i, r := range results {
		rows[i] = parquet.PatternScore{
			PatternID:          r.PatternID,
			SensorID:           r.SensorID,
			EquipmentType:      string(r.EquipmentType),
			PatternType:        string(r.OriginalType),
			ClassifiedType:     string(r.ClassifiedType),
			Severity:           string(r.Severity),
			ConfidenceScore:    r.ConfidenceScore,
			RiskScore:          r.RiskScore,
			FailureProbability: r.FailureProbability,
			UrgencyLevel:       string(r.UrgencyLevel),
		}
	}
	if err := parquet.WritePatternScoresParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Printf("Wrote %d classifications to %s\n", len(rows), cfg.OutputFile)
	return nil
}

// printClassificationTable generates and writes the human-readable table.
func printClassificationTable(results []schema.ClassificationResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, headerTitle(cfg, "🔧", "Classified Failure Patterns")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Sensor", "Classified", "Severity", "Risk", "Prob", "Urgency", "Respond Within"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	riskLabel := contract.GetPlainLabel
	if cfg.UseColors {
		riskLabel = contract.GetColorLabel
	}

	var data [][]string
	for i, r := range results {
		row := []string{
			strconv.Itoa(i + 1),
			r.SensorID,
			string(r.ClassifiedType),
			contract.GetSeverityLabel(r.Severity, cfg.UseColors),
			fmt.Sprintf("%s (%s)", fmtFloat(r.RiskScore), riskLabel(r.RiskScore)),
			fmtFloat(r.FailureProbability),
			string(r.UrgencyLevel),
			r.Response.Within.String(),
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Classified %d patterns in %v\n", len(results), duration); err != nil {
		return err
	}
	return nil
}
