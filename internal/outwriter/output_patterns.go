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

// PrintPatternResults outputs the detection results, dispatching based on the output format configured.
func PrintPatternResults(result schema.AnomalyDetectionResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForPatterns(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForPatterns(result, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetResultsForPatterns(result, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printPatternTable(result, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// printJSONResultsForPatterns handles opening the file and calling the JSON writer.
func printJSONResultsForPatterns(result schema.AnomalyDetectionResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForPatterns(w, result)
	}, "Wrote JSON detection results")
}

// printCSVResultsForPatterns handles opening the file and calling the CSV writer.
func printCSVResultsForPatterns(result schema.AnomalyDetectionResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForPatterns(csvWriter, result.Patterns, fmtFloat, intFmt)
	}, "Wrote CSV detection results")
}

// printParquetResultsForPatterns writes patterns as Parquet rows. The
// classification columns stay zero-valued until classify runs.
func printParquetResultsForPatterns(result schema.AnomalyDetectionResult, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	rows := make([]parquet.PatternScore, len(result.Patterns))
	for i, p := range result.Patterns {
		rows[i] = parquet.PatternScore{
			PatternID:       p.ID,
			SensorID:        p.SensorID,
			EquipmentType:   string(p.EquipmentType),
			DetectedAt:      p.Timestamp,
			PatternType:     string(p.PatternType),
			Severity:        string(p.Severity),
			ConfidenceScore: p.ConfidenceScore,
		}
	}
	if err := parquet.WritePatternScoresParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Printf("Wrote %d patterns to %s\n", len(rows), cfg.OutputFile)
	return nil
}

// printPatternTable generates and writes the human-readable table.
func printPatternTable(result schema.AnomalyDetectionResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if !result.Success {
		if _, err := fmt.Fprintf(writer, "Detection failed (%s): %s\n", result.ErrorKind, result.Error); err != nil {
			return err
		}
		return nil
	}

	if _, err := fmt.Fprintln(writer, headerTitle(cfg, "🚨", "Detected Patterns")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Sensor", "Equipment", "Type", "Severity", "Conf", "Anomalies", "Description"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, p := range result.Patterns {
		anomalies := 0
		for _, dp := range p.DataPoints {
			if dp.IsAnomaly {
				anomalies++
			}
		}
		row := []string{
			strconv.Itoa(i + 1),
			p.SensorID,
			string(p.EquipmentType),
			string(p.PatternType),
			contract.GetSeverityLabel(p.Severity, cfg.UseColors),
			fmtFloat(p.ConfidenceScore),
			strconv.Itoa(anomalies),
			contract.TruncateText(p.Description, getMaxTableDescWidth(cfg)),
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

	s := result.Summary
	if _, err := fmt.Fprintf(writer, "Analyzed %d points across %d sensors (%d skipped), %d anomalies detected\n",
		s.TotalPointsAnalyzed, s.SensorsAnalyzed, s.SensorsSkipped, s.AnomaliesDetected); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Confidence distribution: %d high / %d medium / %d low\n",
		s.Confidence.High, s.Confidence.Medium, s.Confidence.Low); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Detection completed in %v with %d workers. Store backend: %s\n",
		duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}
