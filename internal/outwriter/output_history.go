package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRunHistory outputs persisted run history, dispatching based on the output format configured.
func PrintRunHistory(runs []schema.DetectionRunRecord, cfg *contract.Config) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON run history")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForRuns(csvWriter, runs)
		}, "Wrote CSV run history")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported here, use the history export command")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printRunHistoryTable(runs, cfg, w)
		}, "Wrote table")
	}
}

// printRunHistoryTable generates and writes the human-readable run table.
func printRunHistoryTable(runs []schema.DetectionRunRecord, cfg *contract.Config, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, headerTitle(cfg, "🕒", "Detection Run History")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Run", "Started", "Duration", "Points", "Patterns"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range runs {
		duration := "running"
		if r.RunDurationMs != nil {
			duration = (time.Duration(*r.RunDurationMs) * time.Millisecond).String()
		}
		row := []string{
			strconv.FormatInt(r.RunID, 10),
			r.StartTime.Format(contract.DateTimeFormat),
			duration,
			strconv.Itoa(int(r.TotalPoints)),
			strconv.Itoa(int(r.PatternsDetected)),
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing %d runs\n", len(runs)); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForRuns writes one CSV row per detection run.
func writeCSVResultsForRuns(w *csv.Writer, runs []schema.DetectionRunRecord) error {
	header := []string{"run_id", "start_time", "end_time", "duration_ms", "total_points", "patterns_detected"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range runs {
		endTime := ""
		if r.EndTime != nil {
			endTime = r.EndTime.Format(contract.DateTimeFormat)
		}
		durationMs := ""
		if r.RunDurationMs != nil {
			durationMs = strconv.Itoa(int(*r.RunDurationMs))
		}
		row := []string{
			strconv.FormatInt(r.RunID, 10),
			r.StartTime.Format(contract.DateTimeFormat),
			endTime,
			durationMs,
			strconv.Itoa(int(r.TotalPoints)),
			strconv.Itoa(int(r.PatternsDetected)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// PrintStoreStatus outputs run store status information.
func PrintStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON store status")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printStoreStatusText(status, cfg, w)
		}, "Wrote store status")
	}
}

// printStoreStatusText prints a plain key-value status summary.
func printStoreStatusText(status schema.StoreStatus, cfg *contract.Config, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, headerTitle(cfg, "🗄️", "Run Store Status")); err != nil {
		return err
	}

	lines := []string{
		fmt.Sprintf("Backend:        %s", status.Backend),
		fmt.Sprintf("Connected:      %t", status.Connected),
		fmt.Sprintf("Total runs:     %d", status.TotalRuns),
		fmt.Sprintf("Total patterns: %d", status.TotalPatterns),
	}
	if status.TotalRuns > 0 {
		lines = append(lines,
			fmt.Sprintf("Last run:       #%d at %s", status.LastRunID, status.LastRunTime.Format(contract.DateTimeFormat)),
			fmt.Sprintf("Oldest run:     %s", status.OldestRunTime.Format(contract.DateTimeFormat)),
		)
	}
	tables := make([]string, 0, len(status.TableSizes))
	for name := range status.TableSizes {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	for _, name := range tables {
		lines = append(lines, fmt.Sprintf("Table %s: %d rows", name, status.TableSizes[name]))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}
	return nil
}
