package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintBaselines outputs the active detection settings and per-equipment
// operating baselines. No sensor data is read.
func PrintBaselines(cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONBaselines(w, cfg)
		}, "Wrote JSON baselines")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVBaselines(csvWriter, cfg, fmtFloat)
		}, "Wrote CSV baselines")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for baselines, use text, csv or json")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printBaselinesText(cfg, fmtFloat, w)
		}, "Wrote baselines")
	}
}

// sortedEquipment returns equipment names covered by either table.
func sortedEquipment(cfg *contract.Config) []schema.EquipmentType {
	seen := make(map[schema.EquipmentType]struct{})
	for eq := range cfg.Baselines {
		seen[eq] = struct{}{}
	}
	for eq := range cfg.Criticality {
		seen[eq] = struct{}{}
	}
	equipment := make([]schema.EquipmentType, 0, len(seen))
	for eq := range seen {
		equipment = append(equipment, eq)
	}
	sort.Slice(equipment, func(i, j int) bool { return equipment[i] < equipment[j] })
	return equipment
}

func writeJSONBaselines(w io.Writer, cfg *contract.Config) error {
	output := struct {
		Algorithm        schema.DetectionAlgorithm                  `json:"algorithm"`
		ConfidenceMethod schema.ConfidenceMethod                    `json:"confidence_method"`
		Threshold        float64                                    `json:"threshold"`
		Sensitivity      int                                        `json:"sensitivity"`
		MinPoints        int                                        `json:"min_points"`
		Baselines        map[schema.EquipmentType]schema.ValueRange `json:"baselines"`
		Criticality      map[schema.EquipmentType]float64           `json:"criticality"`
	}{
		Algorithm:        cfg.Algorithm,
		ConfidenceMethod: cfg.ConfidenceMethod,
		Threshold:        cfg.ThresholdMultiplier,
		Sensitivity:      cfg.Sensitivity,
		MinPoints:        cfg.MinimumDataPoints,
		Baselines:        cfg.Baselines,
		Criticality:      cfg.Criticality,
	}
	return writeJSON(w, output)
}

func writeCSVBaselines(w *csv.Writer, cfg *contract.Config, fmtFloat func(float64) string) error {
	header := []string{"equipment_type", "min", "max", "criticality"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, eq := range sortedEquipment(cfg) {
		rng := cfg.Baselines[eq]
		criticality := schema.DefaultCriticality
		if v, ok := cfg.Criticality[eq]; ok {
			criticality = v
		}
		row := []string{
			string(eq),
			fmtFloat(rng.Min),
			fmtFloat(rng.Max),
			fmtFloat(criticality),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func printBaselinesText(cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, headerTitle(cfg, "⚙️", "Detection Settings")); err != nil {
		return err
	}

	settings := []string{
		fmt.Sprintf("Algorithm:         %s", cfg.Algorithm),
		fmt.Sprintf("Confidence method: %s", cfg.ConfidenceMethod),
		fmt.Sprintf("Threshold:         %s", fmtFloat(cfg.ThresholdMultiplier)),
		fmt.Sprintf("Sensitivity:       %d", cfg.Sensitivity),
		fmt.Sprintf("Min points:        %d", cfg.MinimumDataPoints),
	}
	for _, line := range settings {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(writer, headerTitle(cfg, "🏷️", "Equipment Baselines")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Equipment", "Min", "Max", "Criticality"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, eq := range sortedEquipment(cfg) {
		rng := cfg.Baselines[eq]
		criticality := schema.DefaultCriticality
		if v, ok := cfg.Criticality[eq]; ok {
			criticality = v
		}
		data = append(data, []string{
			string(eq),
			fmtFloat(rng.Min),
			fmtFloat(rng.Max),
			fmtFloat(criticality),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
