// Package ingest loads sensor readings from files into analysis input.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/schema"
)

// NewSource returns a reading source for the given file path, selected by
// extension. Supported formats are CSV and JSON.
func NewSource(path string) (contract.ReadingSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return &csvSource{path: path}, nil
	case ".json":
		return &jsonSource{path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported input format %s, expected .csv or .json", filepath.Ext(path))
	}
}

// csvSource reads readings from a CSV file with a header row. Columns may
// appear in any order; timestamp, sensor_id and value are required.
type csvSource struct {
	path string
}

// Load implements contract.ReadingSource.
func (s *csvSource) Load(filter contract.ReadingFilter) ([]schema.TimeSeriesPoint, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("cannot open readings file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var points []schema.TimeSeriesPoint
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read CSV record: %w", err)
		}
		line++

		point, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if matches(point, filter) {
			points = append(points, point)
		}
	}

	sortPoints(points)
	return points, nil
}

// jsonSource reads readings from a JSON array of reading objects.
type jsonSource struct {
	path string
}

// Load implements contract.ReadingSource.
func (s *jsonSource) Load(filter contract.ReadingFilter) ([]schema.TimeSeriesPoint, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("cannot open readings file: %w", err)
	}

	var all []schema.TimeSeriesPoint
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("cannot parse readings JSON: %w", err)
	}

	var points []schema.TimeSeriesPoint
	for _, point := range all {
		if point.SensorID == "" {
			return nil, fmt.Errorf("reading with missing sensor_id")
		}
		if point.Timestamp.IsZero() {
			return nil, fmt.Errorf("reading for sensor %s has no timestamp", point.SensorID)
		}
		if matches(point, filter) {
			points = append(points, point)
		}
	}

	sortPoints(points)
	return points, nil
}

// columnIndexes maps the required and optional CSV columns to positions.
type columnIndexes struct {
	timestamp int
	sensorID  int
	value     int
	equipment int // -1 if absent
	floor     int // -1 if absent
}

func mapColumns(header []string) (columnIndexes, error) {
	cols := columnIndexes{timestamp: -1, sensorID: -1, value: -1, equipment: -1, floor: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "timestamp":
			cols.timestamp = i
		case "sensor_id":
			cols.sensorID = i
		case "value":
			cols.value = i
		case "equipment_type":
			cols.equipment = i
		case "floor_number":
			cols.floor = i
		}
	}
	if cols.timestamp < 0 || cols.sensorID < 0 || cols.value < 0 {
		return cols, fmt.Errorf("CSV header must contain timestamp, sensor_id, value columns (got %v)", header)
	}
	return cols, nil
}

func parseRecord(record []string, cols columnIndexes) (schema.TimeSeriesPoint, error) {
	var point schema.TimeSeriesPoint

	if len(record) <= cols.timestamp || len(record) <= cols.sensorID || len(record) <= cols.value {
		return point, fmt.Errorf("record has %d fields, fewer than the header", len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[cols.timestamp])
	if err != nil {
		return point, fmt.Errorf("invalid timestamp '%s': %w", record[cols.timestamp], err)
	}
	point.Timestamp = ts

	point.SensorID = strings.TrimSpace(record[cols.sensorID])
	if point.SensorID == "" {
		return point, fmt.Errorf("missing sensor_id")
	}

	value, err := strconv.ParseFloat(record[cols.value], 64)
	if err != nil {
		return point, fmt.Errorf("invalid value '%s': %w", record[cols.value], err)
	}
	point.Value = value

	if cols.equipment >= 0 && len(record) > cols.equipment {
		point.EquipmentType = schema.EquipmentType(strings.TrimSpace(record[cols.equipment]))
	}
	if cols.floor >= 0 && len(record) > cols.floor {
		floor, err := strconv.Atoi(strings.TrimSpace(record[cols.floor]))
		if err != nil {
			return point, fmt.Errorf("invalid floor_number '%s': %w", record[cols.floor], err)
		}
		point.FloorNumber = floor
	}

	return point, nil
}

// matches applies the filter to one reading. Zero-valued filter fields
// match everything.
func matches(p schema.TimeSeriesPoint, f contract.ReadingFilter) bool {
	if f.SensorID != "" && p.SensorID != f.SensorID {
		return false
	}
	if f.EquipmentType != "" && p.EquipmentType != f.EquipmentType {
		return false
	}
	if f.FloorNumber != 0 && p.FloorNumber != f.FloorNumber {
		return false
	}
	if !f.StartTime.IsZero() && p.Timestamp.Before(f.StartTime) {
		return false
	}
	if !f.EndTime.IsZero() && p.Timestamp.After(f.EndTime) {
		return false
	}
	return true
}

// sortPoints orders readings chronologically, then by sensor for stability.
func sortPoints(points []schema.TimeSeriesPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Timestamp.Equal(points[j].Timestamp) {
			return points[i].SensorID < points[j].SensorID
		}
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
}
