package core

import (
	"fmt"
	"time"

	"github.com/faultline-io/faultline/schema"
)

// fixedClock always returns the same instant.
type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

// seqIDs produces deterministic sequential IDs.
type seqIDs struct {
	n int
}

func (s *seqIDs) NewID(prefix string) string {
	s.n++
	return fmt.Sprintf("%s-%04d", prefix, s.n)
}

var testStart = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

// makeReadings builds an hourly series for one sensor from a value function.
func makeReadings(sensorID string, eq schema.EquipmentType, n int, value func(i int) float64) []schema.TimeSeriesPoint {
	points := make([]schema.TimeSeriesPoint, n)
	for i := range points {
		points[i] = schema.TimeSeriesPoint{
			Timestamp:     testStart.Add(time.Duration(i) * time.Hour),
			Value:         value(i),
			SensorID:      sensorID,
			EquipmentType: eq,
			FloorNumber:   3,
		}
	}
	return points
}

// testWindow covers any series makeReadings produces.
func testWindow() schema.AnalysisWindow {
	return schema.AnalysisWindow{
		StartTime:   testStart,
		EndTime:     testStart.Add(200 * time.Hour),
		Granularity: time.Hour,
	}
}

// newTestDetector builds a detector with deterministic clock and IDs.
func newTestDetector(cfg schema.DetectionConfig) *Detector {
	return NewDetectorWithDeps(cfg, fixedClock{at: testStart}, &seqIDs{})
}
