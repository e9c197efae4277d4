package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/faultline-io/faultline/schema"
)

// Memory model constants for the performance estimate: roughly 100 bytes
// per reading plus a fixed overhead for the result structures.
const (
	bytesPerPoint  = 100
	fixedOverheadB = 50 * 1024
)

// Detector runs statistical anomaly detection over sensor readings.
// Construct once per configuration; safe for concurrent use.
type Detector struct {
	cfg   schema.DetectionConfig
	clock Clock
	ids   IDGenerator
}

// NewDetector returns a Detector with the system clock and UUID identifiers.
func NewDetector(cfg schema.DetectionConfig) *Detector {
	return NewDetectorWithDeps(cfg, SystemClock{}, UUIDGenerator{})
}

// NewDetectorWithDeps injects the clock and ID source, for deterministic tests.
func NewDetectorWithDeps(cfg schema.DetectionConfig, clock Clock, ids IDGenerator) *Detector {
	if cfg.Workers <= 0 {
		cfg.Workers = schema.DefaultDetectionWorkers
	}
	return &Detector{cfg: cfg, clock: clock, ids: ids}
}

// sensorGroup is one sensor's readings, sorted by timestamp.
type sensorGroup struct {
	sensorID string
	points   []schema.TimeSeriesPoint
}

// DetectAnomalies analyzes the readings and returns detected patterns, one
// per sensor with at least one surviving anomaly. A run with zero patterns
// is a success; only empty input, insufficient input or an internal panic
// produce a failed result, and even then the result is populated rather
// than an error return so callers can inspect partial statistics.
func (d *Detector) DetectAnomalies(ctx context.Context, data []schema.TimeSeriesPoint, window schema.AnalysisWindow) (result schema.AnomalyDetectionResult) {
	start := d.clock.Now()
	result.Summary.TotalPointsAnalyzed = len(data)

	defer func() {
		if r := recover(); r != nil {
			result = schema.AnomalyDetectionResult{
				Success:   false,
				Error:     fmt.Sprintf("analysis failure: %v", r),
				ErrorKind: schema.AnalysisFailureError,
				Summary:   schema.StatisticalSummary{TotalPointsAnalyzed: len(data)},
			}
		}
	}()

	if len(data) == 0 {
		result.Error = "No data points provided for analysis"
		result.ErrorKind = schema.EmptyDataError
		return result
	}
	if len(data) < d.cfg.MinimumDataPoints {
		result.Error = fmt.Sprintf("insufficient data: at least %d points required, got %d", d.cfg.MinimumDataPoints, len(data))
		result.ErrorKind = schema.InsufficientDataError
		return result
	}

	groups := groupBySensor(data)

	analyzed := make([]sensorGroup, 0, len(groups))
	for _, g := range groups {
		if len(g.points) < d.cfg.MinimumDataPoints {
			result.Summary.SensorsSkipped++
			continue
		}
		analyzed = append(analyzed, g)
	}
	result.Summary.SensorsAnalyzed = len(analyzed)

	groupCh := make(chan sensorGroup, len(analyzed))
	patternCh := make(chan schema.DetectedPattern, len(analyzed))
	var wg sync.WaitGroup

	for range min(d.cfg.Workers, max(len(analyzed), 1)) {
		wg.Go(func() {
			for g := range groupCh {
				if ctx.Err() != nil {
					continue
				}
				if p, ok := d.analyzeSensor(g, window); ok {
					patternCh <- p
				}
			}
		})
	}

	for _, g := range analyzed {
		groupCh <- g
	}
	close(groupCh)

	wg.Wait()
	close(patternCh)

	for p := range patternCh {
		result.Patterns = append(result.Patterns, p)
	}

	// Channel collection order is nondeterministic; restore sensor order.
	sort.Slice(result.Patterns, func(i, j int) bool {
		return result.Patterns[i].SensorID < result.Patterns[j].SensorID
	})

	for _, p := range result.Patterns {
		for _, dp := range p.DataPoints {
			if dp.IsAnomaly {
				result.Summary.AnomaliesDetected++
			}
		}
		switch {
		case p.ConfidenceScore >= 80:
			result.Summary.Confidence.High++
		case p.ConfidenceScore >= 60:
			result.Summary.Confidence.Medium++
		default:
			result.Summary.Confidence.Low++
		}
	}

	elapsed := d.clock.Now().Sub(start)
	result.Summary.ProcessingTimeMs = float64(elapsed) / float64(time.Millisecond)
	result.Performance = performanceFor(len(data), elapsed)
	result.Success = true
	return result
}

// analyzeSensor runs the configured algorithm on one sensor's readings and
// builds at most one pattern holding every surviving anomaly.
func (d *Detector) analyzeSensor(g sensorGroup, window schema.AnalysisWindow) (schema.DetectedPattern, bool) {
	values := make([]float64, len(g.points))
	for i, p := range g.points {
		values[i] = p.Value
	}

	metrics := ComputeMetrics(values, d.cfg.SeasonalLag)
	hits := d.runAlgorithm(g.points, values, metrics)

	floor := d.cfg.MinConfidenceFloor()
	surviving := hits[:0]
	confidences := make([]float64, 0, len(hits))
	for _, h := range hits {
		conf := d.hitConfidence(h, metrics)
		if conf < floor {
			continue
		}
		surviving = append(surviving, h)
		confidences = append(confidences, conf)
	}
	if len(surviving) == 0 {
		return schema.DetectedPattern{}, false
	}

	anomalous := make(map[int]rawHit, len(surviving))
	for _, h := range surviving {
		anomalous[h.index] = h
	}

	dataPoints := make([]schema.PatternDataPoint, len(g.points))
	for i, p := range g.points {
		dp := schema.PatternDataPoint{
			Timestamp:     p.Timestamp,
			Value:         p.Value,
			ExpectedValue: metrics.Mean,
		}
		if h, ok := anomalous[i]; ok {
			dp.ExpectedValue = h.expected
			dp.Deviation = p.Value - h.expected
			dp.IsAnomaly = true
			dp.SeverityScore = h.ratio
		}
		dataPoints[i] = dp
	}

	var (
		patternConf float64
		severity    = schema.SeverityInfo
		ptype       = surviving[0].ptype
		first       = g.points[surviving[0].index]
	)
	for i, h := range surviving {
		patternConf += confidences[i]
		severity = maxSeverity(severity, severityForRatio(h.ratio))
	}
	patternConf /= float64(len(surviving))

	// An out-of-baseline reading overrides the algorithm's pattern type.
	if rng, ok := d.cfg.Baselines[first.EquipmentType]; ok {
		for _, h := range surviving {
			if v := g.points[h.index].Value; v < rng.Min || v > rng.Max {
				ptype = schema.ThresholdPattern
				break
			}
		}
	}

	return schema.DetectedPattern{
		ID:              d.ids.NewID("pat"),
		Timestamp:       first.Timestamp,
		SensorID:        g.sensorID,
		EquipmentType:   first.EquipmentType,
		FloorNumber:     first.FloorNumber,
		PatternType:     ptype,
		Severity:        severity,
		ConfidenceScore: patternConf,
		Description: fmt.Sprintf("%s analysis flagged %d of %d readings on sensor %s",
			d.cfg.Algorithm, len(surviving), len(g.points), g.sensorID),
		DataPoints:      dataPoints,
		Recommendations: recommendationsFor(ptype, severity),
		CreatedAt:       d.clock.Now(),
		Metadata: schema.PatternMetadata{
			DetectionAlgorithm: d.cfg.Algorithm,
			Window:             window,
			ThresholdUsed:      d.cfg.ThresholdMultiplier,
			Stats:              metrics,
		},
	}, true
}

// groupBySensor partitions readings per sensor, preserving first-seen sensor
// order, and sorts each group by timestamp.
func groupBySensor(data []schema.TimeSeriesPoint) []sensorGroup {
	index := make(map[string]int)
	var groups []sensorGroup
	for _, p := range data {
		i, ok := index[p.SensorID]
		if !ok {
			i = len(groups)
			index[p.SensorID] = i
			groups = append(groups, sensorGroup{sensorID: p.SensorID})
		}
		groups[i].points = append(groups[i].points, p)
	}
	for i := range groups {
		pts := groups[i].points
		sort.Slice(pts, func(a, b int) bool { return pts[a].Timestamp.Before(pts[b].Timestamp) })
	}
	return groups
}

// performanceFor estimates run throughput and memory from point count and
// elapsed time.
func performanceFor(points int, elapsed time.Duration) schema.PerformanceMetrics {
	ms := float64(elapsed) / float64(time.Millisecond)
	var perMs float64
	if ms > 0 {
		perMs = float64(points) / ms
	}
	return schema.PerformanceMetrics{
		PointsPerMs:         perMs,
		EstimatedMemoryMB:   float64(points*bytesPerPoint+fixedOverheadB) / (1024 * 1024),
		ThroughputPerSecond: perMs * 1000,
	}
}

// recommendationsFor maps a pattern shape to maintenance guidance.
func recommendationsFor(ptype schema.PatternType, severity schema.Severity) []string {
	var recs []string
	switch ptype {
	case schema.ThresholdPattern:
		recs = append(recs, "Reading outside equipment operating range; verify sensor calibration and equipment state")
	case schema.TrendPattern:
		recs = append(recs, "Local trend deviation detected; compare against recent maintenance activity")
	case schema.SeasonalPattern:
		recs = append(recs, "Deviation from the daily operating profile; check schedule or occupancy changes")
	default:
		recs = append(recs, "Point outlier detected; inspect for transient faults or data glitches")
	}
	if severity == schema.SeverityCritical {
		recs = append(recs, "Severity critical: schedule an inspection before the next operating cycle")
	}
	return recs
}
