package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestNewSource checks format selection by file extension.
func TestNewSource(t *testing.T) {
	src, err := NewSource("readings.csv")
	assert.NoError(t, err)
	assert.IsType(t, &csvSource{}, src)

	src, err = NewSource("readings.JSON")
	assert.NoError(t, err)
	assert.IsType(t, &jsonSource{}, src)

	_, err = NewSource("readings.xml")
	assert.Error(t, err)
}

// TestCSVSourceLoad covers parsing, column reordering, and filtering.
func TestCSVSourceLoad(t *testing.T) {
	content := `sensor_id,value,timestamp,equipment_type,floor_number
temp-301,22.5,2026-03-01T10:00:00Z,HVAC,3
temp-301,23.1,2026-03-01T11:00:00Z,HVAC,3
power-101,4200,2026-03-01T10:00:00Z,Power,1
temp-502,19.8,2026-03-01T10:00:00Z,HVAC,5
`
	path := writeTempFile(t, "readings.csv", content)
	src, err := NewSource(path)
	require.NoError(t, err)

	t.Run("no filter loads everything sorted", func(t *testing.T) {
		points, err := src.Load(contract.ReadingFilter{})
		require.NoError(t, err)
		require.Len(t, points, 4)
		// Chronological, sensor ID breaks the tie at 10:00.
		assert.Equal(t, "power-101", points[0].SensorID)
		assert.Equal(t, "temp-301", points[1].SensorID)
		assert.Equal(t, "temp-502", points[2].SensorID)
		assert.Equal(t, 23.1, points[3].Value)
		assert.Equal(t, schema.EquipmentType("Power"), points[0].EquipmentType)
		assert.Equal(t, 1, points[0].FloorNumber)
	})

	t.Run("sensor filter", func(t *testing.T) {
		points, err := src.Load(contract.ReadingFilter{SensorID: "temp-301"})
		require.NoError(t, err)
		assert.Len(t, points, 2)
	})

	t.Run("equipment filter", func(t *testing.T) {
		points, err := src.Load(contract.ReadingFilter{EquipmentType: schema.PowerEquipment})
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, "power-101", points[0].SensorID)
	})

	t.Run("floor filter", func(t *testing.T) {
		points, err := src.Load(contract.ReadingFilter{FloorNumber: 5})
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, "temp-502", points[0].SensorID)
	})

	t.Run("time window filter", func(t *testing.T) {
		points, err := src.Load(contract.ReadingFilter{
			StartTime: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, 23.1, points[0].Value)
	})
}

// TestCSVSourceErrors covers malformed files.
func TestCSVSourceErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "missing required column",
			content: "sensor_id,value\na,1\n",
			errText: "must contain timestamp",
		},
		{
			name:    "bad timestamp",
			content: "timestamp,sensor_id,value\nnot-a-time,a,1\n",
			errText: "invalid timestamp",
		},
		{
			name:    "bad value",
			content: "timestamp,sensor_id,value\n2026-03-01T10:00:00Z,a,NaN-ish\n",
			errText: "invalid value",
		},
		{
			name:    "empty sensor id",
			content: "timestamp,sensor_id,value\n2026-03-01T10:00:00Z, ,1\n",
			errText: "missing sensor_id",
		},
		{
			name:    "bad floor",
			content: "timestamp,sensor_id,value,floor_number\n2026-03-01T10:00:00Z,a,1,three\n",
			errText: "invalid floor_number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "bad.csv", tt.content)
			src, err := NewSource(path)
			require.NoError(t, err)

			_, err = src.Load(contract.ReadingFilter{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

// TestJSONSourceLoad covers the JSON array format.
func TestJSONSourceLoad(t *testing.T) {
	content := `[
		{"timestamp": "2026-03-01T10:00:00Z", "value": 22.5, "sensor_id": "temp-301", "equipment_type": "HVAC", "floor_number": 3},
		{"timestamp": "2026-03-01T11:00:00Z", "value": 4100, "sensor_id": "power-101", "equipment_type": "Power", "floor_number": 1}
	]`
	path := writeTempFile(t, "readings.json", content)
	src, err := NewSource(path)
	require.NoError(t, err)

	points, err := src.Load(contract.ReadingFilter{})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "temp-301", points[0].SensorID)
	assert.Equal(t, schema.HVACEquipment, points[0].EquipmentType)

	points, err = src.Load(contract.ReadingFilter{EquipmentType: schema.PowerEquipment})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 4100.0, points[0].Value)
}

// TestJSONSourceErrors covers malformed JSON inputs.
func TestJSONSourceErrors(t *testing.T) {
	t.Run("not an array", func(t *testing.T) {
		path := writeTempFile(t, "bad.json", `{"timestamp": "x"}`)
		src, err := NewSource(path)
		require.NoError(t, err)
		_, err = src.Load(contract.ReadingFilter{})
		assert.Error(t, err)
	})

	t.Run("missing sensor id", func(t *testing.T) {
		path := writeTempFile(t, "bad.json", `[{"timestamp": "2026-03-01T10:00:00Z", "value": 1}]`)
		src, err := NewSource(path)
		require.NoError(t, err)
		_, err = src.Load(contract.ReadingFilter{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing sensor_id")
	})

	t.Run("missing timestamp", func(t *testing.T) {
		path := writeTempFile(t, "bad.json", `[{"sensor_id": "a", "value": 1}]`)
		src, err := NewSource(path)
		require.NoError(t, err)
		_, err = src.Load(contract.ReadingFilter{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no timestamp")
	})

	t.Run("missing file", func(t *testing.T) {
		src, err := NewSource("/nonexistent/readings.json")
		require.NoError(t, err)
		_, err = src.Load(contract.ReadingFilter{})
		assert.Error(t, err)
	})
}
