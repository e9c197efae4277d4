package mcp_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/faultline-io/faultline/internal/contract"
	mcp_internal "github.com/faultline-io/faultline/internal/mcp"
	"github.com/faultline-io/faultline/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseTestConfig() *contract.Config {
	return &contract.Config{
		Algorithm:           schema.ModifiedZScoreAlgorithm,
		ConfidenceMethod:    schema.StatisticalConfidence,
		ThresholdMultiplier: 3.0,
		Sensitivity:         5,
		MinimumDataPoints:   30,
		Workers:             2,
		SustainedHours:      6,
		IntermittentCount:   5,
		DegradationPerHour:  0.1,
		EnergyRatePerKWh:    0.15,
		PeakWindowHours:     4,
		ResultLimit:         25,
		Baselines:           schema.DefaultBaselines(),
	}
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := baseTestConfig()

	// No store manager needed because we test validation errors
	var mgr contract.StoreManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	t.Run("detect_anomalies missing input", func(t *testing.T) {
		res := callTool(t, s, "detect_anomalies", map[string]any{})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "input is required")
	})

	t.Run("detect_anomalies invalid algorithm", func(t *testing.T) {
		res := callTool(t, s, "detect_anomalies", map[string]any{
			"input":     "readings.csv",
			"algorithm": "magic",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid algorithm")
	})

	t.Run("classify_patterns unknown equipment", func(t *testing.T) {
		res := callTool(t, s, "classify_patterns", map[string]any{
			"input":     "readings.csv",
			"equipment": "Submarine",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "unknown equipment type")
	})

	t.Run("get_insights missing input", func(t *testing.T) {
		res := callTool(t, s, "get_insights", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "input is required")
	})
}

func TestMCPServerHandlers_DetectSuccess(t *testing.T) {
	var b strings.Builder
	b.WriteString("timestamp,sensor_id,value,equipment_type,floor_number\n")
	start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	cycle := []float64{460, 480, 500, 520, 540}
	for i := 0; i < 40; i++ {
		value := cycle[i%5]
		if i%8 == 7 {
			value = 1000
		}
		fmt.Fprintf(&b, "%s,power-main,%.1f,Power,1\n", start.Add(time.Duration(i)*time.Hour).Format(time.RFC3339), value)
	}
	path := filepath.Join(t.TempDir(), "readings.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	s := mcp_internal.NewMCPServer(baseTestConfig(), nil)

	res := callTool(t, s, "detect_anomalies", map[string]any{"input": path})
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, `"success": true`)
	assert.Contains(t, text, "power-main")
}
