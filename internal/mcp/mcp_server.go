// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Faultline MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Faultline Detection Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: detect_anomalies ---
	s.AddTool(mcp.NewTool("detect_anomalies",
		mcp.WithDescription("Run statistical anomaly detection over building sensor readings."),
		mcp.WithString("input", mcp.Description("Path to the readings file (CSV or JSON)."), mcp.Required()),
		mcp.WithString("sensor", mcp.Description("Restrict analysis to one sensor ID.")),
		mcp.WithString("equipment", mcp.Description("Restrict analysis to one equipment type (e.g. HVAC, Power, Fire).")),
		mcp.WithString("algorithm", mcp.Description("Detection algorithm. Defaults to 'zscore'."), mcp.Enum("zscore", "modified_zscore", "iqr", "moving_average", "seasonal")),
		mcp.WithNumber("threshold", mcp.Description("Deviation threshold multiplier (e.g. 3.0 standard deviations).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of patterns returned.")),
	), h.handleDetectAnomalies)

	// --- 2. Tool: classify_patterns ---
	s.AddTool(mcp.NewTool("classify_patterns",
		mcp.WithDescription("Detect anomalies and classify them into failure patterns with risk scores and response windows."),
		mcp.WithString("input", mcp.Description("Path to the readings file (CSV or JSON)."), mcp.Required()),
		mcp.WithString("sensor", mcp.Description("Restrict analysis to one sensor ID.")),
		mcp.WithString("equipment", mcp.Description("Restrict analysis to one equipment type.")),
		mcp.WithString("algorithm", mcp.Description("Detection algorithm."), mcp.Enum("zscore", "modified_zscore", "iqr", "moving_average", "seasonal")),
		mcp.WithNumber("threshold", mcp.Description("Deviation threshold multiplier.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of classifications returned.")),
	), h.handleClassifyPatterns)

	// --- 3. Tool: get_insights ---
	s.AddTool(mcp.NewTool("get_insights",
		mcp.WithDescription("Generate validated insights and savings scenarios from sensor readings."),
		mcp.WithString("input", mcp.Description("Path to the readings file (CSV or JSON)."), mcp.Required()),
		mcp.WithString("sensor", mcp.Description("Restrict analysis to one sensor ID.")),
		mcp.WithNumber("energy_rate", mcp.Description("Energy rate per kWh for savings projections.")),
	), h.handleGetInsights)

	return s
}

// StartMCPServer starts the Faultline MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
