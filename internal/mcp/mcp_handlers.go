package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/internal/pipeline"
	"github.com/faultline-io/faultline/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// applyCommonArgs overlays tool arguments shared by the detection-based
// tools onto a cloned config.
func applyCommonArgs(cfg *contract.Config, request mcp.CallToolRequest) error {
	cfg.InputPath = request.GetString("input", "")
	if cfg.InputPath == "" {
		return fmt.Errorf("input is required")
	}
	if s := request.GetString("sensor", ""); s != "" {
		cfg.SensorFilter = s
	}
	if eq := request.GetString("equipment", ""); eq != "" {
		cfg.EquipmentFilter = schema.EquipmentType(eq)
		if _, ok := schema.DefaultCriticalityTable()[cfg.EquipmentFilter]; !ok {
			return fmt.Errorf("unknown equipment type '%s'", eq)
		}
	}
	if a := request.GetString("algorithm", ""); a != "" {
		cfg.Algorithm = schema.DetectionAlgorithm(a)
		if _, ok := schema.ValidDetectionAlgorithms[cfg.Algorithm]; !ok {
			return fmt.Errorf("invalid algorithm '%s'", a)
		}
	}
	if th := request.GetFloat("threshold", 0); th > 0 {
		cfg.ThresholdMultiplier = th
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	return nil
}

func (h *toolHandler) handleDetectAnomalies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommonArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid detection parameters: %v", err)), nil
	}

	result, _, err := pipeline.RunDetection(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("detection failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClassifyPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommonArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid classification parameters: %v", err)), nil
	}

	classified, _, err := pipeline.RunClassification(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(classified, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetInsights(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.InputPath = request.GetString("input", "")
	if cfg.InputPath == "" {
		return mcp.NewToolResultError("invalid insight parameters: input is required"), nil
	}
	if s := request.GetString("sensor", ""); s != "" {
		cfg.SensorFilter = s
	}
	if rate := request.GetFloat("energy_rate", 0); rate > 0 {
		cfg.EnergyRatePerKWh = rate
	}

	insights, savings, _, err := pipeline.RunInsights(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("insight generation failed: %v", err)), nil
	}

	output := struct {
		Insights []schema.ValidatedInsight `json:"insights"`
		Savings  []schema.SavingsScenario  `json:"savings_scenarios"`
	}{Insights: insights, Savings: savings}

	jsonData, _ := json.MarshalIndent(output, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
