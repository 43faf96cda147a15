package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"github.com/vbonduro/mealvision/internal/logging"
	"github.com/vbonduro/mealvision/internal/service"
)

const analyzeMealTool = "analyze_meal"

type AnalyzeMealParams struct {
	Image       string `json:"image" description:"Meal photo as a data URI or an http(s) URL"`
	Description string `json:"description,omitempty" description:"Extra context about the meal"`
	Detail      string `json:"detail,omitempty" description:"Image fidelity hint: auto, low or high (default low)"`
	Language    string `json:"language,omitempty" description:"Language of food names: en or zh (default en)"`
}

// extractParams converts the request arguments into target.
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal parameters: %w", err)
	}
	return nil
}

// handleMCP answers MCP tools/call requests for the analyze_meal tool.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), s.logger)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	if request.Name != analyzeMealTool {
		http.Error(w, fmt.Sprintf("unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	var params AnalyzeMealParams
	if err := extractParams(&request, &params); err != nil {
		http.Error(w, fmt.Sprintf("invalid parameters: %v", err), http.StatusBadRequest)
		return
	}
	params.Image = strings.TrimSpace(params.Image)
	if params.Image == "" {
		http.Error(w, "image is required", http.StatusBadRequest)
		return
	}

	req := service.NewRequest(params.Image, params.Description, params.Detail, params.Language)
	rec, err := s.service.Recognize(r.Context(), req)
	if err != nil {
		http.Error(w, "failed to analyze image", http.StatusBadGateway)
		logger.Error("meal recognition failed", "tool", analyzeMealTool, "error", err)
		return
	}

	result, err := toolResult(rec)
	if err != nil {
		http.Error(w, "failed to encode result", http.StatusInternalServerError)
		logger.Error("encode tool result failed", "error", err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, result)
}

func toolResult(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
