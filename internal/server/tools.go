package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: "image_select",
			Description: "Select a file and classify it as an image. Omit path to clear the selection. " +
				"Returns the status (selected, not_image, file_error, not_selected), its message, and for images the pixel size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the selected file. Empty or missing means no file.",
					},
					"wait": map[string]interface{}{
						"type":        "boolean",
						"description": "Wait for the selection to resolve. When false, returns immediately with pending=true and sends a notifications/image/status message later. Default true",
						"default":     true,
					},
					"include_content": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the file as a base64 data URL when it is an image. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "image_status",
			Description: "Get the current selection status. While a selection is still loading, pending is true and the previous status is returned.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"include_content": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the file as a base64 data URL when it is an image. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "image_display",
			Description: "Render the currently selected image for display as base64-encoded PNG, downscaled to the display bounds (400x500 by default).",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
