package server

import "github.com/ironsheep/page-autocrop/internal/autocrop"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// configSchema describes the optional autocrop tuning object. Omitted fields
// keep their defaults.
func configSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Optional autocrop tuning. Omitted fields use the defaults.",
		"properties": map[string]interface{}{
			"scan_steps": map[string]interface{}{
				"type":        "integer",
				"description": "Evenly spaced sample positions per edge",
				"default":     autocrop.DefaultScanSteps,
				"minimum":     1,
			},
			"pixel_count": map[string]interface{}{
				"type":        "integer",
				"description": "Pixels sampled inward from the edge at each position",
				"default":     autocrop.DefaultPixelCount,
				"minimum":     1,
			},
			"filled_ratio_limit": map[string]interface{}{
				"type":        "number",
				"description": "Fraction of a line that must differ from the background to count as content",
				"default":     autocrop.DefaultFilledRatioLimit,
				"minimum":     0,
				"maximum":     1,
			},
			"similarity_threshold": map[string]interface{}{
				"type":        "number",
				"description": "Colour distance threshold; 0.5 treats channel sums under 128 apart as equal",
				"default":     autocrop.DefaultSimilarityThreshold,
				"minimum":     0,
				"maximum":     1,
			},
			"margin": map[string]interface{}{
				"type":        "integer",
				"description": "Pixels kept outside the detected content",
				"default":     autocrop.DefaultMargin,
				"minimum":     0,
			},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Inspection
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate. Useful for checking what the border color of a page is.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_crop",
			Description: "Crop an explicit rectangular region from an image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Automatic border crop
		{
			Name:        "image_detect_borders",
			Description: "Detect the uniform border around a page image without cropping. Returns the background color of each edge, the content boundaries and the crop rectangle that image_autocrop would apply.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"config": configSchema(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_autocrop",
			Description: "Remove the uniform border around a page image. Returns the cropped image as base64 (PNG when cropped, the original bytes when nothing was cropped) and optionally writes it to output_path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the result to",
					},
					"config": configSchema(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_autocrop_preview",
			Description: "Render the page with the detected content outlined and the area an autocrop would discard darkened. Returns base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"config": configSchema(),
					"content_color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color of the detected content (hex)",
						"default":     "#00C000",
					},
					"crop_color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color of the crop rectangle (hex)",
						"default":     "#FF0000",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_autocrop_batch",
			Description: "Autocrop many page images concurrently and write the results to output_dir. Directories are expanded to their image files. Returns a per-status summary and every job's outcome.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"inputs": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Image files or directories to crop",
					},
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory of images to crop, added to inputs",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory the cropped images are written to",
					},
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Number of concurrent workers. Default is the number of CPUs",
					},
					"config": configSchema(),
				},
				"required": []string{"output_dir"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return resultResponse(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}
