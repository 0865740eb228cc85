package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/page-autocrop/internal/autocrop"
	"github.com/ironsheep/page-autocrop/internal/batch"
	"github.com/ironsheep/page-autocrop/internal/imaging"
	"github.com/ironsheep/page-autocrop/internal/log"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_autocrop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Debugf("tool %s failed: %v", params.Name, err)
		return errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return resultResponse(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": mustMarshalJSON(result),
			},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Inspection
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_crop":
		return s.handleImageCrop(args)

	// Automatic border crop
	case "image_detect_borders":
		return s.handleDetectBorders(args)
	case "image_autocrop":
		return s.handleAutoCrop(args)
	case "image_autocrop_preview":
		return s.handleAutoCropPreview(args)
	case "image_autocrop_batch":
		return s.handleAutoCropBatch(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// configArgs is the optional tuning object accepted by the autocrop tools.
// Nil fields keep their defaults so that zero is a legal override.
type configArgs struct {
	ScanSteps           *int     `json:"scan_steps"`
	PixelCount          *int     `json:"pixel_count"`
	FilledRatioLimit    *float64 `json:"filled_ratio_limit"`
	SimilarityThreshold *float64 `json:"similarity_threshold"`
	Margin              *int     `json:"margin"`
}

// config applies the overrides to the default tuning and validates it.
func (c *configArgs) config() (autocrop.Config, error) {
	cfg := autocrop.DefaultConfig()
	if c == nil {
		return cfg, nil
	}
	if c.ScanSteps != nil {
		cfg.ScanSteps = *c.ScanSteps
	}
	if c.PixelCount != nil {
		cfg.PixelCount = *c.PixelCount
	}
	if c.FilledRatioLimit != nil {
		cfg.FilledRatioLimit = *c.FilledRatioLimit
	}
	if c.SimilarityThreshold != nil {
		cfg.SimilarityThreshold = *c.SimilarityThreshold
	}
	if c.Margin != nil {
		cfg.Margin = *c.Margin
	}
	return cfg, cfg.Validate()
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Inspection Handlers ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

// === Automatic Border Crop Handlers ===

type autoCropArgs struct {
	Path       string      `json:"path"`
	OutputPath string      `json:"output_path"`
	Config     *configArgs `json:"config"`
}

// DetectBordersResult is the border analysis of one image.
type DetectBordersResult struct {
	Width        int                 `json:"width"`
	Height       int                 `json:"height"`
	Backgrounds  map[string]string   `json:"backgrounds"`
	Boundaries   autocrop.Boundaries `json:"boundaries"`
	CropRect     autocrop.Rect       `json:"crop_rect"`
	Cropped      bool                `json:"cropped"`
	OutputWidth  int                 `json:"output_width"`
	OutputHeight int                 `json:"output_height"`
}

func newDetectBordersResult(a *autocrop.Analysis) *DetectBordersResult {
	w, h := a.OutputSize()
	return &DetectBordersResult{
		Width:        a.Width,
		Height:       a.Height,
		Backgrounds:  a.BackgroundHex(),
		Boundaries:   a.Boundaries,
		CropRect:     a.CropRect,
		Cropped:      a.Cropped,
		OutputWidth:  w,
		OutputHeight: h,
	}
}

func (s *Server) handleDetectBorders(args json.RawMessage) (interface{}, error) {
	var a autoCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.Config.config()
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	analysis, err := autocrop.AnalyzeImage(img, cfg)
	if err != nil {
		return nil, err
	}
	return newDetectBordersResult(analysis), nil
}

// AutoCropResult carries the cropped image and how it was derived.
type AutoCropResult struct {
	*DetectBordersResult

	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`

	// OutputPath is set when the result was written to disk.
	OutputPath string `json:"output_path,omitempty"`
}

func (s *Server) handleAutoCrop(args json.RawMessage) (interface{}, error) {
	var a autoCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	cfg, err := a.Config.config()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	out, analysis, err := autocrop.AutoCrop(data, cfg)
	if err != nil {
		return nil, err
	}

	format, err := imaging.DetectFormat(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}

	result := &AutoCropResult{
		DetectBordersResult: newDetectBordersResult(analysis),
		ImageBase64:         base64.StdEncoding.EncodeToString(out),
		MimeType:            "image/" + format,
	}

	if a.OutputPath != "" {
		if err := os.WriteFile(a.OutputPath, out, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
		s.cache.Evict(a.OutputPath)
		result.OutputPath = a.OutputPath
		log.Infof("autocrop: %s -> %s (%dx%d)", a.Path, a.OutputPath, result.OutputWidth, result.OutputHeight)
	}
	return result, nil
}

type autoCropPreviewArgs struct {
	Path         string      `json:"path"`
	Config       *configArgs `json:"config"`
	ContentColor string      `json:"content_color"`
	CropColor    string      `json:"crop_color"`
}

// AutoCropPreviewResult is the overlay together with the analysis it shows.
type AutoCropPreviewResult struct {
	*imaging.OverlayResult
	Detection *DetectBordersResult `json:"detection"`
}

func (s *Server) handleAutoCropPreview(args json.RawMessage) (interface{}, error) {
	var a autoCropPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.Config.config()
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	analysis, err := autocrop.AnalyzeImage(img, cfg)
	if err != nil {
		return nil, err
	}

	var content image.Rectangle
	if analysis.Boundaries.Valid() {
		content = analysis.Boundaries.Rect()
	}
	overlay, err := imaging.DrawBoundaries(img, content, analysis.CropRect.Image(), a.ContentColor, a.CropColor)
	if err != nil {
		return nil, err
	}
	return &AutoCropPreviewResult{
		OverlayResult: overlay,
		Detection:     newDetectBordersResult(analysis),
	}, nil
}

type autoCropBatchArgs struct {
	Inputs    []string    `json:"inputs"`
	Dir       string      `json:"dir"`
	OutputDir string      `json:"output_dir"`
	Workers   int         `json:"workers"`
	Config    *configArgs `json:"config"`
}

// AutoCropBatchResult reports the outcome of a batch run.
type AutoCropBatchResult struct {
	Status   batch.Status   `json:"status"`
	Progress batch.Progress `json:"progress"`
	Jobs     []batch.Job    `json:"jobs"`
}

func (s *Server) handleAutoCropBatch(args json.RawMessage) (interface{}, error) {
	var a autoCropBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputDir == "" {
		return nil, errors.New("output_dir is required")
	}
	paths := a.Inputs
	if a.Dir != "" {
		paths = append(paths, a.Dir)
	}
	if len(paths) == 0 {
		return nil, errors.New("inputs or dir is required")
	}

	cfg, err := a.Config.config()
	if err != nil {
		return nil, err
	}
	jobs, err := batch.PlanPaths(paths, a.OutputDir)
	if err != nil {
		return nil, err
	}
	runner, err := batch.NewRunner(cfg, a.Workers)
	if err != nil {
		return nil, err
	}
	tracker, err := runner.Run(context.Background(), jobs)
	if err != nil {
		return nil, err
	}

	for _, j := range tracker.Jobs() {
		if j.Output != "" {
			s.cache.Evict(j.Output)
		}
	}
	return &AutoCropBatchResult{
		Status:   tracker.Summary(),
		Progress: tracker.Progress(),
		Jobs:     tracker.Jobs(),
	}, nil
}
