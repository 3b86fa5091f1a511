package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ironsheep/pgm-vision/internal/edges"
	"github.com/ironsheep/pgm-vision/internal/hough"
	"github.com/ironsheep/pgm-vision/internal/labeling"
	"github.com/ironsheep/pgm-vision/internal/objects"
	"github.com/ironsheep/pgm-vision/internal/photometric"
	"github.com/ironsheep/pgm-vision/internal/raster"
)

// errInvalidArgs marks tool arguments that are malformed or missing. Such
// errors are reported with the JSON-RPC invalid params code.
var errInvalidArgs = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "pgm_label", "pgm_hough_lines").
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
// Bad arguments return code -32602; other tool failures return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if s.cfg.Debug() {
		log.Printf("[DEBUG] %s took %v (err=%v)", params.Name, time.Since(start), err)
	}
	if err != nil {
		if errors.Is(err, errInvalidArgs) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "pgm_info":
		return s.handleInfo(args)
	case "pgm_label":
		return s.handleLabel(args)
	case "pgm_threshold":
		return s.handleThreshold(args)
	case "pgm_properties":
		return s.handleProperties(args)
	case "pgm_recognize":
		return s.handleRecognize(args)
	case "pgm_edges":
		return s.handleEdges(args)
	case "pgm_hough_lines":
		return s.handleHoughLines(args)
	case "pgm_sphere":
		return s.handleSphere(args)
	case "pgm_albedo":
		return s.handleAlbedo(args)
	case "pgm_preview":
		return s.handlePreview(args)
	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArgs, name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments and checks that path is set.
func decodeArgs(args json.RawMessage, v interface{}, path *string) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	if path != nil && *path == "" {
		return fmt.Errorf("%w: path is required", errInvalidArgs)
	}
	return nil
}

// binarize thresholds gray grids. Grids that are already binary are left
// alone. threshold overrides the configured default when non-nil.
func (s *Server) binarize(g *raster.Grid, threshold *int) {
	if g.Levels <= 1 {
		return
	}
	t := s.cfg.Threshold
	if threshold != nil {
		t = *threshold
	}
	raster.Threshold(g, t)
}

// writeOutput writes g to path when path is set and drops any cached copy of
// path so later tools read the new file.
func (s *Server) writeOutput(path string, g *raster.Grid) error {
	if path == "" {
		return nil
	}
	if err := raster.WriteFile(path, g); err != nil {
		return err
	}
	s.cache.Evict(path)
	return nil
}

// === Image Information ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a, &a.Path); err != nil {
		return nil, err
	}
	return raster.LoadGridInfo(s.cache, a.Path)
}

// === Labeling ===

type labelArgs struct {
	Path      string  `json:"path"`
	Threshold *int    `json:"threshold"`
	Output    string  `json:"output"`
	Preview   bool    `json:"preview"`
	Scale     float64 `json:"scale"`
}

type labelResult struct {
	Rows        int                   `json:"rows"`
	Cols        int                   `json:"cols"`
	Objects     int                   `json:"objects"`
	Provisional int                   `json:"provisional_labels"`
	Output      string                `json:"output,omitempty"`
	Preview     *raster.PreviewResult `json:"preview,omitempty"`
}

func (s *Server) handleLabel(args json.RawMessage) (interface{}, error) {
	var a labelArgs
	if err := decodeArgs(args, &a, &a.Path); err != nil {
		return nil, err
	}
	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	s.binarize(g, a.Threshold)

	out, res := labeling.LabelBinary(g)
	if err := s.writeOutput(a.Output, out); err != nil {
		return nil, err
	}

	result := &labelResult{
		Rows:        out.Rows(),
		Cols:        out.Cols(),
		Objects:     res.Count,
		Provisional: res.Provisional,
		Output:      a.Output,
	}
	if a.Preview {
		p, err := raster.Preview(out, raster.PreviewOptions{Scale: a.Scale, Colorize: true})
		if err != nil {
			return nil, err
		}
		result.Preview = p
	}
	return result, nil
}

type thresholdArgs struct {
	Path      string `json:"path"`
	Threshold *int   `json:"threshold"`
	Keep      bool   `json:"keep"`
	Output    string `json:"output"`
}

type thresholdResult struct {
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	Threshold  int    `json:"threshold"`
	Foreground int    `json:"foreground_pixels"`
	Output     string `json:"output,omitempty"`
}

func (s *Server) handleThreshold(args json.RawMessage) (interface{}, error) {
	var a thresholdArgs
	if err := decodeArgs(args, &a, &a.Path); err != nil {
		return nil, err
	}
	t := s.cfg.Threshold
	if a.Threshold != nil {
		t = *a.Threshold
	}
	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Keep {
		raster.ThresholdKeep(g, t)
	} else {
		raster.Threshold(g, t)
	}
	if err := s.writeOutput(a.Output, g); err != nil {
		return nil, err
	}

	fg := 0
	for i := 0; i < g.Rows(); i++ {
		for j := 0; j < g.Cols(); j++ {
			if g.At(i, j) != 0 {
				fg++
			}
		}
	}
	return &thresholdResult{Rows: g.Rows(), Cols: g.Cols(), Threshold: t, Foreground: fg, Output: a.Output}, nil
}

// === Object Properties and Recognition ===

type objectArgs struct {
	Path      string `json:"path"`
	Labeled   bool   `json:"labeled"`
	Threshold *int   `json:"threshold"`
	Database  string `json:"database"`
	Output    string `json:"output"`
}

// objectDatabase loads path and measures its objects. Unless labeled is set
// the image is binarized and labeled first.
func (s *Server) objectDatabase(a objectArgs) (*raster.Grid, *objects.Database, error) {
	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}
	if !a.Labeled {
		s.binarize(g, a.Threshold)
		g, _ = labeling.LabelBinary(g)
	}
	db := objects.FromLabeled(g)
	db.CalculateProperties()
	return g, db, nil
}

type propertiesResult struct {
	Objects  int              `json:"objects"`
	Records  []objects.Record `json:"records"`
	Database string           `json:"database,omitempty"`
	Output   string           `json:"output,omitempty"`
}

func (s *Server) handleProperties(args json.RawMessage) (interface{}, error) {
	var a objectArgs
	if err := decodeArgs(args, &a, &a.Path); err != nil {
		return nil, err
	}
	g, db, err := s.objectDatabase(a)
	if err != nil {
		return nil, err
	}
	if a.Database != "" {
		if err := db.SaveFile(a.Database); err != nil {
			return nil, err
		}
	}
	if a.Output != "" {
		objects.Annotate(g, db, false, s.cfg.Objects.NeedleLength)
		if err := s.writeOutput(a.Output, g); err != nil {
			return nil, err
		}
	}
	return &propertiesResult{Objects: db.Len(), Records: db.Records, Database: a.Database, Output: a.Output}, nil
}

type recognizeArgs struct {
	objectArgs
	AreaRatio      float64 `json:"area_ratio"`
	RoundnessRatio float64 `json:"roundness_ratio"`
}

type recognizeResult struct {
	Objects    int    `json:"objects"`
	Recognized int    `json:"recognized"`
	Labels     []int  `json:"labels"`
	Output     string `json:"output,omitempty"`
}

func (s *Server) handleRecognize(args json.RawMessage) (interface{}, error) {
	var a recognizeArgs
	if err := decodeArgs(args, &a, &a.Path); err != nil {
		return nil, err
	}
	if a.Database == "" {
		return nil, fmt.Errorf("%w: database is required", errInvalidArgs)
	}
	known, err := objects.LoadFile(a.Database)
	if err != nil {
		return nil, err
	}
	g, db, err := s.objectDatabase(a.objectArgs)
	if err != nil {
		return nil, err
	}

	c := s.cfg.Criteria()
	if a.AreaRatio > 0 {
		c.AreaRatio = a.AreaRatio
	}
	if a.RoundnessRatio > 0 {
		c.RoundnessRatio = a.RoundnessRatio
	}
	n := db.Recognize(known, c)

	labels := []int{}
	for _, r := range db.Records {
		if r.Recognized {
			labels = append(labels, r.Label)
		}
	}
	if a.Output != "" {
		objects.Annotate(g, db, true, s.cfg.Objects.NeedleLength)
		if err := s.writeOutput(a.Output, g); err != nil {
			return nil, err
		}
	}
	return &recognizeResult{Objects: db.Len(), Recognized: n, Labels: labels, Output: a.Output}, nil
}

// === Edges and Lines ===

type edgesArgs struct {
	Path     string `json:"path"`
	Operator string `json:"operator"`
	Output   string `json:"output"`
	Preview  bool   `json:"preview"`
}

type edgesResult struct {
	Operator string                `json:"operator"`
	Rows     int                   `json:"rows"`
	Cols     int                   `json:"cols"`
	Output   string                `json:"output,omitempty"`
	Preview  *raster.PreviewResult `json:"preview,omitempty"`
}

func (s *Server) handleEdges(args json.RawMessage) (interface{}, error) {
	var a edgesArgs
	if err := decodeArgs(args, &a, &a.Path); err != nil {
		return nil, err
	}
	if a.Operator == "" {
		a.Operator = "sobel"
	}
	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	edges.Gaussian5x5(g)
	var out *raster.Grid
	switch a.Operator {
	case "sobel":
		out = edges.Sobel(g)
	case "laplacian":
		out = edges.Laplacian(g)
	default:
		return nil, fmt.Errorf("%w: unknown operator %q", errInvalidArgs, a.Operator)
	}
	if err := s.writeOutput(a.Output, out); err != nil {
		return nil, err
	}

	result := &edgesResult{Operator: a.Operator, Rows: out.Rows(), Cols: out.Cols(), Output: a.Output}
	if a.Preview {
		p, err := raster.Preview(out, raster.PreviewOptions{})
		if err != nil {
			return nil, err
		}
		result.Preview = p
	}
	return result, nil
}

type houghArgs struct {
	Path           string  `json:"path"`
	EdgeThreshold  *int    `json:"edge_threshold"`
	Threshold      *int    `json:"threshold"`
	RhoTolerance   float64 `json:"rho_tolerance"`
	ThetaTolerance float64 `json:"theta_tolerance"`
	ClipToEdges    bool    `json:"clip_to_edges"`
	Output         string  `json:"output"`
}

type houghLine struct {
	hough.Peak
	Visible bool `json:"visible"`
	Row0    int  `json:"row0"`
	Col0    int  `json:"col0"`
	Row1    int  `json:"row1"`
	Col1    int  `json:"col1"`
}

type houghResult struct {
	RhoShift int         `json:"rho_shift"`
	MaxVotes int         `json:"max_votes"`
	Lines    []houghLine `json:"lines"`
	Output   string      `json:"output,omitempty"`
}

func (s *Server) handleHoughLines(args json.RawMessage) (interface{}, error) {
	var a houghArgs
	if err := decodeArgs(args, &a, &a.Path); err != nil {
		return nil, err
	}
	opts := s.cfg.HoughOptions()
	if a.Threshold != nil {
		opts.Threshold = *a.Threshold
	}
	if a.RhoTolerance > 0 {
		opts.RhoTolerance = a.RhoTolerance
	}
	if a.ThetaTolerance > 0 {
		opts.ThetaTolerance = a.ThetaTolerance
	}
	edgeThreshold := s.cfg.Hough.EdgeThreshold
	if a.EdgeThreshold != nil {
		edgeThreshold = *a.EdgeThreshold
	}

	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	mask := edges.EdgeMask(g, edgeThreshold)
	peaks, space := hough.Detect(mask, opts)

	lines := make([]houghLine, len(peaks))
	for k, p := range peaks {
		l := houghLine{Peak: p}
		l.Row0, l.Col0, l.Row1, l.Col1, l.Visible = hough.Endpoints(g.Rows(), g.Cols(), p.Rho, p.Theta)
		lines[k] = l
	}

	if a.Output != "" {
		var clip *raster.Grid
		if a.ClipToEdges {
			clip = mask
		}
		hough.DrawLines(g, peaks, 255, clip)
		if err := s.writeOutput(a.Output, g); err != nil {
			return nil, err
		}
	}
	return &houghResult{RhoShift: space.RhoShift, MaxVotes: space.MaxVotes, Lines: lines, Output: a.Output}, nil
}

// === Photometric Stereo ===

type sphereArgs struct {
	Path         string   `json:"path"`
	Threshold    *int     `json:"threshold"`
	Calibration  []string `json:"calibration"`
	Output       string   `json:"output"`
	LightsOutput string   `json:"lights_output"`
}

type sphereResult struct {
	Sphere photometric.Sphere `json:"sphere"`
	Lights []photometric.Vec  `json:"lights,omitempty"`
}

func (s *Server) loadTriple(paths []string) ([3]*raster.Grid, error) {
	var imgs [3]*raster.Grid
	if len(paths) != 3 {
		return imgs, fmt.Errorf("%w: exactly three images are required, got %d", errInvalidArgs, len(paths))
	}
	for k, p := range paths {
		g, err := s.cache.Load(p)
		if err != nil {
			return imgs, err
		}
		imgs[k] = g
	}
	return imgs, nil
}

func (s *Server) handleSphere(args json.RawMessage) (interface{}, error) {
	var a sphereArgs
	if err := decodeArgs(args, &a, &a.Path); err != nil {
		return nil, err
	}
	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	s.binarize(g, a.Threshold)

	sphere, err := photometric.LocateSphere(g)
	if err != nil {
		return nil, err
	}
	if a.Output != "" {
		if err := photometric.SaveSphereFile(a.Output, sphere); err != nil {
			return nil, err
		}
	}

	result := &sphereResult{Sphere: sphere}
	if len(a.Calibration) > 0 {
		imgs, err := s.loadTriple(a.Calibration)
		if err != nil {
			return nil, err
		}
		lights, err := photometric.LightSources(sphere, imgs)
		if err != nil {
			return nil, err
		}
		result.Lights = lights[:]
		if a.LightsOutput != "" {
			if err := photometric.SaveLightsFile(a.LightsOutput, lights); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

type albedoArgs struct {
	Lights        string   `json:"lights"`
	Images        []string `json:"images"`
	Threshold     *int     `json:"threshold"`
	Output        string   `json:"output"`
	NormalsOutput string   `json:"normals_output"`
	Step          int      `json:"step"`
}

type albedoResult struct {
	Rows          int    `json:"rows"`
	Cols          int    `json:"cols"`
	Output        string `json:"output,omitempty"`
	NormalsOutput string `json:"normals_output,omitempty"`
}

func (s *Server) handleAlbedo(args json.RawMessage) (interface{}, error) {
	var a albedoArgs
	if err := decodeArgs(args, &a, &a.Lights); err != nil {
		return nil, err
	}
	imgs, err := s.loadTriple(a.Images)
	if err != nil {
		return nil, err
	}
	lights, err := photometric.LoadLightsFile(a.Lights)
	if err != nil {
		return nil, err
	}
	m, err := photometric.NewLightMatrix(lights)
	if err != nil {
		return nil, err
	}

	opts := s.cfg.NeedleOptions()
	if a.Threshold != nil {
		opts.Threshold = *a.Threshold
	}
	if a.Step > 0 {
		opts.Step = a.Step
	}

	albedo, err := photometric.AlbedoMap(imgs, m, opts.Threshold)
	if err != nil {
		return nil, err
	}
	if err := s.writeOutput(a.Output, albedo); err != nil {
		return nil, err
	}

	if a.NormalsOutput != "" {
		needles, err := photometric.NeedleMap(imgs, m, opts)
		if err != nil {
			return nil, err
		}
		if err := s.writeOutput(a.NormalsOutput, needles); err != nil {
			return nil, err
		}
	}
	return &albedoResult{Rows: albedo.Rows(), Cols: albedo.Cols(), Output: a.Output, NormalsOutput: a.NormalsOutput}, nil
}

// === Preview ===

type previewArgs struct {
	Path     string  `json:"path"`
	Scale    float64 `json:"scale"`
	Colorize bool    `json:"colorize"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := decodeArgs(args, &a, &a.Path); err != nil {
		return nil, err
	}
	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return raster.Preview(g, raster.PreviewOptions{Scale: a.Scale, Colorize: a.Colorize})
}
