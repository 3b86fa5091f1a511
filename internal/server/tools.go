package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "pgm_info",
			Description: "Load an image (PGM, PNG or JPEG) and return its size, gray levels and whether it is binary.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},

		// Labeling
		{
			Name:        "pgm_label",
			Description: "Threshold a gray image and label its connected objects 1..N in raster order. Returns the object count and optionally a colorized preview.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels brighter than this value are foreground. Ignored for binary images. Default from configuration (128)",
					},
					"output": pathProperty("Optional path to write the labeled PGM"),
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Return a base64 PNG with one color per label",
						"default":     false,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Preview scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pgm_threshold",
			Description: "Binarize an image. With keep=true, foreground pixels keep their gray value.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Threshold value (0-255). Default from configuration (128)",
					},
					"keep": map[string]interface{}{
						"type":        "boolean",
						"description": "Keep gray values above the threshold instead of writing 1",
						"default":     false,
					},
					"output": pathProperty("Optional path to write the result PGM"),
				},
				"required": []string{"path"},
			},
		},

		// Objects
		{
			Name:        "pgm_properties",
			Description: "Measure every object: area, centroid, orientation and second moments. Optionally save the object database and an annotated image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to a gray or labeled image"),
					"labeled": map[string]interface{}{
						"type":        "boolean",
						"description": "The image is already labeled (pixel values are object numbers)",
						"default":     false,
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Threshold used before labeling. Default from configuration (128)",
					},
					"database": pathProperty("Optional path to save the object database"),
					"output":   pathProperty("Optional path to write the image with centers and orientation needles drawn"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pgm_recognize",
			Description: "Compare objects in an image to a saved object database by area and roundness.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to a gray or labeled image"),
					"labeled": map[string]interface{}{
						"type":        "boolean",
						"description": "The image is already labeled",
						"default":     false,
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Threshold used before labeling. Default from configuration (128)",
					},
					"database": pathProperty("Path of the known object database"),
					"area_ratio": map[string]interface{}{
						"type":        "number",
						"description": "Minimum min/max area ratio for a match. Default 0.85",
					},
					"roundness_ratio": map[string]interface{}{
						"type":        "number",
						"description": "Minimum min/max roundness ratio for a match. Default 0.90",
					},
					"output": pathProperty("Optional path to write the image with recognized objects annotated"),
				},
				"required": []string{"path", "database"},
			},
		},

		// Edges and Lines
		{
			Name:        "pgm_edges",
			Description: "Smooth with a 5x5 Gaussian and compute the Sobel gradient magnitude or the Laplacian.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"operator": map[string]interface{}{
						"type":        "string",
						"description": "Edge operator",
						"enum":        []string{"sobel", "laplacian"},
						"default":     "sobel",
					},
					"output": pathProperty("Optional path to write the edge image"),
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Return a base64 PNG of the edge image",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pgm_hough_lines",
			Description: "Detect straight lines with a Hough transform. Returns each line in (rho, theta) form with its endpoints on the image border.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the original gray image"),
					"edge_threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Sobel magnitude that marks an edge pixel. Default 15",
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum accumulator votes for a peak. Default 100",
					},
					"rho_tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Peaks closer than this in rho are merged. Default 10",
					},
					"theta_tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Peaks closer than this in theta (degrees) are merged. Default 7",
					},
					"clip_to_edges": map[string]interface{}{
						"type":        "boolean",
						"description": "Only draw lines over edge pixels",
						"default":     false,
					},
					"output": pathProperty("Optional path to write the image with lines drawn"),
				},
				"required": []string{"path"},
			},
		},

		// Photometric Stereo
		{
			Name:        "pgm_sphere",
			Description: "Locate a calibration sphere in a binary image. With three calibration images, also compute the light source vectors.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the sphere image"),
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Threshold separating the sphere from the background. Default from configuration (128)",
					},
					"calibration": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Three images of the sphere, one per light source",
					},
					"output":        pathProperty("Optional path to save the sphere parameters"),
					"lights_output": pathProperty("Optional path to save the light directions"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pgm_albedo",
			Description: "Recover the albedo map of an object seen under three known lights, and optionally a needle map of surface normals.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"lights": pathProperty("Path of the light directions file"),
					"images": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Three images of the object, one per light source",
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels dimmer than this in any image are skipped. Default 85",
					},
					"step": map[string]interface{}{
						"type":        "integer",
						"description": "Needle spacing in pixels. Default 10",
					},
					"output":         pathProperty("Optional path to write the albedo PGM"),
					"normals_output": pathProperty("Optional path to write the needle map PGM"),
				},
				"required": []string{"lights", "images"},
			},
		},

		// Preview
		{
			Name:        "pgm_preview",
			Description: "Render an image as base64-encoded PNG. Labeled images can be colorized with one color per object.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor. Default 1.0",
						"default":     1.0,
					},
					"colorize": map[string]interface{}{
						"type":        "boolean",
						"description": "Paint each nonzero value with its own color",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}
