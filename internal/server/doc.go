// Package server implements the MCP (Model Context Protocol) server for the
// pgmvision image tools.
//
// The server exposes labeling, object measurement, edge and line detection and
// photometric stereo as MCP tools so that an assistant can run the same
// pipeline as the pgmvision command line.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Information:
//   - pgm_info: Size, gray levels and format of an image
//   - pgm_preview: Render an image as PNG, optionally colorized by label
//
// Objects:
//   - pgm_threshold: Binarize an image
//   - pgm_label: Label connected objects
//   - pgm_properties: Area, centroid, orientation and moments per object
//   - pgm_recognize: Match objects against a saved database
//
// Edges and Lines:
//   - pgm_edges: Gaussian smoothing followed by Sobel or Laplacian
//   - pgm_hough_lines: Hough line detection with peak merging
//
// Photometric Stereo:
//   - pgm_sphere: Calibration sphere and light source vectors
//   - pgm_albedo: Albedo map and needle map from three images
//
// # Image Caching
//
// Grids are cached by path for the lifetime of the server process. Every tool
// receives its own copy, so in-place operations never leak into the cache.
//
// # Defaults
//
// Optional tool arguments fall back to the loaded configuration (see package
// config), so a .pgmvision.yaml file or PGMVISION_* environment variables
// change the server's defaults the same way they change the command line.
//
// # Error Handling
//
// Failures are returned as JSON-RPC error responses:
//   - -32601: unknown method
//   - -32602: malformed or missing tool arguments, or an unknown tool
//   - -32000: the tool ran and failed (unreadable file, singular lights, ...)
//
// The data field carries the Go error string.
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
