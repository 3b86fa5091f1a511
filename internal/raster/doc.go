// Package raster provides the integer pixel grid shared by every pgm-vision
// program, together with its P5 codec and a few raster primitives.
//
// # Coordinate System
//
// Pixels are addressed as (row, column) with (0, 0) at the top-left corner.
// Rows grow downward and columns grow rightward. This matches the layout of the
// P5 pixel stream, which is stored row by row.
//
// # File Format
//
// The canonical storage format is binary PGM ("P5"):
//
//	P5
//	# optional comment lines
//	<cols> <rows>
//	<gray levels>
//	<rows*cols bytes>
//
// The gray-levels field doubles as metadata: 1 marks a binary image and, for
// labeled images, it holds the number of objects K (pixels 0..K).
//
// Other formats (PNG, JPEG, ...) can be imported as gray grids and grids can be
// exported as PNG previews, but labels are only ever stored as P5.
//
// # Error Handling
//
// Decoding failures are reported with the sentinel errors in errors.go wrapped
// with context, so callers can test them with errors.Is. Out-of-range At/Set
// calls are programming errors and panic.
//
// # Thread Safety
//
// GridCache is safe for concurrent use. A Grid is not; each operation owns the
// grid it is given.
package raster
