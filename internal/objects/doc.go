// Package objects measures labeled objects and recognizes them against a
// database of known shapes.
//
// # Moments
//
// A labeled grid (background 0, objects 1..K) is scanned once. For every
// object the scan accumulates its area and the raw first and second order
// moments Σi, Σj, Σij, Σi² and Σj², where i is the row and j the column.
// CalculateProperties turns the sums into:
//
//   - the centroid (rowC, colC), rounded to the nearest pixel
//   - the central second moments a, b and c
//   - the orientation θ of the axis of least inertia, measured from the
//     vertical (row) axis: θ = ½·atan2(b, a−c)
//   - the least and greatest moments of inertia E(θ) and E(θ+π/2)
//
// The ratio MinE/MaxE is the object's roundness: 1 for a disc, close to 0 for
// a thin bar.
//
// # Database Format
//
// Databases are stored as tab separated text with a fixed header line:
//
//	label	rowC	colC	theta	minE	maxE	area
//
// θ is written in degrees with six decimals and read back into radians.
//
// # Recognition
//
// An object is recognized when some known object has a similar area and a
// similar roundness. Similarity is the ratio of the smaller value to the larger
// one; the defaults require 0.85 for area and 0.90 for roundness.
package objects
