// Package labeling segments binary rasters into connected objects.
//
// Label runs the classic two-pass algorithm: a forward raster scan hands out
// provisional labels from the already visited north, west and north-west
// neighbours and records label equivalences in a disjoint-set forest; a second
// scan replaces every provisional label by a dense object number 1..K.
//
// Final numbers follow the numeric order of the surviving forest roots. Since
// unions always keep the smaller root, an object is numbered after the smallest
// provisional label it ever received, i.e. objects are ordered by the raster
// position of their first pixel.
package labeling

import (
	"github.com/ironsheep/pgm-vision/internal/disjoint"
	"github.com/ironsheep/pgm-vision/internal/raster"
)

// Result summarizes one labeling run.
type Result struct {
	// Count is the number of objects K. Labeled pixels hold 1..K.
	Count int `json:"count"`

	// Provisional is how many labels the first pass allocated before
	// equivalences were resolved.
	Provisional int `json:"provisional"`
}

// Label rewrites g in place so that background pixels are 0 and every
// foreground (nonzero) pixel carries the number of its object. g.Levels is set
// to the object count.
//
// Parameters:
//   - g: A binary grid. Nonzero pixels are foreground; their values are
//     overwritten.
//
// Returns:
//   - Result: The object count K (labels are 1..K, numbered by the raster
//     position of each object's first pixel) and the number of provisional
//     labels the first pass allocated.
//
// Connectivity is that of the N/W/NW neighbour set used by the scan: pixels
// touching through an edge or through a north-west/south-east diagonal end up
// in the same object.
func Label(g *raster.Grid) Result {
	forest := disjoint.New()
	firstPass(g, forest)

	table := NewRelabelTable(forest)
	table.Apply(g)

	g.Levels = table.Count()
	return Result{Count: table.Count(), Provisional: forest.NumberOfLabels()}
}

// LabelBinary labels a copy of g in which every nonzero pixel is foreground,
// leaving g untouched.
func LabelBinary(g *raster.Grid) (*raster.Grid, Result) {
	out := g.BinaryCopy()
	return out, Label(out)
}

// firstPass assigns provisional labels in row-major order. Pixels are
// overwritten as they are visited, so N, W and NW always hold provisional
// labels (or 0) by the time they are read.
func firstPass(g *raster.Grid, forest *disjoint.Forest) {
	rows, cols := g.Rows(), g.Cols()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if g.At(i, j) == 0 {
				continue
			}
			g.Set(i, j, provisionalLabel(g, forest, i, j))
		}
	}
}

// provisionalLabel decides the label of foreground pixel (i, j).
func provisionalLabel(g *raster.Grid, forest *disjoint.Forest, i, j int) int {
	switch {
	case i == 0 && j == 0:
		return forest.AddElement()

	case i == 0:
		if w := g.At(i, j-1); w != 0 {
			return w
		}
		return forest.AddElement()

	case j == 0:
		if n := g.At(i-1, j); n != 0 {
			return n
		}
		return forest.AddElement()
	}

	nw := g.At(i-1, j-1)
	n := g.At(i-1, j)
	w := g.At(i, j-1)

	if nw != 0 {
		// The three checks are independent; more than one may fire.
		if n != 0 && w == 0 && n != nw {
			forest.Union(nw, n)
		}
		if w != 0 && n == 0 && w != nw {
			forest.Union(nw, w)
		}
		if w != 0 && n != 0 && w != n {
			forest.Union(n, w)
		}
		return nw
	}

	switch {
	case n != 0 && w == 0:
		return n
	case n == 0 && w != 0:
		return w
	case n == 0 && w == 0:
		return forest.AddElement()
	default:
		if n != w {
			forest.Union(n, w)
		}
		return n
	}
}
