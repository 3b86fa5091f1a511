package labeling

import (
	"sort"

	"github.com/ironsheep/pgm-vision/internal/disjoint"
	"github.com/ironsheep/pgm-vision/internal/raster"
)

// RelabelTable maps provisional labels to dense final labels.
//
// roots lists the forest roots in ascending order; root roots[k] becomes final
// label k+1. final[raw] is the final label of provisional label raw (index 0 is
// unused).
type RelabelTable struct {
	roots []int
	final []int
}

// NewRelabelTable resolves every provisional label of forest to its root and
// numbers the roots 1..K in ascending identifier order.
func NewRelabelTable(forest *disjoint.Forest) *RelabelTable {
	roots := forest.Levels()
	n := forest.NumberOfLabels()

	final := make([]int, n+1)
	for raw := 1; raw <= n; raw++ {
		final[raw] = rootIndex(roots, forest.Find(raw)) + 1
	}
	return &RelabelTable{roots: roots, final: final}
}

// rootIndex locates root in the ascending roots slice.
func rootIndex(roots []int, root int) int {
	k := sort.SearchInts(roots, root)
	if k == len(roots) || roots[k] != root {
		// Find always lands on a root listed by Levels.
		panic("labeling: provisional label resolved to an unknown root")
	}
	return k
}

// Count returns the number of final labels K.
func (t *RelabelTable) Count() int {
	return len(t.roots)
}

// Roots returns the root identifiers in final-label order.
func (t *RelabelTable) Roots() []int {
	return append([]int(nil), t.roots...)
}

// Lookup returns the final label for provisional label raw, or 0 when raw is
// not a provisional label.
func (t *RelabelTable) Lookup(raw int) int {
	if raw <= 0 || raw >= len(t.final) {
		return 0
	}
	return t.final[raw]
}

// Apply rewrites every pixel holding a provisional label with its final label.
// Pixels holding 0, or values outside the provisional range, are left alone.
func (t *RelabelTable) Apply(g *raster.Grid) {
	n := len(t.final) - 1
	rows, cols := g.Rows(), g.Cols()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if l := g.At(i, j); l >= 1 && l <= n {
				g.Set(i, j, t.final[l])
			}
		}
	}
}
