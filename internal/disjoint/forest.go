// Package disjoint implements the incremental union-find registry used by the
// raster labeling engine.
//
// Elements are identified by positive integers 1..N. Identifier 0 is a reserved
// sentinel meaning "no label" and never takes part in Find or Union. Elements are
// appended one at a time with AddElement and the forest never shrinks.
//
// A Forest is owned by a single labeling call and is not safe for concurrent use.
package disjoint

// NotFound is returned by Find for identifiers that are not elements of the
// forest, including the "no label" sentinel 0.
const NotFound = -1

// root marks a parent slot as the representative of its set.
const root = -1

// Forest is a disjoint-set forest over the identifiers 1..NumberOfLabels().
//
// parent[x] < 0 means x is a root; otherwise parent[x] is the next element on
// the way to x's root. parent[0] is an unused sentinel.
type Forest struct {
	parent []int
}

// New creates an empty forest holding only the unused sentinel element 0.
func New() *Forest {
	return &Forest{parent: []int{root}}
}

// AddElement appends a new singleton set and returns its identifier.
func (f *Forest) AddElement() int {
	f.parent = append(f.parent, root)
	return len(f.parent) - 1
}

// Find returns the root of the set containing x, or NotFound when x is 0,
// negative, or was never added.
//
// Find does not compress paths; the forest is left exactly as Union built it.
func (f *Forest) Find(x int) int {
	if x <= 0 || x >= len(f.parent) {
		return NotFound
	}
	for f.parent[x] >= 0 {
		x = f.parent[x]
	}
	return x
}

// Union merges the sets containing a and b.
//
// Either argument being 0 (or unknown) makes the call a no-op, as does a and b
// already sharing a root. Otherwise the root with the smaller identifier
// survives: the larger root is pointed at it, and so is the argument that was on
// the larger root's side.
func (f *Forest) Union(a, b int) {
	if a == 0 || b == 0 {
		return
	}
	ra, rb := f.Find(a), f.Find(b)
	if ra == NotFound || rb == NotFound || ra == rb {
		return
	}
	winner, loser, loserArg := survivor(ra, rb, a, b)
	f.parent[loserArg] = winner
	f.parent[loser] = winner
}

// survivor applies the union tie-break: the numerically smaller root wins.
// It returns the winning root, the losing root, and the caller argument that
// resolved to the losing root.
func survivor(ra, rb, a, b int) (winner, loser, loserArg int) {
	if ra < rb {
		return ra, rb, b
	}
	return rb, ra, a
}

// NumberOfLabels returns how many elements have ever been added, excluding the
// sentinel.
func (f *Forest) NumberOfLabels() int {
	return len(f.parent) - 1
}

// NumberOfLevels returns the number of distinct sets, i.e. current roots.
func (f *Forest) NumberOfLevels() int {
	n := 0
	for x := 1; x < len(f.parent); x++ {
		if f.parent[x] < 0 {
			n++
		}
	}
	return n
}

// Levels returns the identifiers of all current roots in ascending order.
func (f *Forest) Levels() []int {
	levels := make([]int, 0, len(f.parent)-1)
	for x := 1; x < len(f.parent); x++ {
		if f.parent[x] < 0 {
			levels = append(levels, x)
		}
	}
	return levels
}
