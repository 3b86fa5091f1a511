package raster

import "fmt"

// Grid is a 2D raster of integer pixel values stored row-major in a flat
// buffer. Row i, column j addresses pixel (i, j); (0, 0) is the top-left corner.
//
// Levels mirrors the gray-level field of the P5 header: 255 for ordinary gray
// images, 1 for binary images and K for images labeled with objects 1..K.
//
// At and Set panic when (i, j) is outside the grid. Callers that may wander off
// the edge (drawing, windows) must check Inside first.
type Grid struct {
	rows   int
	cols   int
	pix    []int
	Levels int
}

// NewGrid allocates a zeroed rows×cols grid with Levels set to 255.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, rows, cols)
	}
	return &Grid{
		rows:   rows,
		cols:   cols,
		pix:    make([]int, rows*cols),
		Levels: 255,
	}, nil
}

// MustGrid is NewGrid for dimensions known to be valid; it panics otherwise.
func MustGrid(rows, cols int) *Grid {
	g, err := NewGrid(rows, cols)
	if err != nil {
		panic(err)
	}
	return g
}

// FromRows builds a grid from a rectangular [][]int literal. Levels is set to
// the largest value present (at least 1).
func FromRows(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidSize
	}
	g, err := NewGrid(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	maxVal := 1
	for i, row := range rows {
		if len(row) != g.cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidSize, i, len(row), g.cols)
		}
		for j, v := range row {
			g.pix[i*g.cols+j] = v
			if v > maxVal {
				maxVal = v
			}
		}
	}
	g.Levels = maxVal
	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Inside reports whether (i, j) addresses a pixel of the grid.
func (g *Grid) Inside(i, j int) bool {
	return i >= 0 && i < g.rows && j >= 0 && j < g.cols
}

func (g *Grid) index(i, j int) int {
	if !g.Inside(i, j) {
		panic(fmt.Sprintf("raster: pixel (%d,%d) outside %dx%d grid", i, j, g.rows, g.cols))
	}
	return i*g.cols + j
}

// At returns the value of pixel (i, j).
func (g *Grid) At(i, j int) int {
	return g.pix[g.index(i, j)]
}

// Set stores v at pixel (i, j).
func (g *Grid) Set(i, j, v int) {
	g.pix[g.index(i, j)] = v
}

// Increment adds one to pixel (i, j) and returns the new value.
func (g *Grid) Increment(i, j int) int {
	k := g.index(i, j)
	g.pix[k]++
	return g.pix[k]
}

// Max returns the largest pixel value.
func (g *Grid) Max() int {
	m := g.pix[0]
	for _, v := range g.pix[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, Levels: g.Levels}
	c.pix = append([]int(nil), g.pix...)
	return c
}

// BinaryCopy returns a copy with every nonzero pixel set to 1 and Levels 1.
func (g *Grid) BinaryCopy() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, pix: make([]int, len(g.pix)), Levels: 1}
	for k, v := range g.pix {
		if v != 0 {
			c.pix[k] = 1
		}
	}
	return c
}

// SameSize reports whether g and other have identical dimensions.
func (g *Grid) SameSize(other *Grid) bool {
	return g.rows == other.rows && g.cols == other.cols
}

// Equal reports whether g and other have the same size and pixel values.
// Levels is not compared.
func (g *Grid) Equal(other *Grid) bool {
	if !g.SameSize(other) {
		return false
	}
	for k, v := range g.pix {
		if other.pix[k] != v {
			return false
		}
	}
	return true
}

// Fill sets every pixel to v.
func (g *Grid) Fill(v int) {
	for k := range g.pix {
		g.pix[k] = v
	}
}
