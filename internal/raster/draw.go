package raster

// DrawLine rasterizes the segment (r0,c0)-(r1,c1) with Bresenham's algorithm and
// sets each visited pixel to v.
//
// Pixels outside the grid are skipped, so endpoints may lie off the image. When
// mask is non-nil only pixels whose mask value is nonzero are written, which
// cuts a line down to the segments lying on the edges of a binary edge mask.
func DrawLine(g *Grid, r0, c0, r1, c1, v int, mask *Grid) {
	dr := abs(r1 - r0)
	dc := -abs(c1 - c0)
	sr := 1
	if r0 > r1 {
		sr = -1
	}
	sc := 1
	if c0 > c1 {
		sc = -1
	}
	e := dr + dc

	r, c := r0, c0
	for {
		plot(g, r, c, v, mask)
		if r == r1 && c == c1 {
			return
		}
		e2 := 2 * e
		if e2 >= dc {
			e += dc
			r += sr
		}
		if e2 <= dr {
			e += dr
			c += sc
		}
	}
}

func plot(g *Grid, r, c, v int, mask *Grid) {
	if !g.Inside(r, c) {
		return
	}
	if mask != nil && (!mask.Inside(r, c) || mask.At(r, c) == 0) {
		return
	}
	g.Set(r, c, v)
}

// DrawDot paints the 3×3 block centered on (r, c), clipped to the grid.
func DrawDot(g *Grid, r, c, v int) {
	for i := r - 1; i <= r+1; i++ {
		for j := c - 1; j <= c+1; j++ {
			if g.Inside(i, j) {
				g.Set(i, j, v)
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
