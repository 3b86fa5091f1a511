package hough

import (
	"math"

	"github.com/ironsheep/pgm-vision/internal/raster"
)

// nearAxis is the smallest |sin θ| or |cos θ| used as a divisor when
// intersecting a line with the image border.
const nearAxis = 1e-9

type point struct{ row, col int }

// Endpoints intersects the line (rho, theta°) with the border of a rows×cols
// image and returns the first two distinct intersection points. The borders
// are tried in the order top row, bottom row, left column, right column. ok is
// false when the line misses the image or touches it in a single pixel.
func Endpoints(rows, cols int, rho, theta float64) (r0, c0, r1, c1 int, ok bool) {
	rMax, cMax := rows-1, cols-1
	sin, cos := math.Sincos(theta * math.Pi / 180)

	var pts []point
	add := func(r, c float64) {
		ri, okR := toPixel(r, rMax)
		ci, okC := toPixel(c, cMax)
		if !okR || !okC {
			return
		}
		p := point{ri, ci}
		if len(pts) == 1 && pts[0] == p {
			return
		}
		if len(pts) < 2 {
			pts = append(pts, p)
		}
	}

	if math.Abs(sin) > nearAxis {
		add(0, rho/sin)
		add(float64(rMax), (rho-float64(rMax)*cos)/sin)
	}
	if math.Abs(cos) > nearAxis {
		add(rho/cos, 0)
		add((rho-float64(cMax)*sin)/cos, float64(cMax))
	}

	if len(pts) < 2 {
		return 0, 0, 0, 0, false
	}
	return pts[0].row, pts[0].col, pts[1].row, pts[1].col, true
}

// toPixel rounds x to a pixel index in 0..limit.
func toPixel(x float64, limit int) (int, bool) {
	x += 0.5
	if math.IsNaN(x) || x <= -1 || x >= float64(limit)+1 {
		return 0, false
	}
	return int(x), true
}

// DrawLines draws every peak across g with value v. When mask is non-nil only
// the pixels where mask is nonzero are painted, so lines are cut down to the
// segments that lie on detected edges. It returns the number of lines drawn.
func DrawLines(g *raster.Grid, peaks []Peak, v int, mask *raster.Grid) int {
	n := 0
	for _, p := range peaks {
		r0, c0, r1, c1, ok := Endpoints(g.Rows(), g.Cols(), p.Rho, p.Theta)
		if !ok {
			continue
		}
		raster.DrawLine(g, r0, c0, r1, c1, v, mask)
		n++
	}
	return n
}
