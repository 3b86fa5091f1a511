// Package edges implements the smoothing and gradient operators used ahead of
// line detection.
//
// All operators work on raster grids. Gaussian5x5 filters in place; Sobel and
// Laplacian return a new grid of the same size whose outermost ring is 0 and
// whose values are scaled so the strongest response becomes 255.
package edges

import (
	"math"

	"github.com/ironsheep/pgm-vision/internal/raster"
)

// gaussian5 is the binomial approximation of a Gaussian; its weights sum to 16.
var gaussian5 = [5]int{1, 4, 6, 4, 1}

var sobelX = [3][3]int{
	{-1, 0, 1},
	{-2, 0, 2},
	{-1, 0, 1},
}

var sobelY = [3][3]int{
	{1, 2, 1},
	{0, 0, 0},
	{-1, -2, -1},
}

// DefaultMaskThreshold is the binary threshold EdgeMask callers use when none
// is configured.
const DefaultMaskThreshold = 15

// Gaussian5x5 smooths g in place with the separable kernel [1 4 6 4 1]/16,
// first along rows and then along columns. Pixels beyond the border count as
// 0, and each pass rounds to the nearest integer.
func Gaussian5x5(g *raster.Grid) {
	rows, cols := g.Rows(), g.Cols()
	tmp := raster.MustGrid(rows, cols)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sum := 0
			for k := -2; k <= 2; k++ {
				if jj := j + k; jj >= 0 && jj < cols {
					sum += gaussian5[k+2] * g.At(i, jj)
				}
			}
			tmp.Set(i, j, round16(sum))
		}
	}

	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			sum := 0
			for k := -2; k <= 2; k++ {
				if ii := i + k; ii >= 0 && ii < rows {
					sum += gaussian5[k+2] * tmp.At(ii, j)
				}
			}
			g.Set(i, j, round16(sum))
		}
	}
}

func round16(sum int) int {
	return int(float64(sum)/16.0 + 0.5)
}

// Sobel returns the gradient magnitude of g, rounded and scaled to 0..255.
func Sobel(g *raster.Grid) *raster.Grid {
	out := raster.MustGrid(g.Rows(), g.Cols())
	maxValue := 0
	forInterior(g, func(i, j int) {
		gx, gy := 0, 0
		for ki := -1; ki <= 1; ki++ {
			for kj := -1; kj <= 1; kj++ {
				v := g.At(i+ki, j+kj)
				gx += sobelX[ki+1][kj+1] * v
				gy += sobelY[ki+1][kj+1] * v
			}
		}
		mag := int(math.Sqrt(float64(gx*gx+gy*gy)) + 0.5)
		out.Set(i, j, mag)
		maxValue = max(maxValue, mag)
	})
	raster.Scale(out, maxValue)
	return out
}

// Laplacian applies the 4-neighbour stencil N+E+S+W-4·center and scales the
// result to 0..255. Negative responses are clipped to 0.
func Laplacian(g *raster.Grid) *raster.Grid {
	out := raster.MustGrid(g.Rows(), g.Cols())
	maxValue := 0
	forInterior(g, func(i, j int) {
		v := g.At(i-1, j) + g.At(i, j+1) + g.At(i+1, j) + g.At(i, j-1) - 4*g.At(i, j)
		if v < 0 {
			v = 0
		}
		out.Set(i, j, v)
		maxValue = max(maxValue, v)
	})
	raster.Scale(out, maxValue)
	return out
}

// forInterior calls fn for every pixel that has all eight neighbours.
func forInterior(g *raster.Grid, fn func(i, j int)) {
	for i := 1; i < g.Rows()-1; i++ {
		for j := 1; j < g.Cols()-1; j++ {
			fn(i, j)
		}
	}
}

// EdgeMask builds a binary mask of strong edges: g is smoothed, passed through
// Sobel, smoothed again and thresholded at t. g itself is not modified.
func EdgeMask(g *raster.Grid, t int) *raster.Grid {
	smoothed := g.Clone()
	Gaussian5x5(smoothed)
	mask := Sobel(smoothed)
	Gaussian5x5(mask)
	raster.Threshold(mask, t)
	return mask
}
