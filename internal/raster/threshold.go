package raster

// Threshold converts g in place to a binary image: pixels at or below t become
// 0 (background) and all others 1 (foreground). Levels becomes 1.
func Threshold(g *Grid, t int) {
	for k, v := range g.pix {
		if v <= t {
			g.pix[k] = 0
		} else {
			g.pix[k] = 1
		}
	}
	g.Levels = 1
}

// ThresholdKeep zeroes pixels at or below t and leaves brighter pixels with
// their original value. Levels becomes 255.
func ThresholdKeep(g *Grid, t int) {
	for k, v := range g.pix {
		if v <= t {
			g.pix[k] = 0
		}
	}
	g.Levels = 255
}

// Scale maps pixel values linearly so that maxValue becomes 255, rounding to
// the nearest integer. A non-positive maxValue leaves g unchanged.
func Scale(g *Grid, maxValue int) {
	if maxValue <= 0 {
		return
	}
	for k, v := range g.pix {
		g.pix[k] = int(float64(v)*255.0/float64(maxValue) + 0.5)
	}
}

// ClampToByte limits every pixel to 0..255.
func ClampToByte(g *Grid) {
	for k, v := range g.pix {
		switch {
		case v < 0:
			g.pix[k] = 0
		case v > 255:
			g.pix[k] = 255
		}
	}
}
