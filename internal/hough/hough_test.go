package hough

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/pgm-vision/internal/raster"
)

func TestRhoShiftFor(t *testing.T) {
	assert.Equal(t, 14, RhoShiftFor(10, 10)) // √200 = 14.14
	assert.Equal(t, 5, RhoShiftFor(3, 4))
	assert.Equal(t, 1, RhoShiftFor(1, 1)) // √2 = 1.41
}

func TestTransform_SinglePixelAtOrigin(t *testing.T) {
	edges := raster.MustGrid(3, 4)
	edges.Set(0, 0, 1)

	space := Transform(edges)

	require.Equal(t, 5, space.RhoShift)
	assert.Equal(t, 15, space.Votes.Rows())
	assert.Equal(t, ThetaBins, space.Votes.Cols())
	assert.Equal(t, 1, space.MaxVotes)

	// Every line through the origin has ρ = 0.
	for theta := 0; theta < ThetaBins; theta++ {
		require.Equal(t, 255, space.Votes.At(5, theta), "θ bin %d", theta)
	}
}

func TestTransform_HorizontalLine(t *testing.T) {
	edges := raster.MustGrid(10, 10)
	for j := 0; j < 10; j++ {
		edges.Set(3, j, 1)
	}

	space := Transform(edges)

	assert.Equal(t, 10, space.MaxVotes)
	assert.Equal(t, 255, space.Votes.At(space.RhoShift+3, 0))
}

func TestFindPeaks_WeightedCentroid(t *testing.T) {
	votes := raster.MustGrid(42, ThetaBins)
	votes.Set(17, 10, 100)
	votes.Set(17, 11, 100)
	votes.Set(18, 11, 200)
	votes.Set(30, 500, 50)

	peaks := FindPeaks(votes, 14, Options{RhoTolerance: 10, ThetaTolerance: 7})

	require.Len(t, peaks, 2)
	assert.InDelta(t, 3.5, peaks[0].Rho, 1e-9)
	assert.InDelta(t, 2.15, peaks[0].Theta, 1e-9)
	assert.Equal(t, int64(400), peaks[0].Weight)
	assert.Equal(t, 3, peaks[0].Area)

	assert.InDelta(t, 16, peaks[1].Rho, 1e-9)
	assert.InDelta(t, 100, peaks[1].Theta, 1e-9)
	assert.Equal(t, int64(50), peaks[1].Weight)

	assert.Equal(t, 100, votes.At(17, 10), "input untouched")
}

func TestFindPeaks_Threshold(t *testing.T) {
	votes := raster.MustGrid(42, ThetaBins)
	votes.Set(17, 10, 255)
	votes.Set(30, 500, 90)

	peaks := FindPeaks(votes, 14, Options{Threshold: 100, RhoTolerance: 10, ThetaTolerance: 7})

	require.Len(t, peaks, 1)
	assert.InDelta(t, 3, peaks[0].Rho, 1e-9)
	assert.InDelta(t, 2, peaks[0].Theta, 1e-9)
}

func TestOptimize(t *testing.T) {
	peaks := []Peak{
		{Rho: 10, Theta: 20, Weight: 100, Area: 1},
		{Rho: 40, Theta: 20, Weight: 10, Area: 1},
		{Rho: 15, Theta: 24, Weight: 300, Area: 2},
	}

	got := Optimize(peaks, 10, 7)

	require.Len(t, got, 2)
	assert.InDelta(t, 13.75, got[0].Rho, 1e-9)
	assert.InDelta(t, 23, got[0].Theta, 1e-9)
	assert.Equal(t, int64(400), got[0].Weight)
	assert.Equal(t, 3, got[0].Area)
	assert.Equal(t, peaks[1], got[1])
}

func TestOptimize_ToleranceIsExclusive(t *testing.T) {
	peaks := []Peak{
		{Rho: 0, Theta: 0, Weight: 1},
		{Rho: 10, Theta: 0, Weight: 1},
		{Rho: 0, Theta: 7, Weight: 1},
	}

	assert.Len(t, Optimize(peaks, 10, 7), 3)
}

func TestEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		rho, theta float64
		want       [4]int
		ok         bool
	}{
		{"horizontal", 3, 0, [4]int{3, 0, 3, 9}, true},
		{"vertical", 6, 90, [4]int{0, 6, 9, 6}, true},
		{"anti-diagonal", 9 / math.Sqrt2, 45, [4]int{0, 9, 9, 0}, true},
		{"outside", 50, 0, [4]int{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r0, c0, r1, c1, ok := Endpoints(10, 10, tt.rho, tt.theta)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, [4]int{r0, c0, r1, c1})
			}
		})
	}
}

func TestDrawLines_Mask(t *testing.T) {
	g := raster.MustGrid(10, 10)
	mask := raster.MustGrid(10, 10)
	for j := 2; j <= 5; j++ {
		mask.Set(3, j, 1)
	}

	n := DrawLines(g, []Peak{{Rho: 3, Theta: 0}}, 255, mask)

	assert.Equal(t, 1, n)
	for j := 0; j < 10; j++ {
		want := 0
		if j >= 2 && j <= 5 {
			want = 255
		}
		assert.Equal(t, want, g.At(3, j), "column %d", j)
	}
}

func TestDetect_RecoversHorizontalLine(t *testing.T) {
	edges := raster.MustGrid(20, 20)
	for j := 0; j < 20; j++ {
		edges.Set(3, j, 1)
	}

	peaks, space := Detect(edges, Options{Threshold: 250, RhoTolerance: 10, ThetaTolerance: 7})
	require.Equal(t, 20, space.MaxVotes)
	require.NotEmpty(t, peaks)

	out := raster.MustGrid(20, 20)
	DrawLines(out, peaks, 255, nil)

	for j := 0; j < 20; j++ {
		assert.Equal(t, 255, out.At(3, j), "row 3, column %d", j)
		assert.Zero(t, out.At(10, j), "row 10, column %d", j)
	}
}
