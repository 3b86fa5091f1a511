package photometric

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/pgm-vision/internal/raster"
)

func axisLights() [3]Vec {
	return [3]Vec{{100, 0, 0}, {0, 100, 0}, {0, 0, 100}}
}

func constant(rows, cols, v int) *raster.Grid {
	g := raster.MustGrid(rows, cols)
	g.Fill(v)
	return g
}

func TestLocateSphere(t *testing.T) {
	g := raster.MustGrid(10, 10)
	for i := 2; i <= 6; i++ {
		for j := 3; j <= 7; j++ {
			g.Set(i, j, 1)
		}
	}

	s, err := LocateSphere(g)
	require.NoError(t, err)
	assert.Equal(t, Sphere{Row: 4, Col: 5, Radius: 2}, s)
}

func TestLocateSphere_Empty(t *testing.T) {
	_, err := LocateSphere(raster.MustGrid(4, 4))
	assert.ErrorIs(t, err, ErrNoSphere)
}

func TestLightSource(t *testing.T) {
	img := raster.MustGrid(11, 11)
	img.Set(5, 8, 200)
	img.Set(5, 9, 200) // tie, first in raster order wins

	v, err := LightSource(Sphere{Row: 5, Col: 5, Radius: 4}, img)
	require.NoError(t, err)

	assert.InDelta(t, 0, v[0], 1e-9)
	assert.InDelta(t, 150, v[1], 1e-9)
	assert.InDelta(t, 50*math.Sqrt(7), v[2], 1e-9)
	assert.InDelta(t, 200, v.Len(), 1e-9)
}

func TestFindHighlight_ClipsWindow(t *testing.T) {
	img := raster.MustGrid(6, 6)
	img.Set(0, 0, 90)
	img.Set(5, 5, 250) // outside the window

	h := FindHighlight(Sphere{Row: 1, Col: 1, Radius: 1}, img)
	assert.Equal(t, Highlight{Row: 0, Col: 0, Value: 90}, h)
}

func TestLightSource_ZeroRadiusCenter(t *testing.T) {
	img := raster.MustGrid(11, 11)
	img.Set(5, 5, 200)

	_, err := LightSource(Sphere{Row: 5, Col: 5}, img)
	assert.ErrorIs(t, err, ErrNoLight)
}

func TestLightSources_ReportsImage(t *testing.T) {
	good := raster.MustGrid(11, 11)
	good.Set(5, 8, 200)
	bad := raster.MustGrid(11, 11)
	bad.Set(5, 5, 10)

	_, err := LightSources(Sphere{Row: 5, Col: 5}, [3]*raster.Grid{bad, good, good})
	require.ErrorIs(t, err, ErrNoLight)
	assert.Contains(t, err.Error(), "image 1")
}

func TestLightMatrix(t *testing.T) {
	m, err := NewLightMatrix(axisLights())
	require.NoError(t, err)

	solved := m.Solve(Vec{30, 40, 0})
	assert.InDelta(t, 0.3, solved[0], 1e-12)
	assert.InDelta(t, 0.4, solved[1], 1e-12)
	assert.InDelta(t, 0, solved[2], 1e-12)

	n, ok := m.Normal(Vec{30, 40, 0})
	require.True(t, ok)
	assert.InDelta(t, 0.6, n[0], 1e-12)
	assert.InDelta(t, 0.8, n[1], 1e-12)

	assert.Equal(t, 128, m.Albedo(Vec{30, 40, 0}))

	_, ok = m.Normal(Vec{})
	assert.False(t, ok)
}

func TestLightMatrix_Singular(t *testing.T) {
	_, err := NewLightMatrix([3]Vec{{1, 0, 0}, {2, 0, 0}, {0, 0, 1}})
	assert.ErrorIs(t, err, ErrSingularLights)
}

func TestNeedleMap(t *testing.T) {
	m, err := NewLightMatrix(axisLights())
	require.NoError(t, err)
	imgs := [3]*raster.Grid{constant(20, 20, 100), constant(20, 20, 100), constant(20, 20, 100)}

	out, err := NeedleMap(imgs, m, NeedleOptions{Step: 10, Threshold: 85, Length: 10})
	require.NoError(t, err)

	// Normal is (1,1,1)/√3, so the needle from (10,10) ends at (15,15).
	assert.Equal(t, 255, out.At(10, 10))
	assert.Equal(t, 255, out.At(15, 15))
	assert.Equal(t, 0, out.At(9, 9))
	assert.Equal(t, 0, out.At(11, 9))
	assert.Equal(t, 100, out.At(3, 17))
	assert.Equal(t, 255, out.Levels)

	assert.Equal(t, 100, imgs[0].At(10, 10), "input untouched")
}

func TestNeedleMap_BelowThreshold(t *testing.T) {
	m, err := NewLightMatrix(axisLights())
	require.NoError(t, err)
	imgs := [3]*raster.Grid{constant(20, 20, 100), constant(20, 20, 80), constant(20, 20, 100)}

	out, err := NeedleMap(imgs, m, DefaultNeedleOptions())
	require.NoError(t, err)
	assert.True(t, out.Equal(imgs[0]))
}

func TestAlbedoMap(t *testing.T) {
	m, err := NewLightMatrix(axisLights())
	require.NoError(t, err)

	imgs := [3]*raster.Grid{constant(3, 3, 100), constant(3, 3, 100), constant(3, 3, 100)}
	for _, g := range imgs {
		g.Set(1, 1, 200)
	}
	imgs[1].Set(0, 0, 50)

	out, err := AlbedoMap(imgs, m, 85)
	require.NoError(t, err)

	assert.Equal(t, 0, out.At(0, 0))
	assert.Equal(t, 255, out.At(1, 1))
	assert.Equal(t, 128, out.At(2, 2))
	assert.Equal(t, 255, out.Levels)
}

func TestSizeMismatch(t *testing.T) {
	m, err := NewLightMatrix(axisLights())
	require.NoError(t, err)
	imgs := [3]*raster.Grid{constant(4, 4, 100), constant(4, 5, 100), constant(4, 4, 100)}

	_, err = AlbedoMap(imgs, m, 0)
	assert.ErrorIs(t, err, raster.ErrSizeMismatch)
	_, err = NeedleMap(imgs, m, DefaultNeedleOptions())
	assert.ErrorIs(t, err, raster.ErrSizeMismatch)
}

func TestSphereFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSphere(&buf, Sphere{Row: 4, Col: 5.5, Radius: 2}))
	assert.Equal(t, "4.000000 5.500000 2.000000\n", buf.String())

	path := filepath.Join(t.TempDir(), "sphere.txt")
	require.NoError(t, SaveSphereFile(path, Sphere{Row: 1.25, Col: 2, Radius: 3}))
	s, err := LoadSphereFile(path)
	require.NoError(t, err)
	assert.Equal(t, Sphere{Row: 1.25, Col: 2, Radius: 3}, s)
}

func TestLightsFile(t *testing.T) {
	lights := [3]Vec{{1, 2, 3}, {-4, 5.5, 6}, {0, 0, 100}}

	path := filepath.Join(t.TempDir(), "lights.txt")
	require.NoError(t, SaveLightsFile(path, lights))
	got, err := LoadLightsFile(path)
	require.NoError(t, err)
	assert.Equal(t, lights, got)
}

func TestReadLights_Invalid(t *testing.T) {
	_, err := ReadLights(strings.NewReader("1 2 3\n\n4 5 6\n"))
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = ReadLights(strings.NewReader("1 2 3\nabc\n7 8 9\n"))
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = ReadSphere(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrInvalidParams)
}
