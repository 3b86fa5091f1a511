package photometric

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ironsheep/pgm-vision/internal/raster"
)

// Vec is a 3D vector (X along rows, Y along columns, Z toward the viewer).
type Vec [3]float64

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Scale returns v multiplied by k.
func (v Vec) Scale(k float64) Vec {
	return Vec{v[0] * k, v[1] * k, v[2] * k}
}

// window is how far past the radius the highlight search extends.
const window = 1.2

// Highlight is the brightest pixel found near the sphere.
type Highlight struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

// FindHighlight returns the brightest pixel within window·radius of the
// sphere's center, clipped to img. Ties keep the first pixel in raster order.
func FindHighlight(s Sphere, img *raster.Grid) Highlight {
	iStart := max(0, int(s.Row-window*s.Radius))
	iEnd := min(img.Rows()-1, int(s.Row+window*s.Radius))
	jStart := max(0, int(s.Col-window*s.Radius))
	jEnd := min(img.Cols()-1, int(s.Col+window*s.Radius))

	best := Highlight{Row: -1, Col: -1, Value: -1}
	for i := iStart; i <= iEnd; i++ {
		for j := jStart; j <= jEnd; j++ {
			if v := img.At(i, j); v > best.Value {
				best = Highlight{Row: i, Col: j, Value: v}
			}
		}
	}
	return best
}

// LightSource derives a light vector from one calibration image: the sphere
// normal under the highlight, scaled to the highlight's brightness.
func LightSource(s Sphere, img *raster.Grid) (Vec, error) {
	h := FindHighlight(s, img)
	if h.Value < 0 {
		return Vec{}, fmt.Errorf("%w: search window is empty", ErrNoLight)
	}

	x := float64(h.Row) - s.Row
	y := float64(h.Col) - s.Col
	// Highlights found just outside the silhouette lie on the rim.
	z := math.Sqrt(math.Max(0, s.Radius*s.Radius-x*x-y*y))

	n := Vec{x, y, z}
	length := n.Len()
	if length == 0 {
		return Vec{}, fmt.Errorf("%w: highlight at sphere center", ErrNoLight)
	}
	return n.Scale(float64(h.Value) / length), nil
}

// LightSources runs LightSource on each calibration image.
func LightSources(s Sphere, imgs [3]*raster.Grid) ([3]Vec, error) {
	var out [3]Vec
	for k, img := range imgs {
		v, err := LightSource(s, img)
		if err != nil {
			return out, fmt.Errorf("image %d: %w", k+1, err)
		}
		out[k] = v
	}
	return out, nil
}

// WriteLights stores three light vectors, one "x y z" line each.
func WriteLights(w io.Writer, lights [3]Vec) error {
	for _, v := range lights {
		if _, err := fmt.Fprintf(w, "%f %f %f\n", v[0], v[1], v[2]); err != nil {
			return fmt.Errorf("failed to write lights: %w", err)
		}
	}
	return nil
}

// ReadLights parses the three vectors written by WriteLights.
func ReadLights(r io.Reader) ([3]Vec, error) {
	var out [3]Vec
	vecs, err := readVectors(r, 3)
	if err != nil {
		return out, err
	}
	copy(out[:], vecs)
	return out, nil
}

// SaveLightsFile writes lights to path.
func SaveLightsFile(path string, lights [3]Vec) error {
	return writeFile(path, func(w io.Writer) error { return WriteLights(w, lights) })
}

// LoadLightsFile reads three light vectors from path.
func LoadLightsFile(path string) ([3]Vec, error) {
	f, err := os.Open(path)
	if err != nil {
		return [3]Vec{}, fmt.Errorf("failed to open lights file: %w", err)
	}
	defer f.Close()

	lights, err := ReadLights(f)
	if err != nil {
		return lights, fmt.Errorf("%s: %w", path, err)
	}
	return lights, nil
}
