package photometric

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/pgm-vision/internal/raster"
)

// singularDet is the determinant magnitude below which the light matrix is
// treated as singular.
const singularDet = 1e-16

// LightMatrix solves I = S·(ρ n) for the scaled normal ρ n, where each row of
// S is one light vector and I holds a pixel's three brightness values.
type LightMatrix struct {
	inv mat.Dense
}

// NewLightMatrix inverts the matrix whose rows are lights.
func NewLightMatrix(lights [3]Vec) (*LightMatrix, error) {
	data := make([]float64, 0, 9)
	for _, v := range lights {
		data = append(data, v[0], v[1], v[2])
	}
	s := mat.NewDense(3, 3, data)

	if det := mat.Det(s); math.Abs(det) < singularDet || math.IsNaN(det) {
		return nil, fmt.Errorf("%w: determinant %g", ErrSingularLights, det)
	}

	m := &LightMatrix{}
	if err := m.inv.Inverse(s); err != nil {
		var cond mat.Condition
		// An ill-conditioned but finite inverse is still usable.
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, fmt.Errorf("%w: %v", ErrSingularLights, err)
		}
	}
	return m, nil
}

// Solve returns S⁻¹·I, the surface normal scaled by albedo.
func (m *LightMatrix) Solve(intensity Vec) Vec {
	var out mat.VecDense
	out.MulVec(&m.inv, mat.NewVecDense(3, []float64{intensity[0], intensity[1], intensity[2]}))
	return Vec{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

// Normal returns the unit surface normal for intensity. ok is false when the
// solution has zero length.
func (m *LightMatrix) Normal(intensity Vec) (Vec, bool) {
	n := m.Solve(intensity)
	length := n.Len()
	if length == 0 {
		return Vec{}, false
	}
	return n.Scale(1 / length), true
}

// Albedo returns the length of S⁻¹·I scaled to 0..255 and rounded.
func (m *LightMatrix) Albedo(intensity Vec) int {
	return int(m.Solve(intensity).Len()*255 + 0.5)
}

// NeedleOptions controls NeedleMap.
type NeedleOptions struct {
	// Step is the spacing of the sample grid in pixels.
	Step int
	// Threshold is the brightness every image must exceed at a sample.
	Threshold int
	// Length is the needle length in pixels for a unit normal.
	Length float64
}

// DefaultNeedleOptions returns the settings used by the command line tools.
func DefaultNeedleOptions() NeedleOptions {
	return NeedleOptions{Step: 10, Threshold: 85, Length: 10}
}

func intensityAt(imgs [3]*raster.Grid, i, j int) (Vec, int) {
	a, b, c := imgs[0].At(i, j), imgs[1].At(i, j), imgs[2].At(i, j)
	return Vec{float64(a), float64(b), float64(c)}, min(a, b, c)
}

func checkSizes(imgs [3]*raster.Grid) error {
	for k := 1; k < 3; k++ {
		if !imgs[0].SameSize(imgs[k]) {
			return fmt.Errorf("%w: image %d is %dx%d, image 1 is %dx%d", raster.ErrSizeMismatch,
				k+1, imgs[k].Rows(), imgs[k].Cols(), imgs[0].Rows(), imgs[0].Cols())
		}
	}
	return nil
}

// NeedleMap draws surface normals over a copy of the first image. At every
// Step-th pixel where all three images exceed Threshold it draws a black dot
// and a white needle toward the projected normal.
func NeedleMap(imgs [3]*raster.Grid, m *LightMatrix, opts NeedleOptions) (*raster.Grid, error) {
	if err := checkSizes(imgs); err != nil {
		return nil, err
	}
	step := max(1, opts.Step)

	out := imgs[0].Clone()
	for i := 0; i < out.Rows(); i += step {
		for j := 0; j < out.Cols(); j += step {
			intensity, lowest := intensityAt(imgs, i, j)
			if lowest <= opts.Threshold {
				continue
			}
			n, ok := m.Normal(intensity)
			if !ok {
				continue
			}
			raster.DrawDot(out, i, j, 0)
			raster.DrawLine(out, i, j,
				int(float64(i)+opts.Length*n[0]), int(float64(j)+opts.Length*n[1]), 255, nil)
		}
	}
	if out.Levels < 255 {
		out.Levels = 255
	}
	return out, nil
}

// AlbedoMap computes the albedo of every pixel where all three images exceed
// threshold and scales the result to 0..255. Other pixels are 0.
func AlbedoMap(imgs [3]*raster.Grid, m *LightMatrix, threshold int) (*raster.Grid, error) {
	if err := checkSizes(imgs); err != nil {
		return nil, err
	}

	out := raster.MustGrid(imgs[0].Rows(), imgs[0].Cols())
	for i := 0; i < out.Rows(); i++ {
		for j := 0; j < out.Cols(); j++ {
			intensity, lowest := intensityAt(imgs, i, j)
			if lowest <= threshold {
				continue
			}
			out.Set(i, j, m.Albedo(intensity))
		}
	}
	raster.Scale(out, out.Max())
	out.Levels = 255
	return out, nil
}
