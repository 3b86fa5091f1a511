// Package photometric recovers surface orientation and albedo from three
// images of the same scene lit from three known directions.
//
// Calibration uses a shiny sphere: LocateSphere finds it in a thresholded
// image, and LightSource turns the brightest highlight in each of the three
// calibration images into a light vector whose length is the highlight
// brightness. A LightMatrix built from the three vectors then maps the three
// brightness values of any pixel to a scaled surface normal.
//
// Vectors use the image axes: X along rows, Y along columns and Z toward the
// viewer.
package photometric

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ironsheep/pgm-vision/internal/raster"
)

// Sphere is the calibration sphere's centroid and radius in pixels.
type Sphere struct {
	Row    float64 `json:"row"`
	Col    float64 `json:"col"`
	Radius float64 `json:"radius"`
}

// LocateSphere measures the nonzero region of a binary image. The radius is
// the mean of the region's height and width extents, halved.
func LocateSphere(binary *raster.Grid) (Sphere, error) {
	var sumI, sumJ, area int
	minI, maxI := binary.Rows(), -1
	minJ, maxJ := binary.Cols(), -1

	for i := 0; i < binary.Rows(); i++ {
		for j := 0; j < binary.Cols(); j++ {
			if binary.At(i, j) == 0 {
				continue
			}
			sumI += i
			sumJ += j
			area++
			minI, maxI = min(minI, i), max(maxI, i)
			minJ, maxJ = min(minJ, j), max(maxJ, j)
		}
	}
	if area == 0 {
		return Sphere{}, ErrNoSphere
	}

	return Sphere{
		Row:    float64(sumI) / float64(area),
		Col:    float64(sumJ) / float64(area),
		Radius: float64(maxI-minI+maxJ-minJ) / 4,
	}, nil
}

// WriteSphere stores s as a single "row col radius" line.
func WriteSphere(w io.Writer, s Sphere) error {
	if _, err := fmt.Fprintf(w, "%f %f %f\n", s.Row, s.Col, s.Radius); err != nil {
		return fmt.Errorf("failed to write sphere: %w", err)
	}
	return nil
}

// ReadSphere parses the first non-blank line written by WriteSphere.
func ReadSphere(r io.Reader) (Sphere, error) {
	vecs, err := readVectors(r, 1)
	if err != nil {
		return Sphere{}, err
	}
	return Sphere{Row: vecs[0][0], Col: vecs[0][1], Radius: vecs[0][2]}, nil
}

// SaveSphereFile writes s to path.
func SaveSphereFile(path string, s Sphere) error {
	return writeFile(path, func(w io.Writer) error { return WriteSphere(w, s) })
}

// LoadSphereFile reads a sphere from path.
func LoadSphereFile(path string) (Sphere, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sphere{}, fmt.Errorf("failed to open sphere file: %w", err)
	}
	defer f.Close()

	s, err := ReadSphere(f)
	if err != nil {
		return Sphere{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// readVectors reads n lines of three space separated numbers, skipping blank
// lines.
func readVectors(r io.Reader, n int) ([]Vec, error) {
	sc := bufio.NewScanner(r)
	out := make([]Vec, 0, n)
	for len(out) < n && sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var v Vec
		if _, err := fmt.Sscanf(line, "%g %g %g", &v[0], &v[1], &v[2]); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidParams, line, err)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read parameters: %w", err)
	}
	if len(out) < n {
		return nil, fmt.Errorf("%w: got %d lines, want %d", ErrInvalidParams, len(out), n)
	}
	return out, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
