package raster

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// ImportOptions controls how non-PGM sources are turned into gray grids.
type ImportOptions struct {
	// Denoise is the radius of a Gaussian blur applied before the gray
	// conversion. Zero disables it.
	Denoise float64
}

// ImportFile loads path as a gray grid. P5 files go through Read untouched;
// any format understood by the imaging package (PNG, JPEG, GIF, BMP, TIFF) is
// decoded, optionally blurred, and converted to 8-bit luminance.
func ImportFile(path string, opts ImportOptions) (*Grid, error) {
	isPGM, err := looksLikePGM(path)
	if err != nil {
		return nil, err
	}
	if isPGM {
		return ReadFile(path)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if opts.Denoise > 0 {
		img = blur.Gaussian(img, opts.Denoise)
	}
	return FromImage(img)
}

func looksLikePGM(path string) (bool, error) {
	if strings.EqualFold(filepath.Ext(path), ".pgm") {
		return true, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	magic := make([]byte, 2)
	n, _ := f.Read(magic)
	return n == 2 && string(magic) == "P5", nil
}

// FromImage converts any image to a gray grid using luminance. The grayscale
// result carries the same value in R, G and B, so R is taken as the pixel.
func FromImage(img image.Image) (*Grid, error) {
	gray := effect.Grayscale(img)
	b := gray.Bounds()
	g, err := NewGrid(b.Dy(), b.Dx())
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g.pix[y*g.cols+x] = int(gray.RGBAAt(x+b.Min.X, y+b.Min.Y).R)
		}
	}
	return g, nil
}

// ToGray renders g as an 8-bit gray image. Values are stretched so that Levels
// maps to white; grids with Levels 255 (or 0) are copied as is.
func ToGray(g *Grid) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.cols, g.rows))
	stretch := g.Levels > 0 && g.Levels != 255
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			v := g.pix[i*g.cols+j]
			if stretch {
				v = v * 255 / g.Levels
			}
			img.SetGray(j, i, color.Gray{Y: clampByte(v)})
		}
	}
	return img
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
