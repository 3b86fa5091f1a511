package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// PreviewOptions controls how a grid is rendered for viewing.
type PreviewOptions struct {
	// Scale enlarges (or shrinks) the rendering. Nearest-neighbour resampling is
	// used so label boundaries stay crisp. Zero means 1.
	Scale float64

	// Colorize paints each nonzero label with its own color instead of a gray
	// ramp. Label 0 (background) stays black.
	Colorize bool
}

// PreviewResult contains a rendered grid encoded as base64 PNG.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Labels      int    `json:"labels,omitempty"`
}

// Render converts g to an image according to opts.
func Render(g *Grid, opts PreviewOptions) image.Image {
	var img image.Image
	if opts.Colorize {
		img = colorizeLabels(g)
	} else {
		img = ToGray(g)
	}

	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	if scale != 1 && scale > 0 {
		w := int(math.Max(1, float64(g.cols)*scale))
		h := int(math.Max(1, float64(g.rows)*scale))
		img = imaging.Resize(img, w, h, imaging.NearestNeighbor)
	}
	return img
}

// Preview renders g and returns it as a base64 PNG.
func Preview(g *Grid, opts PreviewOptions) (*PreviewResult, error) {
	img := Render(g, opts)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	res := &PreviewResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}
	if opts.Colorize {
		res.Labels = g.Levels
	}
	return res, nil
}

// SavePreview renders g and writes it to path; the format follows the file
// extension (.png, .jpg, .gif, .bmp, .tif).
func SavePreview(path string, g *Grid, opts PreviewOptions) error {
	if err := imaging.Save(Render(g, opts), path); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	return nil
}

// LabelColor returns the display color for label. Hues are spaced by the golden
// angle so neighbouring labels are easy to tell apart.
func LabelColor(label int) color.RGBA {
	if label <= 0 {
		return color.RGBA{A: 255}
	}
	hue := math.Mod(float64(label)*137.508, 360)
	r, g, b := colorful.Hsv(hue, 0.65, 0.95).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func colorizeLabels(g *Grid) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.cols, g.rows))
	palette := make(map[int]color.RGBA)
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			v := g.pix[i*g.cols+j]
			c, ok := palette[v]
			if !ok {
				c = LabelColor(v)
				palette[v] = c
			}
			img.SetRGBA(j, i, c)
		}
	}
	return img
}
