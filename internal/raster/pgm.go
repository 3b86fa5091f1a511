package raster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read decodes a binary PGM (P5) image.
//
// Parameters:
//   - r: Source of the encoded image. It is wrapped in a bufio.Reader, so bytes
//     past the pixel data may be consumed.
//
// Returns:
//   - *Grid: The decoded pixels. Levels holds the header's gray-level field,
//     which is 1 for binary images and the object count for labeled images.
//   - error: Non-nil if the header or pixel data cannot be decoded.
//
// The header is line oriented: the magic "P5", any number of comment lines
// starting with '#', a "<cols> <rows>" line and a gray-level line. The pixel
// data follows as rows*cols single bytes in row-major order. Only 8-bit images
// (gray level at most 255) are supported.
//
// # Errors
//
//   - ErrNotPGM if the first line is not "P5"
//   - ErrBadHeader if the size or gray-level line cannot be parsed
//   - ErrInvalidSize if rows or columns are not positive
//   - ErrShortFile if the file ends before rows*cols pixels
func Read(r io.Reader) (*Grid, error) {
	br := bufio.NewReader(r)

	magic, err := br.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "P5" {
		return nil, ErrNotPGM
	}

	line, err := nextHeaderLine(br)
	if err != nil {
		return nil, err
	}
	var cols, rows int
	if _, err := fmt.Sscanf(line, "%d %d", &cols, &rows); err != nil {
		return nil, fmt.Errorf("%w: size line %q", ErrBadHeader, line)
	}

	line, err = nextHeaderLine(br)
	if err != nil {
		return nil, err
	}
	var levels int
	if _, err := fmt.Sscanf(line, "%d", &levels); err != nil || levels < 0 || levels > 255 {
		return nil, fmt.Errorf("%w: gray-level line %q", ErrBadHeader, line)
	}

	g, err := NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}
	g.Levels = levels

	buf := make([]byte, cols)
	for i := 0; i < rows; i++ {
		if _, err := io.ReadFull(br, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: row %d of %d", ErrShortFile, i, rows)
			}
			return nil, fmt.Errorf("failed to read pixels: %w", err)
		}
		for j, b := range buf {
			g.pix[i*cols+j] = int(b)
		}
	}
	return g, nil
}

// nextHeaderLine returns the next header line that is not a comment.
func nextHeaderLine(br *bufio.Reader) (string, error) {
	for {
		line, err := br.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("%w: %v", ErrBadHeader, err)
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		return strings.TrimSpace(line), nil
	}
}

// ReadFile opens and decodes a P5 image from path.
func ReadFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ReadBinaryFile reads a P5 image whose gray-level field is 1. Any nonzero
// pixel is foreground.
//
// # Errors
//
//   - Any error returned by ReadFile
//   - ErrNotBinary if the gray-level field is not 1
func ReadBinaryFile(path string) (*Grid, error) {
	g, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if g.Levels != 1 {
		return nil, fmt.Errorf("%s: %w (gray levels %d)", path, ErrNotBinary, g.Levels)
	}
	return g, nil
}

// Write encodes g as P5 with an empty comment line and the gray-level field
// zero padded to three digits. Every pixel must fit in a byte.
func Write(w io.Writer, g *Grid) error {
	if g.Levels < 0 || g.Levels > 255 {
		return fmt.Errorf("%w: gray levels %d", ErrPixelRange, g.Levels)
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P5\n#\n%d %d\n%03d\n", g.cols, g.rows, g.Levels); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for k, v := range g.pix {
		if v < 0 || v > 255 {
			return fmt.Errorf("%w: %d at (%d,%d)", ErrPixelRange, v, k/g.cols, k%g.cols)
		}
		if err := bw.WriteByte(byte(v)); err != nil {
			return fmt.Errorf("failed to write pixels: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write pixels: %w", err)
	}
	return nil
}

// WriteFile writes g to path as P5.
func WriteFile(path string, g *Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	if err := Write(f, g); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
