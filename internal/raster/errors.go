package raster

import "errors"

var (
	// ErrNotPGM indicates the input does not start with the binary PGM magic "P5".
	ErrNotPGM = errors.New("raster: expected binary .pgm (P5) data")
	// ErrBadHeader indicates an unreadable size or gray-level line.
	ErrBadHeader = errors.New("raster: malformed pgm header")
	// ErrInvalidSize indicates non-positive grid dimensions.
	ErrInvalidSize = errors.New("raster: rows and columns must be positive")
	// ErrShortFile indicates the pixel data ended before rows*cols bytes were read.
	ErrShortFile = errors.New("raster: short file")
	// ErrNotBinary indicates a binary (max gray level 1) image was required.
	ErrNotBinary = errors.New("raster: expected binary .pgm file")
	// ErrPixelRange indicates a pixel value that does not fit in one byte.
	ErrPixelRange = errors.New("raster: pixel value outside 0..255")
	// ErrSizeMismatch indicates two grids that must share dimensions do not.
	ErrSizeMismatch = errors.New("raster: grid sizes differ")
)
