// Package hough detects straight lines with the Hough transform.
//
// # Parameter Space
//
// A line is written as ρ = i·cos θ + j·sin θ, where (i, j) is a (row, column)
// pixel. θ is sampled in ThetaBins steps over [0°, 180°), five bins per degree.
// ρ is offset by RhoShift, the rounded image diagonal, so that negative
// distances land on valid accumulator rows; the accumulator has 3·RhoShift
// rows.
//
// # Peaks
//
// Peaks are found by thresholding the vote image, labeling its connected blobs
// and taking each blob's vote-weighted centroid. Nearby peaks are then merged
// by Optimize so that one image line yields one detected line.
package hough

import (
	"math"

	"github.com/ironsheep/pgm-vision/internal/raster"
)

const (
	// ThetaBins is the number of θ samples over 180 degrees.
	ThetaBins = 180 * BinsPerDegree

	// BinsPerDegree converts a θ bin index to degrees.
	BinsPerDegree = 5
)

// Space is a filled Hough accumulator.
type Space struct {
	// Votes has 3·RhoShift rows and ThetaBins columns. Values are scaled so
	// the strongest cell is 255.
	Votes *raster.Grid

	// RhoShift is the row offset of ρ = 0.
	RhoShift int

	// MaxVotes is the raw vote count of the strongest cell before scaling.
	MaxVotes int
}

// RhoShiftFor returns the ρ offset for an image of the given size: the length
// of its diagonal rounded to the nearest integer.
func RhoShiftFor(rows, cols int) int {
	return int(math.Sqrt(float64(rows*rows+cols*cols)) + 0.5)
}

// Transform lets every nonzero pixel of edges vote for all lines through it.
func Transform(edges *raster.Grid) *Space {
	rows, cols := edges.Rows(), edges.Cols()
	shift := RhoShiftFor(rows, cols)
	votes := raster.MustGrid(3*shift, ThetaBins)

	var sines, cosines [ThetaBins]float64
	for t := 0; t < ThetaBins; t++ {
		sines[t], cosines[t] = math.Sincos(float64(t) * math.Pi / ThetaBins)
	}

	maxVotes := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if edges.At(i, j) == 0 {
				continue
			}
			for t := 0; t < ThetaBins; t++ {
				rho := int(math.Floor(float64(i)*cosines[t]+float64(j)*sines[t]+0.5)) + shift
				if !votes.Inside(rho, t) {
					continue
				}
				maxVotes = max(maxVotes, votes.Increment(rho, t))
			}
		}
	}

	raster.Scale(votes, maxVotes)
	return &Space{Votes: votes, RhoShift: shift, MaxVotes: maxVotes}
}
