package hough

import (
	"math"

	"github.com/ironsheep/pgm-vision/internal/labeling"
	"github.com/ironsheep/pgm-vision/internal/raster"
)

// Peak is one detected line in (ρ, θ) form.
type Peak struct {
	// Rho is the signed distance of the line from the top-left pixel.
	Rho float64 `json:"rho"`

	// Theta is the line normal's angle in degrees, 0 <= θ < 180.
	Theta float64 `json:"theta"`

	// Weight is the sum of the votes that formed the peak.
	Weight int64 `json:"weight"`

	// Area is the number of accumulator cells that formed the peak.
	Area int `json:"area"`
}

// Options tunes peak detection.
type Options struct {
	// Threshold zeroes accumulator cells at or below this scaled vote count
	// before blobs are labeled.
	Threshold int

	// RhoTolerance and ThetaTolerance bound how far apart (exclusive) two
	// peaks may be and still be merged by Optimize.
	RhoTolerance   float64
	ThetaTolerance float64
}

// DefaultOptions returns the thresholds used when none are configured.
func DefaultOptions() Options {
	return Options{Threshold: 100, RhoTolerance: 10, ThetaTolerance: 7}
}

type blob struct {
	area   int
	weight int64
	rowSum int64
	colSum int64
}

// FindPeaks locates the blobs of votes above opts.Threshold in a Hough image
// and returns one peak per blob, merged with Optimize.
//
// Parameters:
//   - votes: The scaled accumulator from Transform. It is not modified.
//   - rhoShift: The accumulator row holding ρ = 0.
//   - opts: Vote threshold and the ρ/θ tolerances used to merge peaks. A
//     threshold of 0 keeps every nonzero cell.
//
// Returns:
//   - []Peak: One line per surviving blob, with ρ in pixels and θ in degrees.
//     Empty when no cell exceeds the threshold.
//
// Blobs are found by labeling the thresholded vote image; each peak is the
// vote-weighted centroid of its blob.
func FindPeaks(votes *raster.Grid, rhoShift int, opts Options) []Peak {
	work := votes.Clone()
	if opts.Threshold > 0 {
		raster.ThresholdKeep(work, opts.Threshold)
	}
	labels, res := labeling.LabelBinary(work)

	blobs := make([]blob, res.Count)
	for i := 0; i < labels.Rows(); i++ {
		for j := 0; j < labels.Cols(); j++ {
			l := labels.At(i, j)
			if l == 0 {
				continue
			}
			v := int64(work.At(i, j))
			b := &blobs[l-1]
			b.area++
			b.weight += v
			b.rowSum += int64(i) * v
			b.colSum += int64(j) * v
		}
	}

	peaks := make([]Peak, 0, len(blobs))
	for _, b := range blobs {
		if b.weight == 0 {
			continue
		}
		r := float64(b.rowSum) / float64(b.weight)
		c := float64(b.colSum) / float64(b.weight)
		peaks = append(peaks, Peak{
			Rho:    r - float64(rhoShift),
			Theta:  c / BinsPerDegree,
			Weight: b.weight,
			Area:   b.area,
		})
	}
	return Optimize(peaks, opts.RhoTolerance, opts.ThetaTolerance)
}

// Optimize merges peaks that lie closer than rhoTol in ρ and thetaTol in θ.
// Each peak joins the first earlier cluster it is close to; merged peaks take
// the vote-weighted mean of ρ and θ and the summed weight. Cluster order
// follows the first peak of each cluster.
func Optimize(peaks []Peak, rhoTol, thetaTol float64) []Peak {
	merged := make([]Peak, 0, len(peaks))
	for _, p := range peaks {
		k := -1
		for m := range merged {
			if math.Abs(merged[m].Rho-p.Rho) < rhoTol && math.Abs(merged[m].Theta-p.Theta) < thetaTol {
				k = m
				break
			}
		}
		if k < 0 {
			merged = append(merged, p)
			continue
		}
		merged[k] = combine(merged[k], p)
	}
	return merged
}

func combine(a, b Peak) Peak {
	wa, wb := float64(a.Weight), float64(b.Weight)
	total := wa + wb
	if total == 0 {
		return a
	}
	return Peak{
		Rho:    (a.Rho*wa + b.Rho*wb) / total,
		Theta:  (a.Theta*wa + b.Theta*wb) / total,
		Weight: a.Weight + b.Weight,
		Area:   a.Area + b.Area,
	}
}

// Detect runs Transform on edges and FindPeaks on the result.
//
// Returns:
//   - []Peak: The detected lines.
//   - *Space: The accumulator, for callers that report MaxVotes or save the
//     vote image.
func Detect(edges *raster.Grid, opts Options) ([]Peak, *Space) {
	space := Transform(edges)
	return FindPeaks(space.Votes, space.RhoShift, opts), space
}
