package objects

import (
	"math"

	"github.com/ironsheep/pgm-vision/internal/raster"
)

// Criteria sets how close two objects must be to count as the same shape.
type Criteria struct {
	// AreaRatio is the minimum smaller/larger area ratio.
	AreaRatio float64

	// RoundnessRatio is the minimum smaller/larger roundness ratio.
	RoundnessRatio float64
}

// DefaultCriteria returns the thresholds used when none are configured.
func DefaultCriteria() Criteria {
	return Criteria{AreaRatio: 0.85, RoundnessRatio: 0.90}
}

// Recognize marks every record that resembles at least one record of known
// and returns how many records were marked. Records with zero area never
// match. Previous marks are cleared first.
func (db *Database) Recognize(known *Database, c Criteria) int {
	n := 0
	for k := range db.Records {
		r := &db.Records[k]
		r.Recognized = false
		if r.Area == 0 {
			continue
		}
		for m := range known.Records {
			if matches(r, &known.Records[m], c) {
				r.Recognized = true
				n++
				break
			}
		}
	}
	return n
}

func matches(r, other *Record, c Criteria) bool {
	if other.Area == 0 {
		return false
	}
	return similar(float64(r.Area), float64(other.Area), c.AreaRatio) &&
		similar(r.Roundness(), other.Roundness(), c.RoundnessRatio)
}

// similar reports whether min(x,y)/max(x,y) reaches ratio. Two zeros are
// similar.
func similar(x, y, ratio float64) bool {
	lo, hi := math.Min(x, y), math.Max(x, y)
	if hi == 0 {
		return lo == 0
	}
	return lo/hi >= ratio
}

// Annotate draws every object's position and orientation into g: a 3×3 dot at
// the centroid and a segment of length pixels along θ, both with value 0.
// With recognizedOnly set, unrecognized records are skipped.
func Annotate(g *raster.Grid, db *Database, recognizedOnly bool, length int) {
	for k := range db.Records {
		r := &db.Records[k]
		if r.Area == 0 || (recognizedOnly && !r.Recognized) {
			continue
		}
		r0, c0 := r.RowCenter, r.ColCenter
		r1 := int(float64(r0) + float64(length)*math.Cos(r.Theta) + 0.5)
		c1 := int(float64(c0) + float64(length)*math.Sin(r.Theta) + 0.5)

		raster.DrawLine(g, r0, c0, r1, c1, 0, nil)
		raster.DrawDot(g, r0, c0, 0)
	}
}
