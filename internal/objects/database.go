package objects

import (
	"math"

	"github.com/ironsheep/pgm-vision/internal/raster"
)

// Bounds is the inclusive bounding box of an object in pixel coordinates.
type Bounds struct {
	MinRow int `json:"min_row"`
	MinCol int `json:"min_col"`
	MaxRow int `json:"max_row"`
	MaxCol int `json:"max_col"`
}

// Record holds the accumulated sums and derived attributes of one object.
type Record struct {
	// Label is the object's number in the labeled image.
	Label int `json:"label"`

	// Area is the number of pixels carrying Label.
	Area int64 `json:"area"`

	// Raw moment sums over the object's pixels (i = row, j = column).
	SumI  int64 `json:"-"`
	SumJ  int64 `json:"-"`
	SumIJ int64 `json:"-"`
	SumII int64 `json:"-"`
	SumJJ int64 `json:"-"`

	// RowCenter and ColCenter are the centroid rounded to the nearest pixel.
	RowCenter int `json:"row_center"`
	ColCenter int `json:"col_center"`

	// Theta is the orientation of the axis of least inertia in radians,
	// measured from the vertical axis.
	Theta float64 `json:"theta"`

	// MinE and MaxE are the least and greatest second moments of inertia.
	MinE float64 `json:"min_e"`
	MaxE float64 `json:"max_e"`

	// Bounds is only known for records measured from an image.
	Bounds *Bounds `json:"bounds,omitempty"`

	// Recognized is set by Database.Recognize.
	Recognized bool `json:"recognized"`
}

// Roundness returns MinE/MaxE. Degenerate objects whose greatest moment is 0
// (a single pixel) count as perfectly round.
func (r *Record) Roundness() float64 {
	if r.MaxE == 0 {
		return 1
	}
	return r.MinE / r.MaxE
}

// ThetaDegrees returns Theta converted to degrees.
func (r *Record) ThetaDegrees() float64 {
	return r.Theta * 180 / math.Pi
}

func (r *Record) add(i, j int) {
	ii, jj := int64(i), int64(j)
	r.Area++
	r.SumI += ii
	r.SumJ += jj
	r.SumIJ += ii * jj
	r.SumII += ii * ii
	r.SumJJ += jj * jj

	if r.Bounds == nil {
		r.Bounds = &Bounds{MinRow: i, MinCol: j, MaxRow: i, MaxCol: j}
		return
	}
	b := r.Bounds
	b.MinRow = min(b.MinRow, i)
	b.MinCol = min(b.MinCol, j)
	b.MaxRow = max(b.MaxRow, i)
	b.MaxCol = max(b.MaxCol, j)
}

// Database is an ordered list of object records. Record k describes label k+1
// for databases built from an image.
type Database struct {
	Records []Record `json:"records"`
}

// New returns a database with n empty records labeled 1..n.
func New(n int) *Database {
	db := &Database{Records: make([]Record, n)}
	for k := range db.Records {
		db.Records[k].Label = k + 1
	}
	return db
}

// FromLabeled scans a labeled grid and accumulates one record per label
// 1..g.Levels. Pixels whose value is outside that range are ignored.
// The derived attributes still need CalculateProperties.
func FromLabeled(g *raster.Grid) *Database {
	db := New(g.Levels)
	rows, cols := g.Rows(), g.Cols()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			db.Add(g.At(i, j), i, j)
		}
	}
	return db
}

// Add records pixel (i, j) as part of the object labeled label. Labels
// outside 1..Len() are ignored.
func (db *Database) Add(label, i, j int) {
	if label <= 0 || label > len(db.Records) {
		return
	}
	db.Records[label-1].add(i, j)
}

// Len returns the number of records.
func (db *Database) Len() int {
	return len(db.Records)
}

// Lookup returns the record for label, or nil when there is none.
func (db *Database) Lookup(label int) *Record {
	for k := range db.Records {
		if db.Records[k].Label == label {
			return &db.Records[k]
		}
	}
	return nil
}

// CalculateProperties derives centroid, orientation and moments of inertia
// from the accumulated sums. Records with zero area are left untouched.
//
// The central second moments a, b and c are truncated toward zero before θ and
// E(θ) are evaluated, so values match databases written by earlier releases of
// the properties tool bit for bit.
func (db *Database) CalculateProperties() {
	for k := range db.Records {
		r := &db.Records[k]
		if r.Area == 0 {
			continue
		}
		area := float64(r.Area)
		x := float64(r.SumI) / area
		y := float64(r.SumJ) / area

		a := truncate(float64(r.SumII) - x*x*area)
		b := truncate(2*float64(r.SumIJ) - 2*x*y*area)
		c := truncate(float64(r.SumJJ) - y*y*area)

		theta := 0.5 * math.Atan2(b, a-c)

		r.RowCenter = int(x + 0.5)
		r.ColCenter = int(y + 0.5)
		r.Theta = theta
		r.MinE = inertia(a, b, c, theta)
		r.MaxE = inertia(a, b, c, theta+math.Pi/2)
	}
}

func truncate(v float64) float64 {
	return float64(int64(v))
}

// inertia evaluates the second moment about the axis through the centroid at
// angle theta from the vertical.
func inertia(a, b, c, theta float64) float64 {
	s, co := math.Sincos(theta)
	return a*s*s - b*s*co + c*co*co
}
