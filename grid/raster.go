package grid

import (
	"fmt"
	"math"
)

// Raster is a single-band, row-major grid of float64 values with a parallel
// nodata mask, square cells, a 6-coefficient affine geotransform and a CRS tag.
// Cell (row,col) maps to world coordinates by:
//
//	x = GT[0] + col*GT[1] + row*GT[2]
//	y = GT[3] + col*GT[4] + row*GT[5]
//
// Masked cells hold NaN; derived grids carry the mask forward.
type Raster struct {
	A      []float64
	Msk    []bool
	Nr, Nc int
	Cs     float64 // cell width
	GT     [6]float64
	Proj   string // CRS identifier (e.g. "EPSG:2193")
}

// Build constructs a Raster from raw values, flagging cells equal to the
// nodata sentinel (or already NaN) as masked.
func Build(a []float64, nr, nc int, cs float64, gt [6]float64, proj string, ndv float64) (*Raster, error) {
	if nr <= 0 || nc <= 0 {
		return nil, fmt.Errorf(" grid.Build: invalid shape %d x %d", nr, nc)
	}
	if len(a) != nr*nc {
		return nil, fmt.Errorf(" grid.Build: %d values for a %d x %d grid", len(a), nr, nc)
	}
	if cs <= 0. {
		return nil, fmt.Errorf(" grid.Build: invalid cell size %f", cs)
	}
	r := Raster{
		A:   make([]float64, nr*nc),
		Msk: make([]bool, nr*nc),
		Nr:  nr, Nc: nc,
		Cs: cs, GT: gt, Proj: proj,
	}
	for i, v := range a {
		if math.IsNaN(v) || v == ndv {
			r.A[i] = math.NaN()
			r.Msk[i] = true
		} else {
			r.A[i] = v
		}
	}
	return &r, nil
}

// EmptyLike returns a new NaN-filled raster sharing shape, mask and
// georeferencing, for building derived grids.
func (r *Raster) EmptyLike() *Raster {
	o := Raster{
		A:   make([]float64, len(r.A)),
		Msk: make([]bool, len(r.Msk)),
		Nr:  r.Nr, Nc: r.Nc,
		Cs: r.Cs, GT: r.GT, Proj: r.Proj,
	}
	for i := range o.A {
		o.A[i] = math.NaN()
	}
	copy(o.Msk, r.Msk)
	return &o
}

// Copy returns a deep copy.
func (r *Raster) Copy() *Raster {
	o := r.EmptyLike()
	copy(o.A, r.A)
	return o
}

func (r *Raster) Ncells() int { return r.Nr * r.Nc }

// CellID converts (row,col) to a linear cell index.
func (r *Raster) CellID(row, col int) int { return row*r.Nc + col }

// RowCol converts a linear cell index to (row,col).
func (r *Raster) RowCol(cid int) (int, int) { return cid / r.Nc, cid % r.Nc }

// Coord returns the centroid world coordinate of a cell.
func (r *Raster) Coord(cid int) (x, y float64) {
	row, col := r.RowCol(cid)
	fc, fr := float64(col)+.5, float64(row)+.5
	x = r.GT[0] + fc*r.GT[1] + fr*r.GT[2]
	y = r.GT[3] + fc*r.GT[4] + fr*r.GT[5]
	return
}

// CellArea cell area in square (ground) units.
func (r *Raster) CellArea() float64 { return r.Cs * r.Cs }

// IsNull reports whether a cell is masked.
func (r *Raster) IsNull(cid int) bool { return r.Msk[cid] }

// Nactives counts unmasked cells.
func (r *Raster) Nactives() int {
	n := 0
	for _, m := range r.Msk {
		if !m {
			n++
		}
	}
	return n
}
