package wbm

import (
	"math"

	"github.com/maseology/wbm/grid"
)

// reduction is a benefit, never a net change: an after scenario that performs
// worse than before reports zero.
func reduction(before, after float64) float64 {
	if r := before - after; r > 0. {
		return r
	}
	return 0.
}

// buildBenefit differences the before/after delivered-sediment grids
// cell-wise, zeroing NaN and negatives.
func buildBenefit(before, after *grid.Raster) *grid.Raster {
	o := before.EmptyLike()
	for i := range o.A {
		d := before.A[i] - after.A[i]
		if math.IsNaN(d) || d < 0. {
			d = 0.
		}
		o.A[i] = d
	}
	return o
}
