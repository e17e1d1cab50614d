package wbm

import (
	"math"

	"github.com/maseology/wbm/grid"
	"github.com/maseology/wbm/tem"
)

// d8 neighbour offsets and unit traverse distances, clockwise from north.
var d8 = [8]struct {
	dr, dc int
	dist   float64
}{
	{-1, 0, 1.}, // N
	{-1, 1, math.Sqrt2},
	{0, 1, 1.}, // E
	{1, 1, math.Sqrt2},
	{1, 0, 1.}, // S
	{1, -1, math.Sqrt2},
	{0, -1, 1.}, // W
	{-1, -1, math.Sqrt2},
}

// buildFlowpaths assigns every unmasked cell the index of its steepest-descent
// (D8) neighbour, considering positive drops only; -1 where no valid neighbour
// sits strictly lower (local sink, flat plateau or outlet). Ties break on the
// fixed direction order, first maximal wins.
func buildFlowpaths(dem *grid.Raster) []int {
	ds := make([]int, dem.Ncells())
	for r := 0; r < dem.Nr; r++ {
		for c := 0; c < dem.Nc; c++ {
			cid := dem.CellID(r, c)
			ds[cid] = -1
			if dem.IsNull(cid) || math.IsNaN(dem.A[cid]) {
				continue
			}
			z0, bestdrop := dem.A[cid], 0.
			for _, n := range d8 {
				rr, cc := r+n.dr, c+n.dc
				if rr < 0 || cc < 0 || rr >= dem.Nr || cc >= dem.Nc {
					continue
				}
				nid := dem.CellID(rr, cc)
				if dem.IsNull(nid) || math.IsNaN(dem.A[nid]) {
					continue
				}
				if drop := (z0 - dem.A[nid]) / n.dist; drop > bestdrop {
					bestdrop = drop
					ds[cid] = nid
				}
			}
		}
	}
	return ds
}

// buildTEM assembles the drainage forest from assigned flowpaths. slope may
// be nil where cell gradients are not yet derived.
func buildTEM(dem, slope *grid.Raster, ds []int) *tem.TEM {
	tecs := make(map[int]tem.TEC, dem.Nactives())
	for i, z := range dem.A {
		if dem.IsNull(i) {
			continue
		}
		s := 0.
		if slope != nil {
			s = slope.A[i]
		}
		tecs[i] = tem.TEC{Z: z, S: s, Ds: ds[i]}
	}
	return tem.New(tecs)
}
