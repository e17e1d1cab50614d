package wbm

import (
	"math"
	"sort"

	"github.com/maseology/mmaths/topology"
	"github.com/maseology/wbm/grid"
)

// Accumulator computes D8 flow accumulation: the count of cells draining
// through each cell, inclusive of itself (so every unmasked cell holds at
// least 1). Implementations are interchangeable and must agree cell-wise;
// SortAccumulator is the reference.
type Accumulator interface {
	Accumulate(dem *grid.Raster, ds []int) *grid.Raster
}

// SortAccumulator processes cells in descending elevation order so that a
// cell's count is final before it propagates to its downslope neighbour.
// Flowpaths strictly decrease elevation, making this a single topological
// pass over the drainage DAG; no cell is revisited.
type SortAccumulator struct{}

func (SortAccumulator) Accumulate(dem *grid.Raster, ds []int) *grid.Raster {
	n := dem.Ncells()
	zs := make([]float64, n)
	ord := make([]int, n)
	for i := range ord {
		ord[i] = i
		if dem.IsNull(i) || math.IsNaN(dem.A[i]) {
			zs[i] = math.Inf(-1) // masked cells sort last and are skipped
		} else {
			zs[i] = dem.A[i]
		}
	}
	sort.Slice(ord, func(i, j int) bool {
		zi, zj := zs[ord[i]], zs[ord[j]]
		if zi == zj {
			return ord[i] < ord[j] // deterministic tie break on linear index
		}
		return zi > zj
	})

	acc := dem.EmptyLike()
	for i := 0; i < n; i++ {
		if !dem.IsNull(i) {
			acc.A[i] = 1.
		}
	}
	for _, cid := range ord {
		if dem.IsNull(cid) {
			continue
		}
		if d := ds[cid]; d >= 0 && !dem.IsNull(d) {
			acc.A[d] += acc.A[cid]
		}
	}
	return acc
}

// TopoAccumulator propagates counts over the drainage forest ordered from
// headwaters to outlets; behaviour-equivalent to SortAccumulator.
type TopoAccumulator struct{}

func (TopoAccumulator) Accumulate(dem *grid.Raster, ds []int) *grid.Raster {
	t := buildTEM(dem, nil, ds)
	dsm := t.Downslopes()

	acc := dem.EmptyLike()
	for cid := range dsm {
		acc.A[cid] = 1.
	}
	for _, cid := range topology.OrderFromToTree(dsm, -1) {
		if d, ok := dsm[cid]; ok && d >= 0 {
			acc.A[d] += acc.A[cid]
		}
	}
	return acc
}
