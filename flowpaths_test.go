package wbm

import (
	"math"
	"testing"

	"github.com/maseology/wbm/grid"
)

func testRaster(t *testing.T, a []float64, nr, nc int, cs float64) *grid.Raster {
	t.Helper()
	gt := [6]float64{1764000., cs, 0., 5437000., 0., -cs}
	r, err := grid.Build(a, nr, nc, cs, gt, "EPSG:2193", -9999.)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestFlowpathsRowGradient(t *testing.T) {
	// strictly decreasing along rows; gradient purely horizontal
	dem := testRaster(t, []float64{
		100., 90., 80.,
		100., 90., 80.,
		100., 90., 80.,
	}, 3, 3, 10.)
	ds := buildFlowpaths(dem)
	for r := 0; r < 3; r++ {
		if ds[dem.CellID(r, 0)] != dem.CellID(r, 1) {
			t.Errorf("row %d col 0 must drain east", r)
		}
		if ds[dem.CellID(r, 1)] != dem.CellID(r, 2) {
			t.Errorf("row %d col 1 must drain east", r)
		}
		if ds[dem.CellID(r, 2)] != -1 {
			t.Errorf("row %d col 2 is the row low point, direction must be none", r)
		}
	}
}

func TestFlowpathsSink(t *testing.T) {
	// flat grid: no positive drop anywhere
	dem := testRaster(t, []float64{
		100., 100., 100.,
		100., 100., 100.,
		100., 100., 100.,
	}, 3, 3, 1.)
	for cid, d := range buildFlowpaths(dem) {
		if d != -1 {
			t.Errorf("cell %d: flat cell assigned a direction", cid)
		}
	}
}

func TestFlowpathsDiagonalWeighting(t *testing.T) {
	// drop east = 10; drop south-east = 15/sqrt2 ~ 10.6: diagonal wins only
	// when its distance-weighted drop exceeds the orthogonal one
	dem := testRaster(t, []float64{
		100., 90.,
		95., 85.,
	}, 2, 2, 1.)
	ds := buildFlowpaths(dem)
	if ds[0] != 3 {
		t.Errorf("cell 0 must drain south-east, got %d", ds[0])
	}
}

func TestFlowpathsMaskedNeighbour(t *testing.T) {
	dem := testRaster(t, []float64{
		100., -9999.,
		95., 85.,
	}, 2, 2, 1.)
	ds := buildFlowpaths(dem)
	if ds[1] != -1 {
		t.Error("masked cell must have no direction")
	}
	if ds[0] != 3 {
		t.Errorf("cell 0 must route around the masked neighbour, got %d", ds[0])
	}
}

func accumulators() map[string]Accumulator {
	return map[string]Accumulator{
		"sort": SortAccumulator{},
		"topo": TopoAccumulator{},
	}
}

func TestAccumulationRowGradient(t *testing.T) {
	dem := testRaster(t, []float64{
		100., 90., 80.,
		100., 90., 80.,
		100., 90., 80.,
	}, 3, 3, 10.)
	ds := buildFlowpaths(dem)
	for nam, acc := range accumulators() {
		fa := acc.Accumulate(dem, ds)
		for r := 0; r < 3; r++ {
			got := []float64{fa.A[dem.CellID(r, 0)], fa.A[dem.CellID(r, 1)], fa.A[dem.CellID(r, 2)]}
			if got[0] != 1. || got[1] != 2. || got[2] != 3. {
				t.Errorf("%s row %d: accumulation %v, expected [1 2 3]", nam, r, got)
			}
		}
	}
}

func TestAccumulationPlanarOutlet(t *testing.T) {
	// plane dipping to the south-east: all drainage converges on one outlet
	a := make([]float64, 16)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			a[r*4+c] = 100. - float64(r) - float64(c)
		}
	}
	dem := testRaster(t, a, 4, 4, 1.)
	ds := buildFlowpaths(dem)
	for nam, acc := range accumulators() {
		fa := acc.Accumulate(dem, ds)
		if out := fa.A[dem.CellID(3, 3)]; out != 16. {
			t.Errorf("%s: outlet accumulation %f, expected full cell count 16", nam, out)
		}
	}
}

func TestAccumulationInvariants(t *testing.T) {
	dem := testRaster(t, []float64{
		105., 102., 101.,
		-9999., 100., 99.,
		103., 98., 90.,
	}, 3, 3, 5.)
	ds := buildFlowpaths(dem)
	for nam, acc := range accumulators() {
		fa := acc.Accumulate(dem, ds)
		for cid := range fa.A {
			if dem.IsNull(cid) {
				if !math.IsNaN(fa.A[cid]) {
					t.Errorf("%s cell %d: masked cell must stay NaN", nam, cid)
				}
				continue
			}
			if fa.A[cid] < 1. {
				t.Errorf("%s cell %d: accumulation %f below 1", nam, cid, fa.A[cid])
			}
		}
	}
}

func TestAccumulatorsAgreeWithClimb(t *testing.T) {
	dem := testRaster(t, []float64{
		110., 104., 103., 108.,
		109., 101., 100., 107.,
		112., 102., 99., 106.,
		111., 105., 97., 96.,
	}, 4, 4, 2.)
	ds := buildFlowpaths(dem)
	ref := SortAccumulator{}.Accumulate(dem, ds)
	alt := TopoAccumulator{}.Accumulate(dem, ds)
	tm := buildTEM(dem, nil, ds)
	for cid := range ref.A {
		if dem.IsNull(cid) {
			continue
		}
		if ref.A[cid] != alt.A[cid] {
			t.Errorf("cell %d: accumulators disagree, %f vs %f", cid, ref.A[cid], alt.A[cid])
		}
		if uca := tm.UnitContributingArea(cid); uca != ref.A[cid] {
			t.Errorf("cell %d: contributing-area climb %f != accumulation %f", cid, uca, ref.A[cid])
		}
	}
}
