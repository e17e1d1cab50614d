package wbm

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/maseology/wbm/grid"
)

const testPolyJSON = `{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[175.300,-37.800],[175.301,-37.800],[175.301,-37.801],[175.300,-37.801],[175.300,-37.800]]]}}`

func testPolys(t *testing.T) []Polygon {
	t.Helper()
	polys, err := ParseGeoJSON([]byte(testPolyJSON))
	if err != nil {
		t.Fatal(err)
	}
	return polys
}

func TestSlopeFlat(t *testing.T) {
	dem := testRaster(t, []float64{
		100., 100., 100.,
		100., 100., 100.,
		100., 100., 100.,
	}, 3, 3, 1.)
	slp := buildSlope(dem)
	for cid, v := range slp.A {
		if v != 0. {
			t.Errorf("cell %d: flat terrain slope %f", cid, v)
		}
	}
}

func TestSlopeUniformGradient(t *testing.T) {
	// 10 m drop per 10 m cell: 45 degrees everywhere along the gradient axis
	dem := testRaster(t, []float64{
		100., 90., 80.,
		100., 90., 80.,
		100., 90., 80.,
	}, 3, 3, 10.)
	slp := buildSlope(dem)
	for cid, v := range slp.A {
		if math.Abs(v-45.) > 1e-9 {
			t.Errorf("cell %d: slope %f, expected 45", cid, v)
		}
	}
}

func TestSlopeMaskPoisoning(t *testing.T) {
	dem := testRaster(t, []float64{
		100., 100., 100.,
		100., -9999., 100.,
		100., 100., 100.,
	}, 3, 3, 1.)
	slp := buildSlope(dem)
	if !slp.Msk[4] || !math.IsNaN(slp.A[4]) {
		t.Error("masked cell must stay masked NaN")
	}
	// cells differencing across the masked centre pick up NaN
	for _, cid := range []int{1, 3, 5, 7} {
		if !math.IsNaN(slp.A[cid]) {
			t.Errorf("cell %d: gradient through a masked neighbour must be NaN", cid)
		}
		if slp.Msk[cid] {
			t.Errorf("cell %d: poisoned cell must not become masked", cid)
		}
	}
	// corners difference around the mask and stay finite
	for _, cid := range []int{0, 2, 6, 8} {
		if math.IsNaN(slp.A[cid]) {
			t.Errorf("cell %d: corner slope must be finite", cid)
		}
	}
}

func TestLSFlatIsZero(t *testing.T) {
	dem := testRaster(t, []float64{
		100., 100., 100.,
		100., 100., 100.,
		100., 100., 100.,
	}, 3, 3, 1.)
	slp := buildSlope(dem)
	fa := SortAccumulator{}.Accumulate(dem, buildFlowpaths(dem))
	ls := buildLS(slp, fa)
	for cid, v := range ls.A {
		if dem.IsNull(cid) {
			continue
		}
		if v != 0. {
			t.Errorf("cell %d: LS %f on flat terrain, expected 0", cid, v)
		}
	}
}

func TestLSClamp(t *testing.T) {
	// near-vertical slopes with heavy accumulation blow past the cap
	slp := testRaster(t, []float64{
		85., 85., 85.,
		85., 85., 85.,
		85., 85., 85.,
	}, 3, 3, 10.)
	fa := testRaster(t, []float64{
		1.e9, 1.e9, 1.e9,
		1.e9, 1.e9, 1.e9,
		1.e9, 1.e9, 1.e9,
	}, 3, 3, 10.)
	ls := buildLS(slp, fa)
	for cid, v := range ls.A {
		if math.IsNaN(v) {
			continue
		}
		if v < 0. || v > lsMax {
			t.Errorf("cell %d: LS %f outside [0,%f]", cid, v, lsMax)
		}
	}
	if mx := ls.Max(); mx != lsMax {
		t.Errorf("expected clamp to engage, max LS %f", mx)
	}
}

func TestBuildTerrain(t *testing.T) {
	dem := testRaster(t, []float64{
		100., 90., 80.,
		100., 90., 80.,
		100., 90., 80.,
	}, 3, 3, 10.)
	prfx := filepath.Join(t.TempDir(), "t1")
	terrain, err := BuildTerrain(dem, testPolys(t), nil, prfx)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(terrain.MeanSlopeDeg-45.) > 1e-9 || math.Abs(terrain.MaxSlopeDeg-45.) > 1e-9 {
		t.Errorf("slope stats mean %f max %f, expected 45", terrain.MeanSlopeDeg, terrain.MaxSlopeDeg)
	}
	if math.Abs(terrain.MedianSlopeDeg-45.) > 1e-9 {
		t.Errorf("median slope %f, expected 45", terrain.MedianSlopeDeg)
	}
	if terrain.LSFactor <= 0. {
		t.Errorf("LS factor %f, expected positive on sloped terrain", terrain.LSFactor)
	}
	if terrain.WetlandAreaHa <= 0. || terrain.CatchmentAreaHa <= terrain.WetlandAreaHa {
		t.Errorf("areas: wetland %f, catchment %f", terrain.WetlandAreaHa, terrain.CatchmentAreaHa)
	}
	if terrain.CellSize != 10. {
		t.Errorf("cell size %f", terrain.CellSize)
	}
	for _, fp := range []string{terrain.DEMPath, terrain.SlopePath, terrain.FlowAccumPath} {
		if _, err := os.Stat(fp); err != nil {
			t.Errorf("raster not persisted: %s", fp)
		}
	}
}

func TestBuildTerrainMissingCRS(t *testing.T) {
	gt := [6]float64{0., 1., 0., 0., 0., -1.}
	dem, err := grid.Build(make([]float64, 4), 2, 2, 1., gt, "", -9999.)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := BuildTerrain(dem, testPolys(t), nil, filepath.Join(t.TempDir(), "t")); err == nil {
		t.Error("expected missing-CRS error")
	}
}

func TestBuildTerrainMaskPropagation(t *testing.T) {
	dem := testRaster(t, []float64{
		100., 90., 80.,
		-9999., 90., 80.,
		100., 90., 80.,
	}, 3, 3, 10.)
	prfx := filepath.Join(t.TempDir(), "t2")
	terrain, err := BuildTerrain(dem, testPolys(t), nil, prfx)
	if err != nil {
		t.Fatal(err)
	}
	cid := dem.CellID(1, 0)
	for nam, g := range map[string]float64{
		"slope": terrain.Slope.A[cid], "flow": terrain.FlowAccum.A[cid], "ls": terrain.LS.A[cid],
	} {
		if !math.IsNaN(g) {
			t.Errorf("%s grid: masked cell must be NaN", nam)
		}
	}
	if !terrain.Slope.Msk[cid] || !terrain.FlowAccum.Msk[cid] || !terrain.LS.Msk[cid] {
		t.Error("mask must carry into every derived grid")
	}
}
