package wbm

import (
	"fmt"
	"math"

	"github.com/maseology/mmaths/slice"
	"github.com/maseology/wbm/grid"
)

// buildSlope derives per-cell slope (degrees) by central-difference gradients
// scaled by cell size, one-sided at grid edges. A masked neighbour poisons
// the gradient at adjacent cells with NaN; masked cells themselves stay NaN.
func buildSlope(dem *grid.Raster) *grid.Raster {
	nr, nc, cs := dem.Nr, dem.Nc, dem.Cs
	z := func(r, c int) float64 {
		cid := dem.CellID(r, c)
		if dem.Msk[cid] {
			return math.NaN()
		}
		return dem.A[cid]
	}
	slp := dem.EmptyLike()
	for r := 0; r < nr; r++ {
		for c := 0; c < nc; c++ {
			cid := dem.CellID(r, c)
			if dem.Msk[cid] {
				continue
			}
			var gx, gy float64
			switch {
			case nc == 1:
				gx = 0.
			case c == 0:
				gx = (z(r, 1) - z(r, 0)) / cs
			case c == nc-1:
				gx = (z(r, nc-1) - z(r, nc-2)) / cs
			default:
				gx = (z(r, c+1) - z(r, c-1)) / (2. * cs)
			}
			switch {
			case nr == 1:
				gy = 0.
			case r == 0:
				gy = (z(1, c) - z(0, c)) / cs
			case r == nr-1:
				gy = (z(nr-1, c) - z(nr-2, c)) / cs
			default:
				gy = (z(r+1, c) - z(r-1, c)) / (2. * cs)
			}
			slp.A[cid] = math.Atan(math.Sqrt(gx*gx+gy*gy)) * 180. / math.Pi
		}
	}
	return slp
}

// buildLS combines slope and flow accumulation into the RUSLE length-slope
// factor: contributing area a = accumulation x cell size stands in for
// upslope length. Values clamp to [0,lsMax]; NaN propagates.
func buildLS(slp, acc *grid.Raster) *grid.Raster {
	ls := slp.EmptyLike()
	for i := range ls.A {
		if ls.Msk[i] {
			continue
		}
		b := slp.A[i] * math.Pi / 180.
		a := acc.A[i] * slp.Cs
		v := math.Pow(a/lsUnitPlot, lsM) * math.Pow(math.Sin(b)/lsSlopeRef, lsN)
		if math.IsNaN(v) {
			ls.A[i] = math.NaN()
			continue
		}
		if v < 0. {
			v = 0.
		} else if v > lsMax {
			v = lsMax
		}
		ls.A[i] = v
	}
	return ls
}

// BuildTerrain derives slope, flow accumulation and LS grids from a clipped
// DEM, computes polygon-based areas and slope statistics, and persists the
// DEM, slope and accumulation rasters under prfx. acc selects the flow
// accumulation strategy; nil takes the descending-elevation reference pass.
func BuildTerrain(dem *grid.Raster, polys []Polygon, acc Accumulator, prfx string) (*TerrainAnalysisResult, error) {
	if dem == nil || dem.Ncells() == 0 {
		return nil, fmt.Errorf(" BuildTerrain: empty DEM")
	}
	if len(dem.Proj) == 0 {
		return nil, fmt.Errorf(" BuildTerrain: DEM is missing CRS information")
	}
	wa, err := AreaHa(polys)
	if err != nil {
		return nil, fmt.Errorf(" BuildTerrain: %v", err)
	}
	if wa <= 0. {
		return nil, fmt.Errorf(" BuildTerrain: degenerate (zero-area) wetland polygon")
	}
	ca, err := BufferedAreaHa(polys, catchmentBuffer)
	if err != nil {
		return nil, fmt.Errorf(" BuildTerrain: %v", err)
	}
	if acc == nil {
		acc = SortAccumulator{}
	}

	demfp, slpfp, accfp := prfx+"_dem.bil", prfx+"_slope.bil", prfx+"_flow_accum.bil"
	if err := dem.Save(demfp); err != nil {
		return nil, fmt.Errorf(" BuildTerrain: %v", err)
	}

	slp := buildSlope(dem)
	fa := acc.Accumulate(dem, buildFlowpaths(dem))
	ls := buildLS(slp, fa)

	if err := slp.Save(slpfp); err != nil {
		return nil, fmt.Errorf(" BuildTerrain: %v", err)
	}
	if err := fa.Save(accfp); err != nil {
		return nil, fmt.Errorf(" BuildTerrain: %v", err)
	}

	med := math.NaN()
	if sv := slp.ActiveValues(); len(sv) > 0 {
		med = slice.Median(sv)
	}

	return &TerrainAnalysisResult{
		DEM: dem, Slope: slp, FlowAccum: fa, LS: ls,
		WetlandAreaHa:   wa,
		CatchmentAreaHa: ca,
		MeanSlopeDeg:    slp.Mean(),
		MaxSlopeDeg:     slp.Max(),
		MedianSlopeDeg:  med,
		LSFactor:        ls.Mean(),
		CellSize:        dem.Cs,
		GT:              dem.GT,
		Proj:            dem.Proj,
		DEMPath:         demfp,
		SlopePath:       slpfp,
		FlowAccumPath:   accfp,
	}, nil
}
