package wbm

import (
	"fmt"
	"path/filepath"

	"github.com/maseology/mmio"
	"github.com/maseology/wbm/grid"
)

// Job identifies one calculation: outputs are keyed by ID under OutDir, so
// concurrent jobs never contend over the same rasters.
type Job struct {
	ID          string
	WetlandName string
	UserName    string
	OutDir      string
}

func (j Job) prfx() string {
	id := j.ID
	if len(id) == 0 {
		id = "job"
	}
	return filepath.Join(j.OutDir, id)
}

// RunJob executes the full pipeline for one job: terrain analysis, the
// before/after RUSLE scenarios, benefit aggregation, and persistence of gob
// results, a totals CSV and a JSON summary for downstream report/API layers.
// A pure function of its inputs; any failure aborts the job whole, leaving
// no partial result.
func RunJob(dem *grid.Raster, polys []Polygon, in RusleInputs, acc Accumulator, j Job) (*TerrainAnalysisResult, *RusleResult, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}
	mmio.MakeDir(j.OutDir)
	prfx := j.prfx()

	terrain, err := BuildTerrain(dem, polys, acc, prfx)
	if err != nil {
		return nil, nil, fmt.Errorf(" RunJob %s: %v", j.ID, err)
	}
	in.LSFactor = terrain.LSFactor

	res, err := EvaluateRusle(terrain, &in, prfx)
	if err != nil {
		return nil, nil, fmt.Errorf(" RunJob %s: %v", j.ID, err)
	}

	if err := terrain.SaveGob(prfx + "_terrain.gob"); err != nil {
		return nil, nil, fmt.Errorf(" RunJob %s: %v", j.ID, err)
	}
	if err := res.SaveGob(prfx + "_rusle.gob"); err != nil {
		return nil, nil, fmt.Errorf(" RunJob %s: %v", j.ID, err)
	}
	writeTotalsCSV(prfx+"_totals.csv", res)
	if err := writeSummary(prfx+"_summary.json", j, terrain, &in, res); err != nil {
		return nil, nil, fmt.Errorf(" RunJob %s: %v", j.ID, err)
	}

	return terrain, res, nil
}

// LoadDomain restores a previously computed job from its gob artifacts.
func LoadDomain(prfx string) (*TerrainAnalysisResult, *RusleResult, error) {
	terrain, err := LoadGobTerrain(prfx + "_terrain.gob")
	if err != nil {
		return nil, nil, fmt.Errorf(" LoadDomain: %v", err)
	}
	res, err := LoadGobRusle(prfx + "_rusle.gob")
	if err != nil {
		return nil, nil, fmt.Errorf(" LoadDomain: %v", err)
	}
	return terrain, res, nil
}
