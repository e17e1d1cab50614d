package wbm

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/maseology/wbm/grid"
)

// TerrainAnalysisResult holds the terrain layers and statistics derived from
// a single DEM clip. Built once per job, read-only thereafter.
type TerrainAnalysisResult struct {
	DEM, Slope, FlowAccum, LS *grid.Raster

	WetlandAreaHa   float64
	CatchmentAreaHa float64 // fixed-buffer approximation, not a delineated watershed
	MeanSlopeDeg    float64
	MaxSlopeDeg     float64
	MedianSlopeDeg  float64
	LSFactor        float64 // masked mean of the LS grid
	CellSize        float64
	GT              [6]float64
	Proj            string

	DEMPath, SlopePath, FlowAccumPath string
}

// Summary returns a serialisable summary, excluding the heavy grids.
func (t *TerrainAnalysisResult) Summary() map[string]interface{} {
	return map[string]interface{}{
		"wetland_area_ha":        t.WetlandAreaHa,
		"catchment_area_ha":      t.CatchmentAreaHa,
		"mean_slope_deg":         t.MeanSlopeDeg,
		"max_slope_deg":          t.MaxSlopeDeg,
		"median_slope_deg":       t.MedianSlopeDeg,
		"ls_factor":              t.LSFactor,
		"cell_size":              t.CellSize,
		"crs":                    t.Proj,
		"clipped_dem_path":       t.DEMPath,
		"slope_raster_path":      t.SlopePath,
		"flow_accum_raster_path": t.FlowAccumPath,
	}
}

func (t *TerrainAnalysisResult) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" TerrainAnalysisResult.Save %v", err)
	}
	if err := gob.NewEncoder(f).Encode(t); err != nil {
		return fmt.Errorf(" TerrainAnalysisResult.Save %v", err)
	}
	f.Close()
	return nil
}

func LoadGobTerrain(fp string) (*TerrainAnalysisResult, error) {
	var t TerrainAnalysisResult
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	if err := gob.NewDecoder(f).Decode(&t); err != nil {
		return nil, err
	}
	f.Close()
	return &t, nil
}
