package wbm

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/maseology/mmio"
)

// writeSummary persists the JSON job summary consumed by report templating
// and front-end layers.
func writeSummary(fp string, j Job, terrain *TerrainAnalysisResult, in *RusleInputs, res *RusleResult) error {
	payload := map[string]interface{}{
		"job_id":       j.ID,
		"wetland_name": j.WetlandName,
		"user_name":    j.UserName,
		"terrain":      terrain.Summary(),
		"rusle_inputs": in,
		"rusle_result": res.Summary(),
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("writeSummary failed: %v", err)
	}
	if err := os.WriteFile(fp, b, 0644); err != nil {
		return fmt.Errorf("writeSummary failed: %v", err)
	}
	return nil
}

func writeTotalsCSV(fp string, res *RusleResult) {
	lbl := []interface{}{"soil_loss_tonnes", "delivered_sediment_tonnes", "nitrogen_load_kg", "phosphorus_load_kg"}
	bef := []interface{}{res.Before.SoilLossTonnes, res.Before.DeliveredSedimentTonnes, res.Before.NitrogenLoadKg, res.Before.PhosphorusLoadKg}
	aft := []interface{}{res.After.SoilLossTonnes, res.After.DeliveredSedimentTonnes, res.After.NitrogenLoadKg, res.After.PhosphorusLoadKg}
	red := []interface{}{res.SoilLossReductionTonnes, res.DeliveredReductionTonnes, res.NitrogenReductionKg, res.PhosphorusReductionKg}
	mmio.WriteCSV(fp, "quantity,before,after,reduction", lbl, bef, aft, red)
}
