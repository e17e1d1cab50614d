package wbm

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Efficiency holds pollutant trapping fractions in [0,1]. The three
// pollutants are fixed by the model.
type Efficiency struct {
	Sediment   float64 `json:"sediment"`
	Nitrogen   float64 `json:"nitrogen"`
	Phosphorus float64 `json:"phosphorus"`
}

// RusleInputs is one calculation job's parameter set. Immutable once built.
type RusleInputs struct {
	RainfallFactor        float64    `json:"rainfall_factor"`         // R (MJ mm/ha/h/yr)
	SoilErodibility       float64    `json:"soil_erodibility"`        // K (t ha h/ha/MJ/mm)
	LSFactor              float64    `json:"ls_factor"`               // scalar LS, masked mean from terrain analysis
	CoverBefore           float64    `json:"cover_before"`            // C factor
	CoverAfter            float64    `json:"cover_after"`             // C factor
	SupportBefore         float64    `json:"support_before"`          // P factor
	SupportAfter          float64    `json:"support_after"`           // P factor
	SedimentDeliveryRatio float64    `json:"sediment_delivery_ratio"` // fraction of eroded soil reaching the waterway
	Efficiencies          Efficiency `json:"efficiencies"`
}

// DefaultInputs mirrors the default fencing scenario parameterization.
func DefaultInputs() RusleInputs {
	return RusleInputs{
		RainfallFactor:        600.,
		SoilErodibility:       .28,
		CoverBefore:           .3,
		CoverAfter:            .05,
		SupportBefore:         .5,
		SupportAfter:          .2,
		SedimentDeliveryRatio: .6,
		Efficiencies:          Efficiency{Sediment: .7, Nitrogen: .4, Phosphorus: .5},
	}
}

// Validate rejects out-of-range parameters before any computation begins.
func (in *RusleInputs) Validate() error {
	chkfrac := func(nam string, v float64) error {
		if v < 0. || v > 1. {
			return fmt.Errorf(" RusleInputs: %s must be within [0,1], got %f", nam, v)
		}
		return nil
	}
	if err := chkfrac("sediment delivery ratio", in.SedimentDeliveryRatio); err != nil {
		return err
	}
	if err := chkfrac("sediment efficiency", in.Efficiencies.Sediment); err != nil {
		return err
	}
	if err := chkfrac("nitrogen efficiency", in.Efficiencies.Nitrogen); err != nil {
		return err
	}
	if err := chkfrac("phosphorus efficiency", in.Efficiencies.Phosphorus); err != nil {
		return err
	}
	for _, v := range []struct {
		nam string
		v   float64
	}{
		{"rainfall factor", in.RainfallFactor},
		{"soil erodibility", in.SoilErodibility},
		{"cover (before)", in.CoverBefore},
		{"cover (after)", in.CoverAfter},
		{"support (before)", in.SupportBefore},
		{"support (after)", in.SupportAfter},
	} {
		if v.v < 0. {
			return fmt.Errorf(" RusleInputs: %s must be non-negative, got %f", v.nam, v.v)
		}
	}
	return nil
}

// ScenarioTotals aggregates one scenario's per-cell grids.
type ScenarioTotals struct {
	SoilLossTonnes          float64 // t/yr
	DeliveredSedimentTonnes float64 // t/yr
	NitrogenLoadKg          float64 // kg/yr
	PhosphorusLoadKg        float64 // kg/yr
}

// RusleResult is the terminal artifact of a calculation job.
type RusleResult struct {
	Before, After ScenarioTotals

	SoilLossReductionTonnes  float64
	DeliveredReductionTonnes float64
	NitrogenReductionKg      float64
	PhosphorusReductionKg    float64

	OutputRaster string // persisted reduction raster
}

// Summary dictionary representation used by downstream layers.
func (r *RusleResult) Summary() map[string]interface{} {
	tot := func(t ScenarioTotals) map[string]float64 {
		return map[string]float64{
			"soil_loss_tonnes":          t.SoilLossTonnes,
			"delivered_sediment_tonnes": t.DeliveredSedimentTonnes,
			"nitrogen_load_kg":          t.NitrogenLoadKg,
			"phosphorus_load_kg":        t.PhosphorusLoadKg,
		}
	}
	return map[string]interface{}{
		"before":                              tot(r.Before),
		"after":                               tot(r.After),
		"sediment_reduction_tonnes":           r.SoilLossReductionTonnes,
		"sediment_reduction_delivered_tonnes": r.DeliveredReductionTonnes,
		"nitrogen_reduction_kg":               r.NitrogenReductionKg,
		"phosphorus_reduction_kg":             r.PhosphorusReductionKg,
		"output_raster":                       r.OutputRaster,
	}
}

func (r *RusleResult) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" RusleResult.Save %v", err)
	}
	if err := gob.NewEncoder(f).Encode(r); err != nil {
		return fmt.Errorf(" RusleResult.Save %v", err)
	}
	f.Close()
	return nil
}

func LoadGobRusle(fp string) (*RusleResult, error) {
	var r RusleResult
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	if err := gob.NewDecoder(f).Decode(&r); err != nil {
		return nil, err
	}
	f.Close()
	return &r, nil
}
