package wbm

// Wetland benefit model
//
// estimates the sediment, nitrogen and phosphorus a wetland intercepts
// before reaching a waterway by comparing before/after management scenarios
// over a common DEM clip: slope and D8 flow accumulation feed the RUSLE
// length-slope factor, per-cell soil loss and delivered loads are evaluated
// for both scenarios, and their difference is the benefit.

const (
	// RUSLE length-slope factor: LS = (a/22.13)^m * (sin b/0.0896)^n, clamped
	lsUnitPlot = 22.13
	lsSlopeRef = .0896
	lsM        = .4
	lsN        = 1.3
	lsMax      = 1000.

	// delivered-sediment nutrient coefficients (kg per tonne)
	kgNperTonne = 1.5
	kgPperTonne = .4

	// catchment extent approximated by a fixed offset of the wetland polygon
	catchmentBuffer = 50. // m
)
