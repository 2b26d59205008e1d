package core

import "github.com/reefline/dive-planner/model"

// Parameters is the full planner configuration. A DivePlan takes a
// value copy when it is constructed; mutating the original afterwards
// never affects that plan.
type Parameters struct {
	// Gradient factors as fractions of the Buhlmann M-value. GFLow
	// applies at the first deco stop, GFHigh at the surface.
	GFLow  float64
	GFHigh float64

	// PpO2 limits in bar, per gas role. MaxPpO2Diluent doubles as the
	// setpoint fallback when the schedule is empty. WarningPpO2Low is
	// the hypoxia warning threshold.
	MaxPpO2Bottom  float64
	MaxPpO2Deco    float64
	MaxPpO2Diluent float64
	WarningPpO2Low float64

	// Surface-equivalent consumption rates, L/min.
	SacBottomLMin float64
	SacDecoLMin   float64

	WarningGasDensityGL float64
	ENDLimitM           float64
	O2Narcotic          bool

	AscentRateMMin  float64
	DescentRateMMin float64

	AtmPressureBar  float64
	WaterDensityKgL float64

	// Ascent discretisation: stops sit on StopIntervalM multiples, the
	// shallowest at LastStopDepthM. MaxStopMinutes bounds any single
	// deco stop before the plan is declared unplannable.
	StopIntervalM  float64
	LastStopDepthM float64
	MaxStopMinutes int

	// TTSBudgetSlackMin is added to the baseline time-to-surface when
	// the MaxTime service searches for the longest holdable stop.
	TTSBudgetSlackMin float64

	WarningCnsPct float64
	WarningOtu    float64

	// Default tank configuration for gases that carry none.
	DefaultTanks           int
	DefaultTankCapacityL   float64
	DefaultFillPressureBar float64
	ReserveFraction        float64
}

// DefaultParameters returns the documented defaults.
func DefaultParameters() Parameters {
	return Parameters{
		GFLow:  0.30,
		GFHigh: 0.70,

		MaxPpO2Bottom:  1.4,
		MaxPpO2Deco:    1.6,
		MaxPpO2Diluent: 1.3,
		WarningPpO2Low: 0.7,

		SacBottomLMin: 20,
		SacDecoLMin:   20,

		WarningGasDensityGL: 6.3,
		ENDLimitM:           30,
		O2Narcotic:          true,

		AscentRateMMin:  9,
		DescentRateMMin: 18,

		AtmPressureBar:  1.01325,
		WaterDensityKgL: 1.03,

		StopIntervalM:  3,
		LastStopDepthM: 3,
		MaxStopMinutes: 999,

		TTSBudgetSlackMin: 1,

		WarningCnsPct: 80,
		WarningOtu:    250,

		DefaultTanks:           2,
		DefaultTankCapacityL:   12,
		DefaultFillPressureBar: 200,
		ReserveFraction:        1.0 / 3.0,
	}
}

// MaxPpO2For returns the PpO2 limit governing MOD for a gas role.
// Diluents share the bottom limit; the diluent-specific limit only
// bounds the loop setpoint fallback.
func (p *Parameters) MaxPpO2For(t model.GasType) float64 {
	if t == model.GasTypeDeco {
		return p.MaxPpO2Deco
	}
	return p.MaxPpO2Bottom
}

// SacFor returns the consumption rate for a profile phase.
func (p *Parameters) SacFor(phase model.Phase) float64 {
	switch phase {
	case model.PhaseDescent, model.PhaseBottom:
		return p.SacBottomLMin
	default:
		return p.SacDecoLMin
	}
}
