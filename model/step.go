package model

// Phase tags what a profile row represents.
type Phase int

const (
	PhaseDescent Phase = iota
	PhaseBottom
	PhaseAscent
	PhaseStop
	PhaseDecoStop
	PhaseSurface
)

func (p Phase) String() string {
	switch p {
	case PhaseDescent:
		return "descent"
	case PhaseBottom:
		return "bottom"
	case PhaseAscent:
		return "ascent"
	case PhaseStop:
		return "stop"
	case PhaseDecoStop:
		return "deco"
	case PhaseSurface:
		return "surface"
	default:
		return "unknown"
	}
}

// StepMode is the breathing mode in effect for a single step. A CC plan
// with bailout engaged carries StepModeBailout on its ascent rows.
type StepMode int

const (
	StepModeOC StepMode = iota
	StepModeCC
	StepModeBailout
)

func (m StepMode) String() string {
	switch m {
	case StepModeOC:
		return "OC"
	case StepModeCC:
		return "CC"
	case StepModeBailout:
		return "bailout"
	default:
		return "unknown"
	}
}

// InertPressures is the inert-gas loading of one tissue compartment.
type InertPressures struct {
	PN2Bar float64
	PHeBar float64
}

// Total returns the combined inert pressure of the compartment.
func (ip InertPressures) Total() float64 { return ip.PN2Bar + ip.PHeBar }

// DiveStep is one row of a computed dive profile. Depths in metres,
// times in minutes, pressures in bar, consumption in litres (surface
// equivalent), density in g/L.
type DiveStep struct {
	Phase Phase
	Mode  StepMode

	StartDepthM float64
	EndDepthM   float64
	TimeMin     float64
	RunTimeMin  float64

	GasIndex    int
	SetPointBar float64 // CC rows only, 0 otherwise

	PAmbMaxBar float64
	PO2MaxBar  float64
	O2Pct      float64
	N2Pct      float64
	HePct      float64

	GF        float64
	GFSurface float64

	SacRateLMin        float64
	AmbConsumptionLMin float64
	StepConsumptionL   float64

	GasDensityGL  float64
	ENDWithoutO2M float64
	ENDWithO2M    float64

	CNSSinglePct   float64
	CNSMultiplePct float64
	OTUTotal       float64

	// Warning flags mirrored from the parameter thresholds; a flagged
	// step is reported, not rejected.
	PO2Warning     bool
	DensityWarning bool

	// TissueLoads snapshots the compartment loadings at the end of the
	// step.
	TissueLoads []InertPressures
}

// MaxDepthM returns the deeper end of the step.
func (s DiveStep) MaxDepthM() float64 {
	if s.StartDepthM > s.EndDepthM {
		return s.StartDepthM
	}
	return s.EndDepthM
}
