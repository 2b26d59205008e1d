package model

// GasType classifies what a mix is carried for. Bottom gases are breathed
// during descent and bottom time, Deco gases during the ascent, and
// Diluents feed the rebreather loop in CC mode.
type GasType int32

const (
	GasTypeBottom GasType = iota
	GasTypeDeco
	GasTypeDiluent
)

func (t GasType) String() string {
	switch t {
	case GasTypeBottom:
		return "bottom"
	case GasTypeDeco:
		return "deco"
	case GasTypeDiluent:
		return "diluent"
	default:
		return "unknown"
	}
}

// GasStatus marks whether a mix takes part in gas selection. Inactive
// gases stay in the list (and on disk) but are never chosen.
type GasStatus int32

const (
	GasStatusActive GasStatus = iota
	GasStatusInactive
)

func (s GasStatus) String() string {
	if s == GasStatusActive {
		return "active"
	}
	return "inactive"
}

// Gas is one breathable mix. O2Pct and HePct are volume percentages;
// nitrogen is the remainder. The tank fields configure the consumption
// roll-up; zero values fall back to the parameter defaults and are not
// persisted with the mix.
type Gas struct {
	O2Pct  float64
	HePct  float64
	Type   GasType
	Status GasStatus

	NbTanks         int
	TankCapacityL   float64
	FillPressureBar float64
}

// N2Pct returns the nitrogen percentage of the mix.
func (g Gas) N2Pct() float64 { return 100 - g.O2Pct - g.HePct }

// FO2, FHe and FN2 return the volume fractions in [0, 1].
func (g Gas) FO2() float64 { return g.O2Pct / 100 }
func (g Gas) FHe() float64 { return g.HePct / 100 }
func (g Gas) FN2() float64 { return g.N2Pct() / 100 }

// SameMix reports whether two gases hold the same O2/He composition.
func (g Gas) SameMix(other Gas) bool {
	return g.O2Pct == other.O2Pct && g.HePct == other.HePct
}
