package core

import (
	"fmt"
	"math"

	"github.com/reefline/dive-planner/model"
)

// ValidateGas checks the composition invariants of a mix.
func ValidateGas(g model.Gas) error {
	if g.O2Pct < 0 || g.O2Pct > 100 {
		return fmt.Errorf("%w: o2 %.1f%% out of range", ErrInvalidGasMix, g.O2Pct)
	}
	if g.HePct < 0 || g.HePct > 100 {
		return fmt.Errorf("%w: he %.1f%% out of range", ErrInvalidGasMix, g.HePct)
	}
	if g.O2Pct+g.HePct > 100 {
		return fmt.Errorf("%w: o2 %.1f%% + he %.1f%% exceeds 100%%", ErrInvalidGasMix, g.O2Pct, g.HePct)
	}
	return nil
}

// PpO2At returns the oxygen partial pressure of a mix breathed open
// circuit at a depth.
func PpO2At(p *Parameters, g model.Gas, depthM float64) float64 {
	return g.FO2() * p.PressureFromDepth(depthM)
}

// MOD returns the maximum operating depth of a mix: the depth at which
// its PpO2 reaches the limit configured for its role. A zero-oxygen mix
// has no oxygen-limited depth and returns +Inf.
func MOD(p *Parameters, g model.Gas) float64 {
	if g.FO2() <= 0 {
		return math.Inf(1)
	}
	maxAmb := p.MaxPpO2For(g.Type) / g.FO2()
	return p.DepthFromPressure(maxAmb)
}

// ENDWithoutO2 returns the equivalent narcotic depth counting only
// nitrogen: the depth of an air breath with the same N2 partial
// pressure.
func ENDWithoutO2(p *Parameters, g model.Gas, depthM float64) float64 {
	narcotic := p.PressureFromDepth(depthM) * g.FN2() / N2FractionInAir
	return p.DepthFromPressure(narcotic)
}

// ENDWithO2 returns the equivalent narcotic depth counting oxygen as
// narcotic as nitrogen; helium is the only non-narcotic component.
func ENDWithO2(p *Parameters, g model.Gas, depthM float64) float64 {
	narcotic := p.PressureFromDepth(depthM) * (g.FN2() + g.FO2())
	return p.DepthFromPressure(narcotic)
}

// END dispatches on the configured oxygen-narcotic flag.
func END(p *Parameters, g model.Gas, depthM float64) float64 {
	if p.O2Narcotic {
		return ENDWithO2(p, g, depthM)
	}
	return ENDWithoutO2(p, g, depthM)
}

// Density returns the gas density in g/L at a depth.
func Density(p *Parameters, g model.Gas, depthM float64) float64 {
	perBar := g.FO2()*O2DensityGL + g.FN2()*N2DensityGL + g.FHe()*HeDensityGL
	return perBar * p.PressureFromDepth(depthM)
}

// BestGasForDepth composes the mix maximising deco efficiency at a
// depth: as much oxygen as the role's PpO2 limit allows, then enough
// helium to bring the narcotic load down to the configured END limit.
// Percentages are floored to whole numbers; when no helium is needed
// the result is a plain nitrox.
func BestGasForDepth(p *Parameters, depthM float64, gasType model.GasType) model.Gas {
	pAmb := p.PressureFromDepth(depthM)

	o2 := math.Floor(100 * p.MaxPpO2For(gasType) / pAmb)
	if o2 > 100 {
		o2 = 100
	}
	if o2 < 0 {
		o2 = 0
	}

	// Highest narcotic fraction keeping END at the limit.
	narcoticAmb := p.PressureFromDepth(p.ENDLimitM)
	var maxNarcoticPct float64
	if p.O2Narcotic {
		// O2 counts: the narcotic budget covers o2 + n2.
		maxNarcoticPct = 100 * narcoticAmb / pAmb
	} else {
		// Only N2 counts, referenced to the N2 share of air.
		maxNarcoticPct = 100*narcoticAmb*N2FractionInAir/pAmb + o2
	}

	he := math.Floor(100 - maxNarcoticPct)
	if he < 0 {
		he = 0
	}
	if o2+he > 100 {
		he = 100 - o2
	}

	return model.Gas{O2Pct: o2, HePct: he, Type: gasType, Status: model.GasStatusActive}
}
