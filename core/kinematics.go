package core

import (
	"math"

	"github.com/reefline/dive-planner/model"
)

// schreiner integrates one inert gas of one compartment across a
// segment with linearly changing inspired pressure.
//
//	p' = pi0 + R(t - 1/k) - (pi0 - p0 - R/k) * exp(-k t)
//
// where pi0 is the inspired inert pressure at segment start, R its
// rate of change per minute, and k = ln2 / halfTime. For vanishing
// segment times the constant-pressure limiting form applies.
func schreiner(p0, piStart, piEnd, timeMin, halfTime float64) float64 {
	if timeMin <= 0 {
		return p0
	}
	k := math.Ln2 / halfTime
	const eps = 1e-9
	if timeMin < eps || math.Abs(piEnd-piStart) < eps {
		// Constant inspired pressure: classic Haldane step.
		return p0 + (piStart-p0)*(1-math.Exp(-k*timeMin))
	}
	r := (piEnd - piStart) / timeMin
	return piStart + r*(timeMin-1/k) - (piStart-p0-r/k)*math.Exp(-k*timeMin)
}

// inspiredInert returns the inspired inert partial pressures at an
// ambient pressure for the given breathing configuration. For OC (and
// bailout) the alveolar pressure splits by the mix fractions. For CC
// the loop holds PpO2 at min(setpoint, diluent PpO2 at depth) and the
// inert remainder splits in the diluent's inert ratio.
func inspiredInert(g model.Gas, pAmbBar, setpointBar float64) (piN2, piHe float64) {
	alv := pAmbBar - WaterVaporPressureBar
	if alv < 0 {
		alv = 0
	}

	if setpointBar <= 0 {
		return alv * g.FN2(), alv * g.FHe()
	}

	pO2 := setpointBar
	if dilO2 := g.FO2() * pAmbBar; dilO2 < pO2 {
		pO2 = dilO2
	}
	if pO2 > alv {
		pO2 = alv
	}

	inert := alv - pO2
	fInert := g.FN2() + g.FHe()
	if fInert <= 0 {
		return 0, 0
	}
	return inert * g.FN2() / fInert, inert * g.FHe() / fInert
}

// effectivePpO2 returns the oxygen partial pressure actually breathed
// at an ambient pressure: the OC mix pO2, or the capped loop setpoint
// in CC.
func effectivePpO2(g model.Gas, pAmbBar, setpointBar float64) float64 {
	if setpointBar <= 0 {
		return g.FO2() * pAmbBar
	}
	pO2 := setpointBar
	if dilO2 := g.FO2() * pAmbBar; dilO2 < pO2 {
		pO2 = dilO2
	}
	if alv := pAmbBar - WaterVaporPressureBar; alv > 0 && pO2 > alv {
		pO2 = alv
	}
	return pO2
}

// loadSegment advances the tissue state across one segment with a
// linear depth change, returning the new state.
func loadSegment(p *Parameters, ts TissueState, g model.Gas, startDepthM, endDepthM, timeMin, setpointBar float64) TissueState {
	if timeMin <= 0 {
		return ts
	}
	pStart := p.PressureFromDepth(startDepthM)
	pEnd := p.PressureFromDepth(endDepthM)

	piN2Start, piHeStart := inspiredInert(g, pStart, setpointBar)
	piN2End, piHeEnd := inspiredInert(g, pEnd, setpointBar)

	var out TissueState
	for i := range ts.Compartments {
		c := zhl16c[i]
		out.Compartments[i] = model.InertPressures{
			PN2Bar: schreiner(ts.Compartments[i].PN2Bar, piN2Start, piN2End, timeMin, c.halfTimeN2),
			PHeBar: schreiner(ts.Compartments[i].PHeBar, piHeStart, piHeEnd, timeMin, c.halfTimeHe),
		}
		assertf(out.Compartments[i].PN2Bar >= 0 && out.Compartments[i].PHeBar >= 0,
			"segment load drove compartment %d negative", i)
	}
	return out
}
