package core

import (
	"math"

	"github.com/reefline/dive-planner/model"
)

// NbCompartments is the number of tissue compartments in the ZH-L16C
// coefficient set used throughout the planner.
const NbCompartments = 16

// compartment holds the fixed Buhlmann coefficients of one tissue.
type compartment struct {
	halfTimeN2 float64
	aN2        float64
	bN2        float64
	halfTimeHe float64
	aHe        float64
	bHe        float64
}

// zhl16c is the ZH-L16C coefficient table, compartment 1b variant.
// Half-times in minutes, a in bar, b dimensionless.
var zhl16c = [NbCompartments]compartment{
	{5.0, 1.1696, 0.5578, 1.88, 1.6189, 0.4770},
	{8.0, 1.0000, 0.6514, 3.02, 1.3830, 0.5747},
	{12.5, 0.8618, 0.7222, 4.72, 1.1919, 0.6527},
	{18.5, 0.7562, 0.7825, 6.99, 1.0458, 0.7223},
	{27.0, 0.6200, 0.8126, 10.21, 0.9220, 0.7582},
	{38.3, 0.5043, 0.8434, 14.48, 0.8205, 0.7957},
	{54.3, 0.4410, 0.8693, 20.53, 0.7305, 0.8279},
	{77.0, 0.4000, 0.8910, 29.11, 0.6502, 0.8553},
	{109.0, 0.3750, 0.9092, 41.20, 0.5950, 0.8757},
	{146.0, 0.3500, 0.9222, 55.19, 0.5545, 0.8903},
	{187.0, 0.3295, 0.9319, 70.69, 0.5333, 0.8997},
	{239.0, 0.3065, 0.9403, 90.34, 0.5189, 0.9073},
	{305.0, 0.2835, 0.9477, 115.29, 0.5181, 0.9122},
	{390.0, 0.2610, 0.9544, 147.42, 0.5176, 0.9171},
	{498.0, 0.2480, 0.9602, 188.24, 0.5172, 0.9217},
	{635.0, 0.2327, 0.9653, 240.03, 0.5119, 0.9267},
}

// TissueState is the inert-gas loading of all compartments, in bar.
type TissueState struct {
	Compartments [NbCompartments]model.InertPressures
}

// SurfaceSaturation returns the state of a diver equilibrated to
// surface air: every compartment at alveolar air N2 pressure, no
// helium.
func SurfaceSaturation(p *Parameters) TissueState {
	pN2 := (p.AtmPressureBar - WaterVaporPressureBar) * N2FractionInAir
	var ts TissueState
	for i := range ts.Compartments {
		ts.Compartments[i] = model.InertPressures{PN2Bar: pN2}
	}
	return ts
}

// Loads copies the compartment pressures into a fresh slice for a
// DiveStep snapshot.
func (ts TissueState) Loads() []model.InertPressures {
	out := make([]model.InertPressures, NbCompartments)
	copy(out, ts.Compartments[:])
	return out
}

// mValueCoefficients returns the inert-weighted a and b for a
// compartment. A fully unloaded compartment falls back to the N2
// coefficients.
func mValueCoefficients(i int, ip model.InertPressures) (a, b float64) {
	c := zhl16c[i]
	total := ip.Total()
	if total < 1e-9 {
		return c.aN2, c.bN2
	}
	a = (c.aN2*ip.PN2Bar + c.aHe*ip.PHeBar) / total
	b = (c.bN2*ip.PN2Bar + c.bHe*ip.PHeBar) / total
	return a, b
}

// CeilingBar returns the lowest tolerable ambient pressure for the
// state under a gradient factor: the pressure at which the most-loaded
// compartment sits exactly on its GF-scaled M-value line.
func (ts TissueState) CeilingBar(gf float64) float64 {
	maxTol := 0.0
	for i, ip := range ts.Compartments {
		assertf(ip.PN2Bar >= 0 && ip.PHeBar >= 0,
			"compartment %d has negative inert pressure (%.4f, %.4f)", i, ip.PN2Bar, ip.PHeBar)
		a, b := mValueCoefficients(i, ip)
		p := ip.Total()
		tol := (p - gf*a) / (gf/b - gf + 1)
		if tol > maxTol {
			maxTol = tol
		}
	}
	return maxTol
}

// CeilingDepth converts the pressure ceiling to a stop depth, rounded
// up to the next stop-interval multiple. 0 means direct ascent to the
// surface is tolerable.
func (ts TissueState) CeilingDepth(p *Parameters, gf float64) float64 {
	tol := ts.CeilingBar(gf)
	if tol <= p.AtmPressureBar {
		return 0
	}
	depth := p.DepthFromPressure(tol)
	interval := p.StopIntervalM
	if interval <= 0 {
		return depth
	}
	return math.Ceil(depth/interval-1e-9) * interval
}

// GFNow returns the current supersaturation of the most-loaded
// compartment at an ambient pressure, expressed as a fraction of the
// full M-value gradient. 0 means at or below ambient.
func (ts TissueState) GFNow(pAmbBar float64) float64 {
	maxGF := 0.0
	for i, ip := range ts.Compartments {
		a, b := mValueCoefficients(i, ip)
		p := ip.Total()
		m0 := pAmbBar/b + a
		if m0 <= pAmbBar {
			continue
		}
		gf := (p - pAmbBar) / (m0 - pAmbBar)
		if gf > maxGF {
			maxGF = gf
		}
	}
	return maxGF
}

// GFAt interpolates the gradient factor schedule: gfLow at the first
// deco depth, gfHigh at the surface, linear in between and clamped to
// the configured band. Without a deco obligation the surface factor
// applies everywhere.
func GFAt(p *Parameters, depthM, firstDecoDepthM float64) float64 {
	if firstDecoDepthM <= 0 {
		return p.GFHigh
	}
	gf := p.GFHigh + (p.GFLow-p.GFHigh)*depthM/firstDecoDepthM
	if gf < p.GFLow {
		gf = p.GFLow
	}
	if gf > p.GFHigh {
		gf = p.GFHigh
	}
	return gf
}
