package core

import (
	"math"
	"testing"

	"github.com/reefline/dive-planner/model"
)

func TestSurfaceSaturationState(t *testing.T) {
	p := DefaultParameters()
	ts := SurfaceSaturation(&p)

	want := (p.AtmPressureBar - WaterVaporPressureBar) * N2FractionInAir
	for i, c := range ts.Compartments {
		if math.Abs(c.PN2Bar-want) > 1e-12 {
			t.Errorf("compartment %d pN2 = %v, want %v", i, c.PN2Bar, want)
		}
		if c.PHeBar != 0 {
			t.Errorf("compartment %d pHe = %v, want 0", i, c.PHeBar)
		}
	}
}

func TestSurfaceSaturationHasNoCeiling(t *testing.T) {
	p := DefaultParameters()
	ts := SurfaceSaturation(&p)

	if d := ts.CeilingDepth(&p, p.GFLow); d != 0 {
		t.Errorf("surface-saturated ceiling = %v, want 0", d)
	}
}

func TestLoadSegmentApproachesInspiredPressure(t *testing.T) {
	p := DefaultParameters()
	air := model.Gas{O2Pct: 21}
	ts := SurfaceSaturation(&p)

	// Many half-times at constant depth: every compartment saturates to
	// the inspired pressure.
	ts = loadSegment(&p, ts, air, 30, 30, 100000, 0)
	want := (p.PressureFromDepth(30) - WaterVaporPressureBar) * N2FractionInAir
	for i, c := range ts.Compartments {
		if math.Abs(c.PN2Bar-want) > 1e-6 {
			t.Errorf("compartment %d saturated to %v, want %v", i, c.PN2Bar, want)
		}
	}
}

func TestLoadSegmentFastCompartmentLeads(t *testing.T) {
	p := DefaultParameters()
	air := model.Gas{O2Pct: 21}
	ts := SurfaceSaturation(&p)

	ts = loadSegment(&p, ts, air, 30, 30, 10, 0)
	for i := 1; i < NbCompartments; i++ {
		if ts.Compartments[i].PN2Bar > ts.Compartments[i-1].PN2Bar+1e-12 {
			t.Errorf("compartment %d on-gassed faster than %d", i, i-1)
		}
	}
}

func TestLoadSegmentZeroTimeIsIdentity(t *testing.T) {
	p := DefaultParameters()
	air := model.Gas{O2Pct: 21}
	ts := SurfaceSaturation(&p)

	after := loadSegment(&p, ts, air, 0, 30, 0, 0)
	if after != ts {
		t.Error("zero-time segment changed the state")
	}
}

func TestLoadSegmentHeliumOnGassing(t *testing.T) {
	p := DefaultParameters()
	tmx := model.Gas{O2Pct: 18, HePct: 45}
	ts := SurfaceSaturation(&p)

	ts = loadSegment(&p, ts, tmx, 60, 60, 20, 0)
	for i, c := range ts.Compartments {
		if c.PHeBar <= 0 {
			t.Errorf("compartment %d gained no helium", i)
		}
	}
	// Helium on-gasses faster than nitrogen relative to its target.
	heTarget := (p.PressureFromDepth(60) - WaterVaporPressureBar) * tmx.FHe()
	n2Target := (p.PressureFromDepth(60) - WaterVaporPressureBar) * tmx.FN2()
	c0 := ts.Compartments[0]
	heFrac := c0.PHeBar / heTarget
	n2Frac := (c0.PN2Bar - SurfaceSaturation(&p).Compartments[0].PN2Bar) / (n2Target - SurfaceSaturation(&p).Compartments[0].PN2Bar)
	if heFrac <= n2Frac {
		t.Errorf("helium fraction %v not ahead of nitrogen fraction %v", heFrac, n2Frac)
	}
}

func TestCeilingRisesWithLoading(t *testing.T) {
	p := DefaultParameters()
	air := model.Gas{O2Pct: 21}
	ts := SurfaceSaturation(&p)

	var prev float64
	for i := 0; i < 4; i++ {
		ts = loadSegment(&p, ts, air, 40, 40, 15, 0)
		ceil := ts.CeilingDepth(&p, p.GFLow)
		if ceil < prev {
			t.Errorf("ceiling dropped from %v to %v while on-gassing", prev, ceil)
		}
		prev = ceil
	}
	if prev == 0 {
		t.Error("an hour at 40 m produced no ceiling")
	}
}

func TestCeilingLowerGFIsDeeper(t *testing.T) {
	p := DefaultParameters()
	air := model.Gas{O2Pct: 21}
	ts := SurfaceSaturation(&p)
	ts = loadSegment(&p, ts, air, 40, 40, 40, 0)

	loose := ts.CeilingBar(0.9)
	tight := ts.CeilingBar(0.3)
	if tight <= loose {
		t.Errorf("gf 0.3 ceiling %v not deeper than gf 0.9 ceiling %v", tight, loose)
	}
}

func TestCeilingDepthSnapsToStopInterval(t *testing.T) {
	p := DefaultParameters()
	air := model.Gas{O2Pct: 21}
	ts := SurfaceSaturation(&p)
	ts = loadSegment(&p, ts, air, 40, 40, 30, 0)

	d := ts.CeilingDepth(&p, p.GFLow)
	if d <= 0 {
		t.Fatal("expected a nonzero ceiling")
	}
	if r := math.Mod(d, p.StopIntervalM); math.Abs(r) > 1e-9 {
		t.Errorf("ceiling %v not on a %v m multiple", d, p.StopIntervalM)
	}
}

func TestGFInterpolation(t *testing.T) {
	p := DefaultParameters()

	if gf := GFAt(&p, 0, 30); gf != p.GFHigh {
		t.Errorf("GF at surface = %v, want %v", gf, p.GFHigh)
	}
	if gf := GFAt(&p, 30, 30); gf != p.GFLow {
		t.Errorf("GF at first deco depth = %v, want %v", gf, p.GFLow)
	}
	mid := GFAt(&p, 15, 30)
	want := (p.GFLow + p.GFHigh) / 2
	if math.Abs(mid-want) > 1e-12 {
		t.Errorf("GF midway = %v, want %v", mid, want)
	}

	// Clamped outside the band.
	if gf := GFAt(&p, 60, 30); gf != p.GFLow {
		t.Errorf("GF below first deco depth = %v, want clamp at %v", gf, p.GFLow)
	}

	// No deco obligation: surface factor everywhere.
	if gf := GFAt(&p, 25, 0); gf != p.GFHigh {
		t.Errorf("GF without obligation = %v, want %v", gf, p.GFHigh)
	}
}

func TestMValueCoefficientsFallBackToNitrogen(t *testing.T) {
	a, b := mValueCoefficients(0, model.InertPressures{})
	if a != zhl16c[0].aN2 || b != zhl16c[0].bN2 {
		t.Errorf("empty compartment coefficients = (%v, %v), want N2 pair", a, b)
	}
}

func TestAssertHandlerFiresOnNegativePressure(t *testing.T) {
	var fired string
	SetAssertHandler(func(msg string) { fired = msg })
	defer SetAssertHandler(nil)

	ts := TissueState{}
	ts.Compartments[0].PN2Bar = -0.1
	ts.CeilingBar(0.5)

	if fired == "" {
		t.Error("negative inert pressure did not trip the assertion hook")
	}
}
