package core

import (
	"testing"

	"github.com/reefline/dive-planner/model"
)

func trimixGasList() GasList {
	return GasList{Gases: []model.Gas{
		{O2Pct: 18, HePct: 45, Type: model.GasTypeBottom, Status: model.GasStatusActive},
		{O2Pct: 50, Type: model.GasTypeDeco, Status: model.GasStatusActive},
	}}
}

func TestTrimixDiveSwitchesToDecoGas(t *testing.T) {
	p := DefaultParameters()
	gl := trimixGasList()
	dp := NewDivePlan(60, 25, model.StepModeOC, false,
		SurfaceSaturation(&p), p, gl, DefaultSetPoints())

	if err := dp.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	checkProfileInvariants(t, dp)
	checkDecoStopsClearCeilings(t, dp)

	mod := MOD(&p, gl.Gases[1]) // ~21.6 m for 50% at 1.6 bar

	// Gas is selected at each ascent segment's deeper end, so the deco
	// mix appears on the first segment lying entirely above its MOD.
	switched := false
	for i := 0; i < dp.NbOfSteps(); i++ {
		s := dp.Step(i)
		switch {
		case s.Phase == model.PhaseDescent || s.Phase == model.PhaseBottom:
			if s.O2Pct != 18 {
				t.Errorf("step %d (%v) breathes %v%% O2, want bottom mix", i, s.Phase, s.O2Pct)
			}
		case s.MaxDepthM() > mod:
			if s.O2Pct != 18 {
				t.Errorf("step %d reaching %v m breathes %v%% O2, want 18", i, s.MaxDepthM(), s.O2Pct)
			}
		case s.Phase == model.PhaseAscent || s.Phase == model.PhaseDecoStop:
			if s.O2Pct != 50 {
				t.Errorf("step %d reaching %v m breathes %v%% O2, want 50", i, s.MaxDepthM(), s.O2Pct)
			} else {
				switched = true
			}
		}
	}
	if !switched {
		t.Error("no step switched to the deco gas")
	}

	// S2: oxygen toxicity stays moderate.
	if cns := dp.Step(dp.NbOfSteps() - 1).CNSSinglePct; cns >= 50 {
		t.Errorf("final CNS = %v%%, want < 50", cns)
	}

	// PpO2 stays within the deco limit everywhere on this profile.
	for i := 0; i < dp.NbOfSteps(); i++ {
		if s := dp.Step(i); s.PO2MaxBar > p.MaxPpO2Deco+1e-9 {
			t.Errorf("step %d pO2 %v exceeds deco limit", i, s.PO2MaxBar)
		}
	}
}

func TestRejectedWhenNoBottomGasCoversDepth(t *testing.T) {
	p := DefaultParameters()
	gl := GasList{Gases: []model.Gas{
		{O2Pct: 32, Type: model.GasTypeBottom, Status: model.GasStatusActive}, // MOD ~33 m
	}}
	dp := NewDivePlan(60, 20, model.StepModeOC, false,
		SurfaceSaturation(&p), p, gl, DefaultSetPoints())

	if err := dp.Build(); err == nil {
		t.Fatal("Build succeeded without a bottom gas for 60 m")
	}
}
