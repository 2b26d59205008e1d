package core

import (
	"errors"
	"testing"

	"github.com/reefline/dive-planner/model"
)

func ccGasList() GasList {
	return GasList{Gases: []model.Gas{
		{O2Pct: 21, Type: model.GasTypeDiluent, Status: model.GasStatusActive},
		{O2Pct: 50, Type: model.GasTypeDeco, Status: model.GasStatusActive},
	}}
}

func ccSchedule() SetPoints {
	return SetPoints{Points: []model.SetPoint{
		{DepthM: 40, SetPointBar: 1.3},
		{DepthM: 6, SetPointBar: 1.0},
	}}
}

func TestCCDiveCarriesSetpoints(t *testing.T) {
	p := DefaultParameters()
	dp := NewDivePlan(50, 40, model.StepModeCC, true,
		SurfaceSaturation(&p), p, ccGasList(), ccSchedule())

	if err := dp.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	checkProfileInvariants(t, dp)

	for i := 0; i < dp.NbOfSteps(); i++ {
		s := dp.Step(i)
		if s.Mode != model.StepModeCC {
			t.Errorf("step %d mode = %v, want CC", i, s.Mode)
		}
		if s.Phase == model.PhaseSurface {
			continue
		}
		// The deeper entry's setpoint holds until the diver is
		// shallower than the 6 m entry.
		want := 1.3
		if s.EndDepthM < 6 {
			want = 1.0
		}
		if s.SetPointBar != want {
			t.Errorf("step %d at %v m setpoint = %v, want %v", i, s.EndDepthM, s.SetPointBar, want)
		}
	}
}

func TestCCDiveConsumesNoOpenCircuitGas(t *testing.T) {
	p := DefaultParameters()
	dp := NewDivePlan(50, 40, model.StepModeCC, true,
		SurfaceSaturation(&p), p, ccGasList(), ccSchedule())

	if err := dp.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	for i := 0; i < dp.NbOfSteps(); i++ {
		s := dp.Step(i)
		if s.StepConsumptionL != 0 || s.SacRateLMin != 0 {
			t.Errorf("CC step %d accounts OC consumption %v L", i, s.StepConsumptionL)
		}
	}
	if usages := GasConsumption(&p, dp.Gases, dp.Steps); len(usages) != 0 {
		t.Errorf("CC dive produced %d gas usages, want none", len(usages))
	}
}

func TestCCDiveBreathesDiluent(t *testing.T) {
	p := DefaultParameters()
	dp := NewDivePlan(50, 40, model.StepModeCC, true,
		SurfaceSaturation(&p), p, ccGasList(), ccSchedule())

	if err := dp.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := 0; i < dp.NbOfSteps(); i++ {
		if s := dp.Step(i); s.O2Pct != 21 {
			t.Errorf("step %d breathes %v%% O2 diluent, want 21", i, s.O2Pct)
		}
	}
}

func TestCCUnboostedHoldsDeepestSetpoint(t *testing.T) {
	p := DefaultParameters()
	dp := NewDivePlan(50, 40, model.StepModeCC, false,
		SurfaceSaturation(&p), p, ccGasList(), ccSchedule())

	if err := dp.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := 0; i < dp.NbOfSteps(); i++ {
		s := dp.Step(i)
		if s.Phase == model.PhaseSurface {
			continue
		}
		if s.SetPointBar != 1.3 {
			t.Errorf("unboosted step %d setpoint = %v, want deepest 1.3", i, s.SetPointBar)
		}
	}
}

func TestCCEmptyScheduleWarnsAndFallsBack(t *testing.T) {
	p := DefaultParameters()
	dp := NewDivePlan(40, 20, model.StepModeCC, true,
		SurfaceSaturation(&p), p, ccGasList(), SetPoints{})

	if err := dp.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	warned := false
	for _, w := range dp.Warnings {
		if errors.Is(w, ErrNoSetpointConfigured) {
			warned = true
		}
	}
	if !warned {
		t.Error("empty schedule produced no ErrNoSetpointConfigured warning")
	}

	for i := 0; i < dp.NbOfSteps(); i++ {
		s := dp.Step(i)
		if s.Phase == model.PhaseSurface {
			continue
		}
		if s.SetPointBar != p.MaxPpO2Diluent {
			t.Errorf("step %d setpoint = %v, want fallback %v", i, s.SetPointBar, p.MaxPpO2Diluent)
		}
	}
}

func TestCCShorterDecoThanOCOnSameProfile(t *testing.T) {
	p := DefaultParameters()

	cc := NewDivePlan(45, 30, model.StepModeCC, true, SurfaceSaturation(&p), p,
		ccGasList(), DefaultSetPoints())
	if err := cc.Build(); err != nil {
		t.Fatalf("CC Build: %v", err)
	}

	oc := NewDivePlan(45, 30, model.StepModeOC, false, SurfaceSaturation(&p), p,
		GasList{Gases: []model.Gas{
			{O2Pct: 21, Type: model.GasTypeBottom, Status: model.GasStatusActive},
		}}, DefaultSetPoints())
	if err := oc.Build(); err != nil {
		t.Fatalf("OC Build: %v", err)
	}

	// A 1.3+ bar loop holds the inert fraction well under air's; the CC
	// ascent must be no longer than the air OC ascent.
	if cc.TTSMin() > oc.TTSMin() {
		t.Errorf("CC TTS %v exceeds OC TTS %v", cc.TTSMin(), oc.TTSMin())
	}
}
