package core

import (
	"testing"

	"github.com/reefline/dive-planner/model"
)

func bailoutGasList() GasList {
	return GasList{Gases: []model.Gas{
		{O2Pct: 21, Type: model.GasTypeDiluent, Status: model.GasStatusActive},
		{O2Pct: 21, Type: model.GasTypeBottom, Status: model.GasStatusActive},
		{O2Pct: 50, Type: model.GasTypeDeco, Status: model.GasStatusActive},
	}}
}

func TestBailoutAscendsOpenCircuit(t *testing.T) {
	p := DefaultParameters()
	dp := NewDivePlan(40, 25, model.StepModeCC, true,
		SurfaceSaturation(&p), p, bailoutGasList(), DefaultSetPoints())
	dp.Bailout = true

	if err := dp.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	checkProfileInvariants(t, dp)

	// Descent and bottom run closed circuit; the ascent loop runs open
	// circuit on bailout gases.
	sawBailout := false
	for i := 0; i < dp.NbOfSteps(); i++ {
		s := dp.Step(i)
		switch s.Phase {
		case model.PhaseDescent, model.PhaseBottom:
			if s.Mode != model.StepModeCC {
				t.Errorf("step %d (%v) mode = %v, want CC", i, s.Phase, s.Mode)
			}
			if s.StepConsumptionL != 0 {
				t.Errorf("CC step %d accounts OC consumption", i)
			}
		default:
			if s.Mode != model.StepModeBailout {
				t.Errorf("step %d (%v) mode = %v, want bailout", i, s.Phase, s.Mode)
			}
			sawBailout = true
			if s.SetPointBar != 0 {
				t.Errorf("bailout step %d still carries setpoint %v", i, s.SetPointBar)
			}
			if s.TimeMin > 0 && s.StepConsumptionL <= 0 {
				t.Errorf("bailout step %d accounts no OC consumption", i)
			}
			if g := dp.Gases.Gases[s.GasIndex]; g.Type == model.GasTypeDiluent {
				t.Errorf("bailout step %d still breathes the diluent", i)
			}
		}
	}
	if !sawBailout {
		t.Fatal("no bailout steps in the profile")
	}
}

func TestBailoutInheritsClosedCircuitLoadings(t *testing.T) {
	p := DefaultParameters()

	bailout := NewDivePlan(40, 25, model.StepModeCC, true,
		SurfaceSaturation(&p), p, bailoutGasList(), DefaultSetPoints())
	bailout.Bailout = true
	if err := bailout.Build(); err != nil {
		t.Fatalf("bailout Build: %v", err)
	}

	pure := NewDivePlan(40, 25, model.StepModeCC, true,
		SurfaceSaturation(&p), p, bailoutGasList(), DefaultSetPoints())
	if err := pure.Build(); err != nil {
		t.Fatalf("CC Build: %v", err)
	}

	// Tissue loads at the end of the bottom phase match the pure CC
	// integration: engagement inherits, never restarts.
	var fromBailout, fromCC []model.InertPressures
	for i := 0; i < bailout.NbOfSteps(); i++ {
		if bailout.Step(i).Phase == model.PhaseBottom {
			fromBailout = bailout.Step(i).TissueLoads
		}
	}
	for i := 0; i < pure.NbOfSteps(); i++ {
		if pure.Step(i).Phase == model.PhaseBottom {
			fromCC = pure.Step(i).TissueLoads
		}
	}
	if len(fromBailout) == 0 || len(fromCC) == 0 {
		t.Fatal("bottom phase missing from a profile")
	}
	for i := range fromBailout {
		if fromBailout[i] != fromCC[i] {
			t.Errorf("compartment %d diverges at engagement: %+v vs %+v", i, fromBailout[i], fromCC[i])
		}
	}
}

func TestBailoutSwitchesToDecoGasWhenShallow(t *testing.T) {
	p := DefaultParameters()
	dp := NewDivePlan(40, 25, model.StepModeCC, true,
		SurfaceSaturation(&p), p, bailoutGasList(), DefaultSetPoints())
	dp.Bailout = true

	if err := dp.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	mod := MOD(&p, dp.Gases.Gases[2])
	for i := 0; i < dp.NbOfSteps(); i++ {
		s := dp.Step(i)
		if s.Mode != model.StepModeBailout || s.Phase == model.PhaseSurface {
			continue
		}
		if s.MaxDepthM() <= mod && s.O2Pct != 50 {
			t.Errorf("bailout step %d above deco MOD breathes %v%% O2, want 50", i, s.O2Pct)
		}
	}
}
