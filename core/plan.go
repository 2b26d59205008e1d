package core

import (
	"math"

	"github.com/reefline/dive-planner/model"
)

// DivePlan owns one dive profile: the inputs, the configuration
// snapshots taken at construction, and the computed step list. The gas
// list, setpoint schedule, and parameters are value copies; mutating
// the originals between builds never affects an existing plan.
type DivePlan struct {
	Mode      model.StepMode // OC or CC; bailout is a flag on a CC plan
	Bailout   bool
	GFBoosted bool

	TargetDepthM  float64
	BottomTimeMin float64

	// Carried-over exposure from earlier dives. Zero for a single-dive
	// plan.
	SurfaceIntervalMin float64
	InitialCNSPct      float64

	Params    Parameters
	Gases     GasList
	SetPoints SetPoints
	StopSteps StopSteps

	// FirstDecoDepthM drives the gradient factor interpolation. It is
	// set by the first segment whose low-GF ceiling leaves the surface
	// and frozen for the rest of the build.
	FirstDecoDepthM float64

	// Warnings collects non-fatal conditions from the last build, such
	// as a CC plan running on the setpoint fallback.
	Warnings []error

	Steps []model.DiveStep

	initialTissue TissueState
}

// NewDivePlan snapshots the collaborators and seeds the stop step list
// with the bottom waypoint. The initial tissue state is typically
// SurfaceSaturation; repetitive dives pass the previous dive's final
// loadings.
func NewDivePlan(targetDepthM, bottomTimeMin float64, mode model.StepMode, gfBoosted bool,
	initial TissueState, params Parameters, gases GasList, setpoints SetPoints) *DivePlan {
	return &DivePlan{
		Mode:          mode,
		GFBoosted:     gfBoosted,
		TargetDepthM:  targetDepthM,
		BottomTimeMin: bottomTimeMin,
		Params:        params,
		Gases:         gases.Clone(),
		SetPoints:     setpoints.Clone(),
		StopSteps:     NewStopSteps(targetDepthM, bottomTimeMin),
		initialTissue: initial,
	}
}

// Clone returns an independent copy of the plan with no built steps.
func (dp *DivePlan) Clone() *DivePlan {
	out := *dp
	out.Gases = dp.Gases.Clone()
	out.SetPoints = dp.SetPoints.Clone()
	out.StopSteps = dp.StopSteps.Clone()
	out.Steps = nil
	return &out
}

// NbOfSteps returns the number of profile rows.
func (dp *DivePlan) NbOfSteps() int { return len(dp.Steps) }

// Step returns the profile row at index.
func (dp *DivePlan) Step(i int) model.DiveStep { return dp.Steps[i] }

// RuntimeMin returns the total runtime of the built profile.
func (dp *DivePlan) RuntimeMin() float64 {
	if len(dp.Steps) == 0 {
		return 0
	}
	return dp.Steps[len(dp.Steps)-1].RunTimeMin
}

// ccDive reports whether the dive-level mode is closed circuit.
func (dp *DivePlan) ccDive() bool { return dp.Mode == model.StepModeCC }

// setpointAt returns the loop setpoint for a segment reaching the given
// depth, or 0 for open-circuit breathing.
func (dp *DivePlan) setpointAt(depthM float64, stepMode model.StepMode) float64 {
	if stepMode != model.StepModeCC {
		return 0
	}
	return dp.SetPoints.AtDepth(&dp.Params, depthM, dp.GFBoosted)
}

// nextStopDepth returns the next shallower candidate stop: the largest
// stop-interval multiple strictly above the current depth on the way
// up, floored at the last stop depth, then the surface.
func (dp *DivePlan) nextStopDepth(cur float64) float64 {
	p := &dp.Params
	if cur <= p.LastStopDepthM+1e-9 {
		return 0
	}
	interval := p.StopIntervalM
	next := math.Ceil(cur/interval-1e-9)*interval - interval
	if next < p.LastStopDepthM {
		next = p.LastStopDepthM
	}
	return next
}

// Build generates the step list from scratch: descent, bottom, pinned
// stop steps, then the ascent loop interleaving deco stops until the
// tissue ceiling clears each next stop. The step list is fully
// annotated on return. An unplannable ascent still leaves the partial
// profile in place and returns the typed error.
func (dp *DivePlan) Build() error {
	p := &dp.Params

	dp.Warnings = nil
	dp.StopSteps.Sort()
	if len(dp.StopSteps.Steps) == 0 {
		dp.StopSteps = NewStopSteps(dp.TargetDepthM, dp.BottomTimeMin)
	}
	if dp.ccDive() && len(dp.SetPoints.Points) == 0 {
		// The diluent PpO2 limit stands in for the missing schedule.
		dp.Warnings = append(dp.Warnings, ErrNoSetpointConfigured)
	}
	bottom := dp.StopSteps.Steps[0]
	target := bottom.DepthM

	mode := model.StepModeOC
	if dp.ccDive() {
		mode = model.StepModeCC
	}

	var gasIdx int
	var err error
	if dp.ccDive() {
		gasIdx, err = dp.Gases.BestDiluentForDepth(p, target)
	} else {
		gasIdx, err = dp.Gases.BestBottomGas(p, target)
	}
	if err != nil {
		dp.Steps = nil
		return err
	}

	dp.FirstDecoDepthM = 0
	ts := dp.initialTissue
	var steps []model.DiveStep

	advance := func(phase model.Phase, m model.StepMode, from, to, timeMin float64, gi int, sp float64) {
		steps = append(steps, model.DiveStep{
			Phase: phase, Mode: m,
			StartDepthM: from, EndDepthM: to, TimeMin: timeMin,
			GasIndex: gi, SetPointBar: sp,
		})
		ts = loadSegment(p, ts, dp.Gases.Gases[gi], from, to, timeMin, sp)
		if dp.FirstDecoDepthM == 0 {
			if ceil := ts.CeilingDepth(p, p.GFLow); ceil > 0 {
				dp.FirstDecoDepthM = ceil
			}
		}
	}

	// Descent, then bottom time measured as runtime at depth: the
	// bottom waypoint's minutes cover descent plus bottom segment.
	descentTime := target / p.DescentRateMMin
	advance(model.PhaseDescent, mode, 0, target, descentTime, gasIdx, dp.setpointAt(target, mode))

	bottomTime := bottom.TimeMin - descentTime
	if bottomTime < 0 {
		bottomTime = 0
	}
	advance(model.PhaseBottom, mode, target, target, bottomTime, gasIdx, dp.setpointAt(target, mode))

	cur := target

	// User-pinned intermediate stops, deepest first.
	for _, stp := range dp.StopSteps.Steps[1:] {
		if stp.DepthM >= cur {
			continue
		}
		// Switch gas on the new segment, selected at its deeper end so
		// the mix is never carried below its MOD.
		if mode != model.StepModeCC {
			if idx, serr := dp.Gases.BestGasForSwitch(p, cur); serr == nil {
				gasIdx = idx
			}
		}
		ascTime := (cur - stp.DepthM) / p.AscentRateMMin
		advance(model.PhaseAscent, mode, cur, stp.DepthM, ascTime, gasIdx, dp.setpointAt(stp.DepthM, mode))
		advance(model.PhaseStop, mode, stp.DepthM, stp.DepthM, stp.TimeMin, gasIdx, dp.setpointAt(stp.DepthM, mode))
		cur = stp.DepthM
	}

	// Bailout engages when the ascent loop starts: everything from here
	// is open circuit on deco gases, carrying the CC tissue loads.
	if dp.ccDive() && dp.Bailout {
		mode = model.StepModeBailout
		if idx, serr := dp.Gases.BestGasForSwitch(p, cur); serr == nil {
			gasIdx = idx
		}
	}

	var unplannable *UnplannableError
	for cur > 0 {
		next := dp.nextStopDepth(cur)
		gf := GFAt(p, next, dp.FirstDecoDepthM)

		if ts.CeilingDepth(p, gf) > next {
			// Hold here until the ceiling clears the next stop, in
			// whole minutes.
			if mode != model.StepModeCC {
				if idx, serr := dp.Gases.BestGasForSwitch(p, cur); serr == nil {
					gasIdx = idx
				}
			}
			sp := dp.setpointAt(cur, mode)
			g := dp.Gases.Gases[gasIdx]

			minutes := 0
			trial := ts
			cleared := false
			for minutes < p.MaxStopMinutes {
				trial = loadSegment(p, trial, g, cur, cur, 1, sp)
				minutes++
				gf = GFAt(p, next, dp.FirstDecoDepthM)
				if trial.CeilingDepth(p, gf) <= next {
					cleared = true
					break
				}
			}
			advance(model.PhaseDecoStop, mode, cur, cur, float64(minutes), gasIdx, sp)
			if !cleared {
				unplannable = &UnplannableError{
					StopDepthM:  cur,
					CeilingM:    ts.CeilingDepth(p, gf),
					StopMinutes: minutes,
					Tissues:     ts,
				}
				break
			}
			continue
		}

		if mode != model.StepModeCC {
			if idx, serr := dp.Gases.BestGasForSwitch(p, cur); serr == nil {
				gasIdx = idx
			}
		}
		ascTime := (cur - next) / p.AscentRateMMin
		advance(model.PhaseAscent, mode, cur, next, ascTime, gasIdx, dp.setpointAt(next, mode))
		cur = next
	}

	if unplannable == nil {
		advance(model.PhaseSurface, mode, 0, 0, 0, gasIdx, 0)
	}

	dp.Steps = steps
	dp.annotate()
	if unplannable != nil {
		return unplannable
	}
	return nil
}

// Calculate recomputes every derived field over the existing step
// structure: run times, pressures, setpoints, exposure and consumption
// roll-ups, and the tissue trace. It is the cheap path when a
// non-structural input (a setpoint value, a pinned stop duration)
// changed.
func (dp *DivePlan) Calculate() error {
	dp.annotate()
	return nil
}

// annotate fills the derived fields of the step list in order,
// re-integrating the tissue trace from the initial state.
func (dp *DivePlan) annotate() {
	p := &dp.Params
	ts := dp.initialTissue

	cnsCarried := cnsSurfaceDecay(dp.InitialCNSPct, dp.SurfaceIntervalMin)
	runTime := 0.0
	cnsSingle := 0.0
	otu := 0.0

	for i := range dp.Steps {
		s := &dp.Steps[i]
		g := dp.Gases.Gases[s.GasIndex]

		if s.Mode == model.StepModeCC {
			s.SetPointBar = dp.SetPoints.AtDepth(p, s.EndDepthM, dp.GFBoosted)
		}

		runTime += s.TimeMin
		s.RunTimeMin = runTime

		maxDepth := s.MaxDepthM()
		pAmbMax := p.PressureFromDepth(maxDepth)
		s.PAmbMaxBar = pAmbMax
		s.O2Pct, s.N2Pct, s.HePct = g.O2Pct, g.N2Pct(), g.HePct
		s.PO2MaxBar = effectivePpO2(g, pAmbMax, s.SetPointBar)
		s.PO2Warning = s.PO2MaxBar > p.MaxPpO2Deco || s.PO2MaxBar < p.WarningPpO2Low

		s.GasDensityGL = Density(p, g, maxDepth)
		s.DensityWarning = s.GasDensityGL > p.WarningGasDensityGL
		s.ENDWithoutO2M = ENDWithoutO2(p, g, maxDepth)
		s.ENDWithO2M = ENDWithO2(p, g, maxDepth)

		if s.Mode == model.StepModeCC {
			s.SacRateLMin = 0
			s.AmbConsumptionLMin = 0
			s.StepConsumptionL = 0
		} else {
			sac := p.SacFor(s.Phase)
			pMean := p.PressureFromDepth((s.StartDepthM + s.EndDepthM) / 2)
			s.SacRateLMin = sac
			s.AmbConsumptionLMin = sac * pMean
			s.StepConsumptionL = s.AmbConsumptionLMin * s.TimeMin
		}

		cnsSingle += cnsDeltaPct(s.PO2MaxBar, s.TimeMin)
		s.CNSSinglePct = cnsSingle
		s.CNSMultiplePct = cnsCarried + cnsSingle

		pO2Mean := (effectivePpO2(g, p.PressureFromDepth(s.StartDepthM), s.SetPointBar) +
			effectivePpO2(g, p.PressureFromDepth(s.EndDepthM), s.SetPointBar)) / 2
		otu += otuDelta(pO2Mean, s.TimeMin)
		s.OTUTotal = otu

		ts = loadSegment(p, ts, g, s.StartDepthM, s.EndDepthM, s.TimeMin, s.SetPointBar)
		s.TissueLoads = ts.Loads()
		s.GF = ts.GFNow(p.PressureFromDepth(s.EndDepthM))
		s.GFSurface = ts.GFNow(p.AtmPressureBar)
	}
}

// FinalTissueState returns the loadings after the last step, for
// chaining repetitive dives.
func (dp *DivePlan) FinalTissueState() TissueState {
	ts := dp.initialTissue
	p := &dp.Params
	for _, s := range dp.Steps {
		ts = loadSegment(p, ts, dp.Gases.Gases[s.GasIndex], s.StartDepthM, s.EndDepthM, s.TimeMin, s.SetPointBar)
	}
	return ts
}

// bottomEndRuntime returns the runtime at the end of the bottom phase,
// i.e. where the ascent clock starts.
func (dp *DivePlan) bottomEndRuntime() float64 {
	for _, s := range dp.Steps {
		if s.Phase == model.PhaseBottom {
			return s.RunTimeMin
		}
	}
	return 0
}

// TTSMin returns the time-to-surface measured from the end of the
// bottom phase.
func (dp *DivePlan) TTSMin() float64 {
	return dp.RuntimeMin() - dp.bottomEndRuntime()
}
