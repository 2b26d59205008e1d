package model

// SetPoint pins a rebreather PpO2 setpoint at a depth. The schedule in
// core.SetPoints interprets the sorted list as a piecewise-constant
// function of depth.
type SetPoint struct {
	DepthM      float64
	SetPointBar float64
}

// StopStep is a user-pinned waypoint in the ascent: hold TimeMin
// minutes at DepthM. The deepest stop step is the bottom segment of the
// dive itself.
type StopStep struct {
	DepthM  float64
	TimeMin float64
}
