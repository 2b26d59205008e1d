package core

import (
	"fmt"
	"sort"

	"github.com/reefline/dive-planner/model"
)

// SetPoints is the piecewise-constant PpO2 schedule for CC mode,
// sorted by decreasing depth, ties broken by decreasing setpoint.
type SetPoints struct {
	Points []model.SetPoint
}

// DefaultSetPoints returns the seed schedule.
func DefaultSetPoints() SetPoints {
	sp := SetPoints{Points: []model.SetPoint{
		{DepthM: 1000, SetPointBar: 1.3},
		{DepthM: 40, SetPointBar: 1.4},
		{DepthM: 21, SetPointBar: 1.5},
		{DepthM: 6, SetPointBar: 1.6},
	}}
	sp.Sort()
	return sp
}

// Clone returns a deep value copy.
func (sp SetPoints) Clone() SetPoints {
	out := SetPoints{Points: make([]model.SetPoint, len(sp.Points))}
	copy(out.Points, sp.Points)
	return out
}

// Sort orders the schedule by decreasing depth, then decreasing
// setpoint on equal depths.
func (sp *SetPoints) Sort() {
	sort.SliceStable(sp.Points, func(i, j int) bool {
		a, b := sp.Points[i], sp.Points[j]
		if a.DepthM == b.DepthM {
			return a.SetPointBar > b.SetPointBar
		}
		return a.DepthM > b.DepthM
	})
}

// Add inserts a setpoint and re-sorts.
func (sp *SetPoints) Add(depthM, setpointBar float64) {
	sp.Points = append(sp.Points, model.SetPoint{DepthM: depthM, SetPointBar: setpointBar})
	sp.Sort()
}

// Remove deletes the entry at index, refusing to empty the schedule.
func (sp *SetPoints) Remove(index int) error {
	if index < 0 || index >= len(sp.Points) {
		return fmt.Errorf("setpoint index %d out of range", index)
	}
	if len(sp.Points) == 1 {
		return ErrSetPointsEmpty
	}
	sp.Points = append(sp.Points[:index], sp.Points[index+1:]...)
	return nil
}

// AtDepth returns the effective setpoint at a depth. With boosting
// disabled the deepest (most aggressive) setpoint applies throughout.
// An empty schedule falls back to the configured diluent PpO2 limit.
func (sp *SetPoints) AtDepth(p *Parameters, depthM float64, boosted bool) float64 {
	sp.Sort()

	if len(sp.Points) == 0 {
		return p.MaxPpO2Diluent
	}

	// At or below the deepest entry, or whenever boosting is off, the
	// deepest setpoint holds.
	if depthM >= sp.Points[0].DepthM || !boosted {
		return sp.Points[0].SetPointBar
	}

	last := len(sp.Points) - 1
	if depthM < sp.Points[last].DepthM {
		return sp.Points[last].SetPointBar
	}

	for i := 0; i < last; i++ {
		if depthM < sp.Points[i].DepthM && depthM >= sp.Points[i+1].DepthM {
			return sp.Points[i].SetPointBar
		}
	}
	return sp.Points[0].SetPointBar
}
