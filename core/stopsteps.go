package core

import (
	"fmt"
	"sort"

	"github.com/reefline/dive-planner/model"
)

// StopSteps is the ordered list of user-pinned waypoints, deepest
// first. The deepest entry is the bottom segment of the dive, so the
// list always holds at least one element.
type StopSteps struct {
	Steps []model.StopStep
}

// NewStopSteps seeds the list with the bottom waypoint.
func NewStopSteps(depthM, timeMin float64) StopSteps {
	return StopSteps{Steps: []model.StopStep{{DepthM: depthM, TimeMin: timeMin}}}
}

// Clone returns a deep value copy.
func (ss StopSteps) Clone() StopSteps {
	out := StopSteps{Steps: make([]model.StopStep, len(ss.Steps))}
	copy(out.Steps, ss.Steps)
	return out
}

// Sort orders the waypoints by decreasing depth.
func (ss *StopSteps) Sort() {
	sort.SliceStable(ss.Steps, func(i, j int) bool {
		return ss.Steps[i].DepthM > ss.Steps[j].DepthM
	})
}

// Add inserts a waypoint and re-sorts.
func (ss *StopSteps) Add(depthM, timeMin float64) {
	ss.Steps = append(ss.Steps, model.StopStep{DepthM: depthM, TimeMin: timeMin})
	ss.Sort()
}

// Remove deletes the waypoint at index, refusing to empty the list.
func (ss *StopSteps) Remove(index int) error {
	if index < 0 || index >= len(ss.Steps) {
		return fmt.Errorf("stop step index %d out of range", index)
	}
	if len(ss.Steps) == 1 {
		return ErrStopStepsEmpty
	}
	ss.Steps = append(ss.Steps[:index], ss.Steps[index+1:]...)
	return nil
}
