package core

import (
	"fmt"

	"github.com/reefline/dive-planner/model"
)

// GasList is the ordered set of mixes available to a plan. Selection
// only ever considers active gases; inactive ones stay in the list so
// an already-built plan can keep referencing them by index.
type GasList struct {
	Gases []model.Gas
}

// DefaultGasList returns the seed list: a single active air bottom mix.
func DefaultGasList() GasList {
	return GasList{Gases: []model.Gas{{
		O2Pct:  21,
		Type:   model.GasTypeBottom,
		Status: model.GasStatusActive,
	}}}
}

// Clone returns a deep value copy.
func (gl GasList) Clone() GasList {
	out := GasList{Gases: make([]model.Gas, len(gl.Gases))}
	copy(out.Gases, gl.Gases)
	return out
}

// Add validates and appends a mix.
func (gl *GasList) Add(g model.Gas) error {
	if err := ValidateGas(g); err != nil {
		return err
	}
	gl.Gases = append(gl.Gases, g)
	return nil
}

// Edit replaces the mix at index.
func (gl *GasList) Edit(index int, g model.Gas) error {
	if index < 0 || index >= len(gl.Gases) {
		return fmt.Errorf("gas index %d out of range", index)
	}
	if err := ValidateGas(g); err != nil {
		return err
	}
	gl.Gases[index] = g
	return nil
}

// Delete removes the mix at index. The last remaining gas cannot be
// deleted; the list always keeps at least one entry.
func (gl *GasList) Delete(index int) error {
	if index < 0 || index >= len(gl.Gases) {
		return fmt.Errorf("gas index %d out of range", index)
	}
	if len(gl.Gases) == 1 {
		return ErrGasListEmpty
	}
	gl.Gases = append(gl.Gases[:index], gl.Gases[index+1:]...)
	return nil
}

// BestGasForSwitch picks the open-circuit gas to breathe at a depth
// during the ascent: among active Bottom and Deco mixes whose MOD
// covers the depth, the one with the highest O2 share, ties broken by
// higher helium. Returns the index into the list.
func (gl GasList) BestGasForSwitch(p *Parameters, depthM float64) (int, error) {
	best := -1
	for i, g := range gl.Gases {
		if g.Status != model.GasStatusActive || g.Type == model.GasTypeDiluent {
			continue
		}
		if MOD(p, g) < depthM {
			continue
		}
		if best < 0 || betterSwitch(g, gl.Gases[best]) {
			best = i
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("%w: %.0f m", ErrNoGasForDepth, depthM)
	}
	return best, nil
}

// BestBottomGas picks the bottom mix for the descent: active Bottom
// gases with MOD covering the target depth, highest O2 first, ties to
// higher helium.
func (gl GasList) BestBottomGas(p *Parameters, depthM float64) (int, error) {
	best := -1
	for i, g := range gl.Gases {
		if g.Status != model.GasStatusActive || g.Type != model.GasTypeBottom {
			continue
		}
		if MOD(p, g) < depthM {
			continue
		}
		if best < 0 || betterSwitch(g, gl.Gases[best]) {
			best = i
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("%w: no bottom gas for %.0f m", ErrNoGasForDepth, depthM)
	}
	return best, nil
}

// BestDiluentForDepth picks the CC diluent: the active Diluent with the
// highest helium share whose MOD covers the depth. When no diluent is
// configured, active Bottom mixes are considered so an OC list can
// still drive a CC plan.
func (gl GasList) BestDiluentForDepth(p *Parameters, depthM float64) (int, error) {
	best := gl.bestDiluent(p, depthM, model.GasTypeDiluent)
	if best < 0 {
		best = gl.bestDiluent(p, depthM, model.GasTypeBottom)
	}
	if best < 0 {
		return 0, fmt.Errorf("%w: no diluent for %.0f m", ErrNoGasForDepth, depthM)
	}
	return best, nil
}

func (gl GasList) bestDiluent(p *Parameters, depthM float64, t model.GasType) int {
	best := -1
	for i, g := range gl.Gases {
		if g.Status != model.GasStatusActive || g.Type != t {
			continue
		}
		if MOD(p, g) < depthM {
			continue
		}
		if best < 0 || g.HePct > gl.Gases[best].HePct {
			best = i
		}
	}
	return best
}

// betterSwitch orders candidate switch gases: higher O2 wins, equal O2
// falls back to higher He.
func betterSwitch(a, b model.Gas) bool {
	if a.O2Pct != b.O2Pct {
		return a.O2Pct > b.O2Pct
	}
	return a.HePct > b.HePct
}

// ActiveDecoIndices returns the indices of active Deco mixes, in list
// order.
func (gl GasList) ActiveDecoIndices() []int {
	var out []int
	for i, g := range gl.Gases {
		if g.Status == model.GasStatusActive && g.Type == model.GasTypeDeco {
			out = append(out, i)
		}
	}
	return out
}
