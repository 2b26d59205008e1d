package core

import "github.com/reefline/dive-planner/model"

// GasUsage is the consumption roll-up for one gas of the list.
type GasUsage struct {
	GasIndex int
	Gas      model.Gas

	TotalL float64

	NbTanks            int
	TankCapacityL      float64
	FillPressureBar    float64
	ReservePressureBar float64
	EndPressureBar     float64
}

// GasConsumption groups the profile's OC consumption by gas and
// derives tank end pressures. CC rows consume no open-circuit gas and
// are skipped.
func GasConsumption(p *Parameters, gl GasList, steps []model.DiveStep) []GasUsage {
	totals := make(map[int]float64)
	for _, s := range steps {
		if s.Mode == model.StepModeCC {
			continue
		}
		totals[s.GasIndex] += s.StepConsumptionL
	}

	var out []GasUsage
	for i, g := range gl.Gases {
		total, used := totals[i]
		if !used {
			continue
		}

		tanks := g.NbTanks
		if tanks <= 0 {
			tanks = p.DefaultTanks
		}
		capacity := g.TankCapacityL
		if capacity <= 0 {
			capacity = p.DefaultTankCapacityL
		}
		fill := g.FillPressureBar
		if fill <= 0 {
			fill = p.DefaultFillPressureBar
		}

		usage := GasUsage{
			GasIndex:           i,
			Gas:                g,
			TotalL:             total,
			NbTanks:            tanks,
			TankCapacityL:      capacity,
			FillPressureBar:    fill,
			ReservePressureBar: fill * p.ReserveFraction,
		}
		if tanks > 0 && capacity > 0 {
			usage.EndPressureBar = fill - total/(float64(tanks)*capacity)
		}
		out = append(out, usage)
	}
	return out
}
