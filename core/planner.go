package core

import (
	"context"

	"github.com/reefline/dive-planner/model"
)

// MaxTimeAndTTS answers "how long can the bottom be held": it extends
// the deepest pinned waypoint, rebuilding each trial, and searches by
// doubling and then one-minute bisection for the longest extension
// whose time-to-surface stays within the baseline TTS plus the
// configured slack. All search happens on clones; the receiver is
// never mutated.
// Returns the maximum holdable minutes and the TTS at that duration.
func (dp *DivePlan) MaxTimeAndTTS(ctx context.Context) (float64, float64, error) {
	base := dp.Clone()
	if err := base.Build(); err != nil {
		return 0, 0, err
	}

	baseTTS := base.TTSMin()
	budget := baseTTS + dp.Params.TTSBudgetSlackMin
	baseMinutes := base.StopSteps.Steps[0].TimeMin

	ttsWithExtra := func(extra float64) (float64, bool) {
		trial := dp.Clone()
		trial.StopSteps.Steps[0].TimeMin = baseMinutes + extra
		if err := trial.Build(); err != nil {
			return 0, false
		}
		return trial.TTSMin(), true
	}

	feasible := func(extra float64) (float64, bool) {
		tts, ok := ttsWithExtra(extra)
		return tts, ok && tts <= budget+1e-9
	}

	// Coarse doubling to bracket the limit, then 1-minute refinement.
	// A dive shallow enough to never build an obligation is capped at
	// the stop budget rather than searched forever.
	maxExtra := float64(dp.Params.MaxStopMinutes)
	bestExtra := 0.0
	bestTTS := baseTTS
	hi := 1.0
	for hi <= maxExtra {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		tts, ok := feasible(hi)
		if !ok {
			break
		}
		bestExtra, bestTTS = hi, tts
		hi *= 2
	}
	if hi > maxExtra {
		hi = maxExtra + 1
	}

	lo := bestExtra
	for lo+1 < hi {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		mid := float64(int((lo + hi) / 2))
		if mid <= lo {
			mid = lo + 1
		}
		if tts, ok := feasible(mid); ok {
			lo, bestExtra, bestTTS = mid, mid, tts
		} else {
			hi = mid
		}
	}

	return baseMinutes + bestExtra, bestTTS, nil
}

// decoGasScore orders optimisation candidates: shortest ascent first,
// ties broken by lower CNS, then lower consumption.
type decoGasScore struct {
	gasIndex     int
	ascentMin    float64
	cnsPct       float64
	consumptionL float64
}

func (a decoGasScore) betterThan(b decoGasScore) bool {
	if a.ascentMin != b.ascentMin {
		return a.ascentMin < b.ascentMin
	}
	if a.cnsPct != b.cnsPct {
		return a.cnsPct < b.cnsPct
	}
	return a.consumptionL < b.consumptionL
}

// OptimizeDecoGas picks the single active deco mix that minimises total
// ascent time, deactivates the others, and rebuilds the plan with the
// winning selection. Returns the ascent minutes saved against the
// current selection. The receiver is left untouched on cancellation,
// with fewer than two candidates, or when every candidate fails to
// build.
func (dp *DivePlan) OptimizeDecoGas(ctx context.Context) (float64, error) {
	candidates := dp.Gases.ActiveDecoIndices()
	if len(candidates) < 2 {
		return 0, nil
	}

	base := dp.Clone()
	if err := base.Build(); err != nil {
		return 0, err
	}
	baseScore := planScore(base, -1)

	var best *decoGasScore
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		trial := dp.Clone()
		soloDecoGas(&trial.Gases, cand)
		if err := trial.Build(); err != nil {
			continue
		}
		score := planScore(trial, cand)
		if best == nil || score.betterThan(*best) {
			s := score
			best = &s
		}
	}

	if best == nil {
		return 0, nil
	}

	soloDecoGas(&dp.Gases, best.gasIndex)
	if err := dp.Build(); err != nil {
		return 0, err
	}
	return baseScore.ascentMin - best.ascentMin, nil
}

// soloDecoGas activates one deco mix and deactivates the rest, leaving
// bottom gases and diluents alone.
func soloDecoGas(gl *GasList, keep int) {
	for i := range gl.Gases {
		if gl.Gases[i].Type != model.GasTypeDeco {
			continue
		}
		if i == keep {
			gl.Gases[i].Status = model.GasStatusActive
		} else {
			gl.Gases[i].Status = model.GasStatusInactive
		}
	}
}

func planScore(dp *DivePlan, gasIndex int) decoGasScore {
	score := decoGasScore{gasIndex: gasIndex, ascentMin: dp.TTSMin()}
	if n := len(dp.Steps); n > 0 {
		score.cnsPct = dp.Steps[n-1].CNSSinglePct
	}
	for _, s := range dp.Steps {
		score.consumptionL += s.StepConsumptionL
	}
	return score
}
