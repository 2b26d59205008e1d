package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/reefline/dive-planner/core"
	"github.com/reefline/dive-planner/internal/logging"
	"github.com/reefline/dive-planner/model"
)

var (
	flagDepth     float64
	flagTime      float64
	flagMode      string
	flagGFBoost   bool
	flagStopSteps []string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build and print a dive profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, span := tracer.Start(cmd.Context(), "plan.build")
		defer span.End()
		span.SetAttributes(
			attribute.Float64("dive.depth_m", flagDepth),
			attribute.Float64("dive.bottom_time_min", flagTime),
			attribute.String("dive.mode", flagMode),
		)

		plan, err := newPlanFromFlags(flagDepth, flagTime, flagMode, flagGFBoost, flagStopSteps)
		if err != nil {
			return err
		}

		ctx, planLog := logging.WithPlanLogger(ctx, log)

		start := time.Now()
		buildErr := plan.Build()
		elapsed := time.Since(start)

		outcome := "ok"
		var unplannable *core.UnplannableError
		switch {
		case buildErr == nil:
		case errors.As(buildErr, &unplannable):
			outcome = "unplannable"
		default:
			collector.ObserveBuild(flagMode, "error", elapsed)
			return buildErr
		}
		collector.ObserveBuild(flagMode, outcome, elapsed)
		collector.SetProfileCounts(plan.NbOfSteps(), countDecoStops(plan), plan.RuntimeMin(), plan.TTSMin())

		for _, w := range plan.Warnings {
			planLog.Warn(ctx, "plan warning", logging.String("warning", w.Error()))
		}
		planLog.Info(ctx, "profile built",
			logging.Int("steps", plan.NbOfSteps()),
			logging.Float64("runtime_min", plan.RuntimeMin()),
			logging.Float64("tts_min", plan.TTSMin()),
			logging.String("outcome", outcome),
		)

		printProfile(plan)
		printConsumption(plan)

		if unplannable != nil {
			return unplannable
		}
		return nil
	},
}

func init() {
	planCmd.Flags().Float64Var(&flagDepth, "depth", 30, "target depth in metres")
	planCmd.Flags().Float64Var(&flagTime, "time", 20, "bottom time in minutes (runtime at depth)")
	planCmd.Flags().StringVar(&flagMode, "mode", "oc", "dive mode: oc, cc, or bailout")
	planCmd.Flags().BoolVar(&flagGFBoost, "gf-boost", false, "boost CC setpoints on ascent per the schedule")
	planCmd.Flags().StringArrayVar(&flagStopSteps, "stop", nil, "pinned stop step as MINUTES@DEPTH (repeatable)")
	rootCmd.AddCommand(planCmd)
}

func countDecoStops(plan *core.DivePlan) int {
	n := 0
	for i := 0; i < plan.NbOfSteps(); i++ {
		if plan.Step(i).Phase == model.PhaseDecoStop {
			n++
		}
	}
	return n
}

func printProfile(plan *core.DivePlan) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PHASE\tMODE\tDEPTH m\tTIME\tRUN\tpAmb\tpO2\tO2/He\tGF\tGFsurf\tEND\tDENS\tCNS%\tOTU\tGAS L")
	for i := 0; i < plan.NbOfSteps(); i++ {
		s := plan.Step(i)
		warn := ""
		if s.PO2Warning || s.DensityWarning {
			warn = " !"
		}
		fmt.Fprintf(w, "%s\t%s\t%.0f→%.0f\t%.1f\t%.1f\t%.2f\t%.2f\t%.0f/%.0f\t%.0f%%\t%.0f%%\t%.0f\t%.1f\t%.1f\t%.0f\t%.0f%s\n",
			s.Phase, s.Mode, s.StartDepthM, s.EndDepthM, s.TimeMin, s.RunTimeMin,
			s.PAmbMaxBar, s.PO2MaxBar, s.O2Pct, s.HePct,
			100*s.GF, 100*s.GFSurface, s.ENDWithO2M, s.GasDensityGL,
			s.CNSSinglePct, s.OTUTotal, s.StepConsumptionL, warn)
	}
	w.Flush()
}

func printConsumption(plan *core.DivePlan) {
	usages := core.GasConsumption(&plan.Params, plan.Gases, plan.Steps)
	if len(usages) == 0 {
		return
	}
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GAS\tTYPE\tTOTAL L\tTANKS\tFILL bar\tRESERVE bar\tEND bar")
	for _, u := range usages {
		fmt.Fprintf(w, "%.0f/%.0f\t%s\t%.0f\t%d×%.0fL\t%.0f\t%.0f\t%.0f\n",
			u.Gas.O2Pct, u.Gas.HePct, u.Gas.Type, u.TotalL,
			u.NbTanks, u.TankCapacityL, u.FillPressureBar, u.ReservePressureBar, u.EndPressureBar)
	}
	w.Flush()
}
