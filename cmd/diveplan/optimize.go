package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Pick the deco gas that minimises total ascent time",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, span := tracer.Start(cmd.Context(), "plan.optimize_deco_gas")
		defer span.End()

		plan, err := newPlanFromFlags(flagDepth, flagTime, flagMode, flagGFBoost, flagStopSteps)
		if err != nil {
			return err
		}

		saved, err := plan.OptimizeDecoGas(ctx)
		if err != nil {
			collector.ObserveServiceRun("optimize", "error")
			return err
		}
		collector.ObserveServiceRun("optimize", "ok")

		if saved <= 0 {
			fmt.Println("current deco gas selection is already optimal")
			return nil
		}
		fmt.Printf("optimised deco gas selection saves %.1f min of ascent\n", saved)
		printProfile(plan)
		return nil
	},
}

func init() {
	optimizeCmd.Flags().Float64Var(&flagDepth, "depth", 30, "target depth in metres")
	optimizeCmd.Flags().Float64Var(&flagTime, "time", 20, "bottom time in minutes")
	optimizeCmd.Flags().StringVar(&flagMode, "mode", "oc", "dive mode: oc, cc, or bailout")
	optimizeCmd.Flags().BoolVar(&flagGFBoost, "gf-boost", false, "boost CC setpoints on ascent")
	optimizeCmd.Flags().StringArrayVar(&flagStopSteps, "stop", nil, "pinned stop step as MINUTES@DEPTH (repeatable)")
	rootCmd.AddCommand(optimizeCmd)
}
