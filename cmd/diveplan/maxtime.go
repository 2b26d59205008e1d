package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var maxTimeCmd = &cobra.Command{
	Use:   "maxtime",
	Short: "Find the longest holdable bottom time within the TTS budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, span := tracer.Start(cmd.Context(), "plan.maxtime")
		defer span.End()

		plan, err := newPlanFromFlags(flagDepth, flagTime, flagMode, flagGFBoost, flagStopSteps)
		if err != nil {
			return err
		}

		maxMin, tts, err := plan.MaxTimeAndTTS(ctx)
		if err != nil {
			collector.ObserveServiceRun("maxtime", "error")
			return err
		}
		collector.ObserveServiceRun("maxtime", "ok")

		fmt.Printf("max bottom time: %.0f min (TTS %.1f min)\n", maxMin, tts)
		return nil
	},
}

func init() {
	maxTimeCmd.Flags().Float64Var(&flagDepth, "depth", 30, "target depth in metres")
	maxTimeCmd.Flags().Float64Var(&flagTime, "time", 20, "bottom time in minutes")
	maxTimeCmd.Flags().StringVar(&flagMode, "mode", "oc", "dive mode: oc, cc, or bailout")
	maxTimeCmd.Flags().BoolVar(&flagGFBoost, "gf-boost", false, "boost CC setpoints on ascent")
	maxTimeCmd.Flags().StringArrayVar(&flagStopSteps, "stop", nil, "pinned stop step as MINUTES@DEPTH (repeatable)")
	rootCmd.AddCommand(maxTimeCmd)
}
