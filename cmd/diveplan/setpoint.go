package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reefline/dive-planner/core"
)

var setpointCmd = &cobra.Command{
	Use:   "setpoint",
	Short: "Manage the persisted CC setpoint schedule",
}

var setpointListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the setpoint schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, setpoints := cfgStore.Snapshot()
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tDEPTH m\tSETPOINT bar")
		for i, pt := range setpoints.Points {
			fmt.Fprintf(w, "%d\t%.0f\t%.2f\n", i, pt.DepthM, pt.SetPointBar)
		}
		return w.Flush()
	},
}

var (
	flagSetpointDepth float64
	flagSetpointBar   float64
	flagSetpointIndex int
)

var setpointAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a setpoint to the schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cfgStore.MutateSetPoints(func(sp *core.SetPoints) error {
			sp.Add(flagSetpointDepth, flagSetpointBar)
			return nil
		})
	},
}

var setpointDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a setpoint by index",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cfgStore.MutateSetPoints(func(sp *core.SetPoints) error {
			return sp.Remove(flagSetpointIndex)
		})
	},
}

func init() {
	setpointAddCmd.Flags().Float64Var(&flagSetpointDepth, "depth", 21, "depth in metres; the setpoint holds from here up to the next shallower entry")
	setpointAddCmd.Flags().Float64Var(&flagSetpointBar, "ppo2", 1.3, "loop PpO2 in bar")

	setpointDeleteCmd.Flags().IntVar(&flagSetpointIndex, "index", 0, "setpoint index from 'setpoint list'")

	setpointCmd.AddCommand(setpointListCmd, setpointAddCmd, setpointDeleteCmd)
	rootCmd.AddCommand(setpointCmd)
}
