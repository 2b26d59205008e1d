package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reefline/dive-planner/core"
	"github.com/reefline/dive-planner/model"
)

var gasCmd = &cobra.Command{
	Use:   "gas",
	Short: "Manage the persisted gas list",
}

var gasListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the gas list with MOD, END, and density at MOD",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, gases, _ := cfgStore.Snapshot()

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tSTATUS\tTYPE\tO2 %\tHE %\tMOD m\tEND w/o O2 m\tEND w/ O2 m\tDENSITY g/L")
		for i, g := range gases.Gases {
			mod := core.MOD(&params, g)
			fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.1f\n",
				i, g.Status, g.Type, g.O2Pct, g.HePct, mod,
				core.ENDWithoutO2(&params, g, mod),
				core.ENDWithO2(&params, g, mod),
				core.Density(&params, g, mod))
		}
		return w.Flush()
	},
}

var (
	flagGasO2   float64
	flagGasHe   float64
	flagGasType string
)

var gasAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a gas to the list",
	RunE: func(cmd *cobra.Command, args []string) error {
		gasType, err := parseGasType(flagGasType)
		if err != nil {
			return err
		}
		return cfgStore.MutateGasList(func(gl *core.GasList) error {
			return gl.Add(model.Gas{
				O2Pct:  flagGasO2,
				HePct:  flagGasHe,
				Type:   gasType,
				Status: model.GasStatusActive,
			})
		})
	},
}

var flagGasDepth float64

var gasBestCmd = &cobra.Command{
	Use:   "best",
	Short: "Compute and add the best mix for a depth",
	RunE: func(cmd *cobra.Command, args []string) error {
		gasType, err := parseGasType(flagGasType)
		if err != nil {
			return err
		}
		params, _, _ := cfgStore.Snapshot()
		best := core.BestGasForDepth(&params, flagGasDepth, gasType)
		fmt.Printf("best %s mix for %.0f m: %.0f/%.0f\n", gasType, flagGasDepth, best.O2Pct, best.HePct)
		return cfgStore.MutateGasList(func(gl *core.GasList) error {
			return gl.Add(best)
		})
	},
}

var flagGasIndex int

var gasDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a gas by index",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cfgStore.MutateGasList(func(gl *core.GasList) error {
			return gl.Delete(flagGasIndex)
		})
	},
}

func parseGasType(s string) (model.GasType, error) {
	switch s {
	case "bottom":
		return model.GasTypeBottom, nil
	case "deco":
		return model.GasTypeDeco, nil
	case "diluent":
		return model.GasTypeDiluent, nil
	default:
		return 0, fmt.Errorf("unknown gas type %q (want bottom, deco, or diluent)", s)
	}
}

func init() {
	gasAddCmd.Flags().Float64Var(&flagGasO2, "o2", 21, "oxygen percentage")
	gasAddCmd.Flags().Float64Var(&flagGasHe, "he", 0, "helium percentage")
	gasAddCmd.Flags().StringVar(&flagGasType, "type", "bottom", "gas type: bottom, deco, or diluent")

	gasBestCmd.Flags().Float64Var(&flagGasDepth, "depth", 30, "target depth in metres")
	gasBestCmd.Flags().StringVar(&flagGasType, "type", "bottom", "gas type: bottom, deco, or diluent")

	gasDeleteCmd.Flags().IntVar(&flagGasIndex, "index", 0, "gas index from 'gas list'")

	gasCmd.AddCommand(gasListCmd, gasAddCmd, gasBestCmd, gasDeleteCmd)
	rootCmd.AddCommand(gasCmd)
}
