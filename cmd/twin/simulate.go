package main

import (
	"github.com/spf13/cobra"

	"github.com/samirrijal/citytwin/internal/core/domain"
	"github.com/samirrijal/citytwin/internal/core/simulation"
)

var simulateIntensity float64

var simulateCmd = &cobra.Command{
	Use:       "simulate <plant-trees|calm-traffic>",
	Short:     "Run a what-if simulation on the local layers",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(simulation.PlantTrees), string(simulation.CalmTraffic)},
	RunE:      runSimulate,
}

func init() {
	simulateCmd.Flags().Float64Var(&simulateIntensity, "intensity", simulation.DefaultIntensity, "Intensity in [0,1]")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	layers, err := a.simulations.Run(ctx, args[0], simulateIntensity, nil)
	if err != nil {
		return err
	}
	snap, err := a.scores.Health(ctx, "", layers)
	if err != nil {
		return err
	}
	return printResult(cmd, &domain.SimulationResult{
		Simulation: args[0],
		Intensity:  simulation.ClampIntensity(simulateIntensity),
		Layers:     layers,
		Health:     &snap,
	})
}
