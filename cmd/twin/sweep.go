package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/citytwin/internal/core/domain"
	"github.com/samirrijal/citytwin/internal/core/simulation"
	"github.com/samirrijal/citytwin/internal/pkg/config"
	"github.com/samirrijal/citytwin/internal/workflows"
)

var (
	sweepSteps int
	sweepWait  bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <plant-trees|calm-traffic>",
	Short: "Score a simulation across intensities on the simulation worker",
	Long: `sweep starts a durable sweep workflow on the configured Temporal task queue.
The worker reads layers from its own data source.`,
	Args: cobra.ExactArgs(1),
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", workflows.DefaultSweepSteps, "Number of evenly spaced intensities")
	sweepCmd.Flags().BoolVar(&sweepWait, "wait", true, "Wait for the report")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	if _, err := simulation.ParseKind(args[0]); err != nil {
		return err
	}
	cfg, err := config.Load("citytwin-cli")
	if err != nil {
		return err
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("temporal client: %w", err)
	}
	defer c.Close()

	ctx := cmd.Context()
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "sweep-" + args[0] + "-" + uuid.NewString(),
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.SweepWorkflow, workflows.SweepInput{Simulation: args[0], Steps: sweepSteps})
	if err != nil {
		return fmt.Errorf("start sweep: %w", err)
	}

	if !sweepWait {
		return printResult(cmd, map[string]string{"workflow_id": run.GetID(), "run_id": run.GetRunID()})
	}

	var report domain.SweepReport
	if err := run.Get(ctx, &report); err != nil {
		return fmt.Errorf("sweep %s: %w", run.GetID(), err)
	}
	return printResult(cmd, &report)
}
