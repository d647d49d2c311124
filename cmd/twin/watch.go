package main

import (
	"context"

	"github.com/spf13/cobra"

	natsadapter "github.com/samirrijal/citytwin/internal/adapters/nats"
	"github.com/samirrijal/citytwin/internal/core/domain"
	"github.com/samirrijal/citytwin/internal/pkg/config"
)

var (
	watchSession string
	watchLayers  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream score and layer events from NATS",
	Long: `watch prints score events (all sessions, or one with --session) and, with
--layers, layer change events until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchSession, "session", "", "Only show scores for this session")
	watchCmd.Flags().BoolVar(&watchLayers, "layers", false, "Also show layer change events")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("citytwin-cli")
	if err != nil {
		return err
	}
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx := cmd.Context()
	err = sub.SubscribeScores(ctx, watchSession, func(_ context.Context, ev *domain.ScoreEvent) error {
		return printResult(cmd, ev)
	})
	if err != nil {
		return err
	}
	if watchLayers {
		err = sub.SubscribeLayerChanges(ctx, func(_ context.Context, ev *domain.LayerChangedEvent) error {
			return printResult(cmd, ev)
		})
		if err != nil {
			return err
		}
	}

	<-ctx.Done()
	return nil
}
