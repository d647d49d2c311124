package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samirrijal/citytwin/internal/adapters/geojson"
	"github.com/samirrijal/citytwin/internal/adapters/memory"
	"github.com/samirrijal/citytwin/internal/core/usecases"
	"github.com/samirrijal/citytwin/internal/pkg/config"
	"github.com/samirrijal/citytwin/internal/pkg/logging"
)

var (
	dataFlag   string
	formatFlag string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "twin",
	Short: "City twin - query and simulate urban layers from the terminal",
	Long: `twin answers questions about GeoJSON city layers, scores cities per persona,
runs what-if simulations locally, and talks to a running deployment for
intensity sweeps (Temporal) and live events (NATS).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logLevel, "text")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "", "Layer source: directory or http(s) base URL (default: data.source from config)")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "o", "human", "Output format (human, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

// app bundles the services a command needs.
type app struct {
	cfg         *config.Config
	ask         *usecases.AskService
	scores      *usecases.ScoreService
	layers      *usecases.LayerService
	simulations *usecases.SimulationService
	cities      *usecases.CityService
}

// newApp wires the services against the local layer source. Nothing is published;
// sessions live for the duration of the command.
func newApp() (*app, error) {
	cfg, err := config.Load("citytwin-cli")
	if err != nil {
		return nil, err
	}
	source := cfg.Data.Source
	if dataFlag != "" {
		source = dataFlag
	}
	layers := usecases.NewLayerService(geojson.NewSource(source), nil)
	return &app{
		cfg:         cfg,
		ask:         usecases.NewAskService(),
		scores:      usecases.NewScoreService(memory.NewSessionStore(0), nil),
		layers:      layers,
		simulations: usecases.NewSimulationService(layers, nil),
		cities:      usecases.NewCityService(),
	}, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// printResult renders v in the selected format on stdout.
func printResult(cmd *cobra.Command, v any) error {
	out, err := FormatResponse(v, OutputFormat(formatFlag))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
