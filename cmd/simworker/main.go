package main

import (
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/citytwin/internal/adapters/geojson"
	"github.com/samirrijal/citytwin/internal/adapters/valkey"
	"github.com/samirrijal/citytwin/internal/core/ports"
	"github.com/samirrijal/citytwin/internal/core/usecases"
	"github.com/samirrijal/citytwin/internal/pkg/config"
	"github.com/samirrijal/citytwin/internal/pkg/logging"
	"github.com/samirrijal/citytwin/internal/workflows"
)

func main() {
	cfg, err := config.Load("citytwin-simworker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// Layers are shared with the API through the Valkey cache when it is reachable
	var cache ports.CacheService
	if vk, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, reading layers directly", "error", err)
	} else {
		defer vk.Close()
		cache = valkey.NewCache(vk, "citytwin:")
	}

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.SweepWorkflow)
	w.RegisterActivity(&workflows.SweepActivities{
		Layers: usecases.NewLayerService(geojson.NewSource(cfg.Data.Source), cache),
	})

	slog.Info("simulation worker started", "task_queue", cfg.Temporal.TaskQueue, "source", cfg.Data.Source)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
