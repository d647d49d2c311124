package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/citytwin/internal/adapters/geojson"
	"github.com/samirrijal/citytwin/internal/adapters/http"
	"github.com/samirrijal/citytwin/internal/adapters/memory"
	natsadapter "github.com/samirrijal/citytwin/internal/adapters/nats"
	"github.com/samirrijal/citytwin/internal/adapters/valkey"
	"github.com/samirrijal/citytwin/internal/core/ports"
	"github.com/samirrijal/citytwin/internal/core/usecases"
	"github.com/samirrijal/citytwin/internal/pkg/config"
	"github.com/samirrijal/citytwin/internal/pkg/logging"
	"github.com/samirrijal/citytwin/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("citytwin-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Valkey backs the layer cache, and the session store when configured
	var (
		vk    *valkey.Client
		cache ports.CacheService
	)
	vk, err = valkey.New(cfg.Valkey.Addr)
	if err != nil {
		if cfg.Session.Store == "valkey" {
			log.Fatalf("valkey: %v", err)
		}
		slog.Warn("valkey unavailable, layer cache disabled", "error", err)
	} else {
		defer vk.Close()
		cache = valkey.NewCache(vk, "citytwin:")
	}

	var sessions ports.SessionStore
	switch cfg.Session.Store {
	case "valkey":
		sessions = valkey.NewSessionStore(vk, cfg.Session.TTL())
	default:
		mem := memory.NewSessionStore(cfg.Session.TTL())
		go mem.Run(ctx, time.Minute)
		sessions = mem
	}

	// NATS (optional). The publisher stays a nil interface when disabled.
	var (
		publisher ports.EventPublisher
		natsConn  *nats.Conn
	)
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
		}

		// Raw NATS connection for WebSocket relay
		natsConn, err = natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
		} else {
			defer natsConn.Close()
		}
	}

	// Use cases
	layerSvc := usecases.NewLayerService(geojson.NewSource(cfg.Data.Source), cache)
	deps := &http.Dependencies{
		Ask:         usecases.NewAskService(),
		Scores:      usecases.NewScoreService(sessions, publisher),
		Layers:      layerSvc,
		Simulations: usecases.NewSimulationService(layerSvc, publisher),
		Cities:      usecases.NewCityService(),
		NATS:        natsConn,
		Valkey:      vk,
		RateLimit:   cfg.Server.RateLimit,
		CORSOrigins: cfg.Server.CORSOrigins,
	}

	// Warm the layer cache; a broken source is reported by /v1/ready
	if layers, err := layerSvc.All(ctx); err != nil {
		slog.Warn("initial layer load failed", "source", cfg.Data.Source, "error", err)
	} else {
		slog.Info("layers loaded", "source", cfg.Data.Source,
			"noise", layers.Noise.Len(), "buildings", layers.Buildings.Len(),
			"sensors", layers.Sensors.Len(), "heat", layers.Heat.Len(), "traffic", layers.Traffic.Len())
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimitBytes,
		AppName:      "City Twin API",
	})
	app.Use(recover.New())

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "session_store", cfg.Session.Store, "nats", cfg.NATS.Enabled)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())
	cancel()

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
