package usecases

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/citytwin/internal/core/domain"
	"github.com/samirrijal/citytwin/internal/core/ports"
	"github.com/samirrijal/citytwin/internal/core/simulation"
	"github.com/samirrijal/citytwin/internal/pkg/metrics"
	"github.com/samirrijal/citytwin/internal/pkg/telemetry"
)

// SimulationService applies what-if actions to a layer set.
type SimulationService struct {
	layers    *LayerService
	publisher ports.EventPublisher
}

// NewSimulationService creates a new SimulationService. publisher may be nil.
func NewSimulationService(layers *LayerService, publisher ports.EventPublisher) *SimulationService {
	return &SimulationService{layers: layers, publisher: publisher}
}

// Run applies the named simulation to base, or to the source layers when base is nil.
func (s *SimulationService) Run(ctx context.Context, kind string, intensity float64, base *domain.LayerSet) (domain.LayerSet, error) {
	ctx, span := telemetry.Tracer("usecases").Start(ctx, "SimulationService.Run")
	defer span.End()

	k, err := simulation.ParseKind(kind)
	if err != nil {
		return domain.LayerSet{}, err
	}
	intensity = simulation.ClampIntensity(intensity)
	span.SetAttributes(attribute.String(telemetry.AttrKind, string(k)))

	var layers domain.LayerSet
	if base != nil {
		layers = *base
	} else if layers, err = s.layers.All(ctx); err != nil {
		return domain.LayerSet{}, err
	}

	out, err := simulation.Apply(k, layers, intensity)
	if err != nil {
		return domain.LayerSet{}, err
	}
	metrics.SimulationsRun.WithLabelValues(string(k)).Inc()

	if s.publisher != nil {
		ev := &domain.LayerChangedEvent{
			Layer:      k.Layer(),
			Simulation: string(k),
			Intensity:  intensity,
			Features:   out.Get(k.Layer()).Len(),
			Time:       time.Now().UTC(),
		}
		if err := s.publisher.PublishLayerChanged(ctx, ev); err != nil {
			slog.Warn("publish layer changed", "layer", ev.Layer, "error", err)
		}
	}
	return out, nil
}

// Reset restores the noise and traffic layers of current from the source.
func (s *SimulationService) Reset(ctx context.Context, current domain.LayerSet) (domain.LayerSet, error) {
	fresh, err := s.layers.Reload(ctx, domain.LayerNoise, domain.LayerTraffic)
	if err != nil {
		return domain.LayerSet{}, err
	}
	current.Noise = fresh.Noise
	current.Traffic = fresh.Traffic

	if s.publisher != nil {
		for _, name := range []domain.LayerName{domain.LayerNoise, domain.LayerTraffic} {
			ev := &domain.LayerChangedEvent{
				Layer:      name,
				Simulation: "reset",
				Features:   current.Get(name).Len(),
				Time:       time.Now().UTC(),
			}
			if err := s.publisher.PublishLayerChanged(ctx, ev); err != nil {
				slog.Warn("publish layer changed", "layer", ev.Layer, "error", err)
			}
		}
	}
	return current, nil
}
