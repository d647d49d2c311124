package workflows

import (
	"context"
	"fmt"

	"github.com/samirrijal/citytwin/internal/core/analysis"
	"github.com/samirrijal/citytwin/internal/core/domain"
	"github.com/samirrijal/citytwin/internal/core/simulation"
	"github.com/samirrijal/citytwin/internal/core/usecases"
	"github.com/samirrijal/citytwin/internal/pkg/metrics"
)

// SweepActivities holds the activity implementations for the sweep workflow.
type SweepActivities struct {
	Layers *usecases.LayerService
}

// LoadLayers returns the configured layer set.
func (a *SweepActivities) LoadLayers(ctx context.Context) (domain.LayerSet, error) {
	if a.Layers == nil {
		return domain.LayerSet{}, fmt.Errorf("no layer source configured")
	}
	layers, err := a.Layers.All(ctx)
	if err != nil {
		return domain.LayerSet{}, fmt.Errorf("load layers: %w", err)
	}
	return layers, nil
}

// ScoreLayers returns the health score of layers.
func (a *SweepActivities) ScoreLayers(ctx context.Context, layers domain.LayerSet) (int, error) {
	score := analysis.HealthScore(layers)
	metrics.ScoresComputed.WithLabelValues("sweep").Inc()
	return score, nil
}

// ApplySimulation runs one simulation at intensity and scores the result.
func (a *SweepActivities) ApplySimulation(ctx context.Context, kind string, intensity float64, layers domain.LayerSet) (domain.SweepPoint, error) {
	k, err := simulation.ParseKind(kind)
	if err != nil {
		return domain.SweepPoint{}, err
	}
	intensity = simulation.ClampIntensity(intensity)
	out, err := simulation.Apply(k, layers, intensity)
	if err != nil {
		return domain.SweepPoint{}, err
	}
	metrics.SimulationsRun.WithLabelValues(kind).Inc()

	score := analysis.HealthScore(out)
	return domain.SweepPoint{Intensity: intensity, Score: score, Grade: analysis.Grade(score)}, nil
}
