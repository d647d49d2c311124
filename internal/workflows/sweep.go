package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/citytwin/internal/core/domain"
	"github.com/samirrijal/citytwin/internal/core/simulation"
)

// DefaultSweepSteps is used when SweepInput.Steps is not positive.
const DefaultSweepSteps = 4

// maxSweepSteps bounds the activity fan-out of one sweep.
const maxSweepSteps = 20

// SweepInput is the input for the sweep workflow.
type SweepInput struct {
	Simulation string
	Steps      int
	Layers     *domain.LayerSet // nil means the configured layer source
}

// Intensities returns the evenly spaced intensities in (0,1] that a sweep visits.
func (in SweepInput) Intensities() []float64 {
	steps := in.Steps
	if steps <= 0 {
		steps = DefaultSweepSteps
	}
	if steps > maxSweepSteps {
		steps = maxSweepSteps
	}
	out := make([]float64, steps)
	for i := range out {
		out[i] = float64(i+1) / float64(steps)
	}
	return out
}

// SweepWorkflow runs one simulation at several intensities against the same base layers
// and reports the health score at each. Best is the highest score; ties keep the lower
// intensity.
func SweepWorkflow(ctx workflow.Context, input SweepInput) (*domain.SweepReport, error) {
	logger := workflow.GetLogger(ctx)

	if _, err := simulation.ParseKind(input.Simulation); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "UnknownSimulation", err)
	}
	logger.Info("Starting sweep workflow", "simulation", input.Simulation, "steps", input.Steps)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Resolve base layers
	var layers domain.LayerSet
	if input.Layers != nil {
		layers = *input.Layers
	} else if err := workflow.ExecuteActivity(ctx, "LoadLayers").Get(ctx, &layers); err != nil {
		return nil, fmt.Errorf("load layers: %w", err)
	}

	// Step 2: Score the untouched layers
	report := &domain.SweepReport{Simulation: input.Simulation}
	if err := workflow.ExecuteActivity(ctx, "ScoreLayers", layers).Get(ctx, &report.Baseline); err != nil {
		return nil, fmt.Errorf("score baseline: %w", err)
	}

	// Step 3: Fan out one simulation per intensity
	intensities := input.Intensities()
	futures := make([]workflow.Future, len(intensities))
	for i, intensity := range intensities {
		futures[i] = workflow.ExecuteActivity(ctx, "ApplySimulation", input.Simulation, intensity, layers)
	}

	report.Points = make([]domain.SweepPoint, len(futures))
	for i, f := range futures {
		if err := f.Get(ctx, &report.Points[i]); err != nil {
			return nil, fmt.Errorf("simulate at %.2f: %w", intensities[i], err)
		}
	}

	for i := range report.Points {
		if report.Best == nil || report.Points[i].Score > report.Best.Score {
			report.Best = &report.Points[i]
		}
	}

	logger.Info("Sweep finished", "baseline", report.Baseline, "best", report.Best.Score)
	return report, nil
}
