package simulation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/citytwin/internal/core/domain"
)

func layer(props ...map[string]any) *domain.FeatureCollection {
	fc := &domain.FeatureCollection{Type: "FeatureCollection"}
	for _, p := range props {
		fc.Features = append(fc.Features, domain.Feature{Type: "Feature", Properties: p})
	}
	return fc
}

func TestTrees(t *testing.T) {
	noise := layer(
		map[string]any{"id": "A", "level": 80.0},
		map[string]any{"id": "B", "level": "50"},
		map[string]any{"id": "C", "level": "unknown"},
	)

	got := Trees(noise, 1)
	require.Len(t, got.Features, 3)
	assert.InDelta(t, 56.0, got.Features[0].Properties["level"], 1e-9)
	assert.InDelta(t, 35.0, got.Features[1].Properties["level"], 1e-9)
	assert.Equal(t, "unknown", got.Features[2].Properties["level"], "non-numeric levels are left alone")

	assert.Equal(t, 80.0, noise.Features[0].Properties["level"], "input must not be mutated")
}

func TestTrees_ClampsIntensity(t *testing.T) {
	noise := layer(map[string]any{"level": 100.0})
	assert.InDelta(t, 70.0, Trees(noise, 7).Features[0].Properties["level"], 1e-9)
	assert.InDelta(t, 100.0, Trees(noise, -2).Features[0].Properties["level"], 1e-9)
}

func TestCalm(t *testing.T) {
	traffic := layer(
		map[string]any{"road": "N1", "speed_kmh": 80.0},
		map[string]any{"road": "Medina lane", "speed_kmh": 6.0},
		map[string]any{"road": "Bypass", "speed_kmh": 30.0},
	)

	got := Calm(traffic, 0.5)
	// 80 - (50 * 0.1) = 75
	assert.Equal(t, 75.0, got.Features[0].Properties["speed_kmh"])
	// 6 - (-24 * 0.1) = 8.4
	assert.Equal(t, 8.4, got.Features[1].Properties["speed_kmh"])
	assert.Equal(t, 30.0, got.Features[2].Properties["speed_kmh"])
}

func TestCalm_FloorsAtMinimumSpeed(t *testing.T) {
	traffic := layer(map[string]any{"speed_kmh": 1.0})
	assert.Equal(t, 5.0, Calm(traffic, 1).Features[0].Properties["speed_kmh"])
}

func TestApply(t *testing.T) {
	layers := domain.LayerSet{
		Noise:   layer(map[string]any{"level": 50.0}),
		Traffic: layer(map[string]any{"speed_kmh": 50.0}),
	}

	out, err := Apply(PlantTrees, layers, 1)
	require.NoError(t, err)
	assert.NotSame(t, layers.Noise, out.Noise)
	assert.Same(t, layers.Traffic, out.Traffic)

	_, err = Apply("flood", layers, 1)
	assert.True(t, errors.Is(err, domain.ErrUnknownSimulation))

	assert.Nil(t, Trees(nil, 1), "absent layers stay absent")
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("calm-traffic")
	require.NoError(t, err)
	assert.Equal(t, domain.LayerTraffic, k.Layer())
	assert.Equal(t, domain.LayerNoise, PlantTrees.Layer())

	_, err = ParseKind("bulldoze")
	assert.ErrorIs(t, err, domain.ErrUnknownSimulation)
}
