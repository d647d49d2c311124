// Package simulation implements the what-if actions that reshape a layer.
// Each action returns new collections and never modifies its input.
package simulation

import (
	"fmt"
	"math"

	"github.com/samirrijal/citytwin/internal/core/analysis"
	"github.com/samirrijal/citytwin/internal/core/domain"
)

// Kind names a simulation action.
type Kind string

const (
	PlantTrees  Kind = "plant-trees"
	CalmTraffic Kind = "calm-traffic"
)

const (
	treeNoiseReduction = 0.3  // share of noise removed at full intensity
	calmingFactor      = 0.2  // share of the gap to the target speed closed at full intensity
	calmingTargetKmh   = 30.0 // speeds move toward this value
	minSpeedKmh        = 5.0
)

// DefaultIntensity is used when a caller does not choose one.
const DefaultIntensity = 0.5

// ParseKind resolves a simulation name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case PlantTrees, CalmTraffic:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownSimulation, s)
}

// Layer reports which layer kind k rewrites.
func (k Kind) Layer() domain.LayerName {
	if k == CalmTraffic {
		return domain.LayerTraffic
	}
	return domain.LayerNoise
}

// Apply runs k at intensity and returns the updated layer set.
func Apply(k Kind, layers domain.LayerSet, intensity float64) (domain.LayerSet, error) {
	switch k {
	case PlantTrees:
		return layers.With(domain.LayerNoise, Trees(layers.Noise, intensity)), nil
	case CalmTraffic:
		return layers.With(domain.LayerTraffic, Calm(layers.Traffic, intensity)), nil
	}
	return layers, fmt.Errorf("%w: %q", domain.ErrUnknownSimulation, k)
}

// ClampIntensity bounds intensity to [0,1].
func ClampIntensity(intensity float64) float64 {
	if math.IsNaN(intensity) {
		return 0
	}
	return math.Max(0, math.Min(1, intensity))
}

// Trees lowers every noise level by up to 30%, never below zero.
func Trees(noise *domain.FeatureCollection, intensity float64) *domain.FeatureCollection {
	if noise == nil {
		return nil
	}
	intensity = ClampIntensity(intensity)
	out := noise.Clone()
	for _, f := range out.Features {
		level, ok := analysis.Number(f.Properties["level"])
		if !ok {
			continue
		}
		f.Properties["level"] = math.Max(0, level*(1-treeNoiseReduction*intensity))
	}
	return out
}

// Calm moves every road speed toward 30 km/h, rounded to 0.1 and never below 5 km/h.
func Calm(traffic *domain.FeatureCollection, intensity float64) *domain.FeatureCollection {
	if traffic == nil {
		return nil
	}
	intensity = ClampIntensity(intensity)
	out := traffic.Clone()
	for _, f := range out.Features {
		speed, ok := analysis.Number(f.Properties["speed_kmh"])
		if !ok {
			continue
		}
		reduced := speed - (speed-calmingTargetKmh)*calmingFactor*intensity
		f.Properties["speed_kmh"] = math.Max(minSpeedKmh, math.Round(reduced*10)/10)
	}
	return out
}
