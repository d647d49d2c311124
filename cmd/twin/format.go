package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/samirrijal/citytwin/internal/core/domain"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp any, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatYAML:
		return formatYAML(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp any) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatYAML goes through JSON so keys match the API's field names.
func formatYAML(resp any) (string, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return "", fmt.Errorf("failed to decode JSON: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

func formatHuman(resp any) (string, error) {
	switch v := resp.(type) {
	case domain.AskResponse:
		return v.Answer, nil
	case *scoresReport:
		return formatScoresHuman(v), nil
	case []domain.CityPreset:
		return formatPresetsHuman(v), nil
	case *domain.SimulationResult:
		return formatSimulationHuman(v), nil
	case *domain.SweepReport:
		return formatSweepHuman(v), nil
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatScoresHuman(r *scoresReport) string {
	var b strings.Builder
	if r.Health != nil {
		fmt.Fprintf(&b, "Health & air score: %d (%s)\n\n", r.Health.Score, r.Health.Grade)
	}
	fmt.Fprintf(&b, "City scores (%s):\n", r.Persona)
	for _, it := range r.Cities {
		marker := " "
		if it.Recommended {
			marker = "*"
		}
		fmt.Fprintf(&b, "  %s %-12s %3d\n", marker, it.Name, it.Score)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPresetsHuman(presets []domain.CityPreset) string {
	var b strings.Builder
	for _, p := range presets {
		fmt.Fprintf(&b, "%-11s %-12s %8.4f %9.4f  z%d", p.Key, p.Name, p.Center.Lat, p.Center.Lon, p.Zoom)
		if p.DistanceKm != nil {
			fmt.Fprintf(&b, "  %.1f km", *p.DistanceKm)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSimulationHuman(r *domain.SimulationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at intensity %.2f\n", r.Simulation, r.Intensity)
	for _, name := range domain.LayerNames {
		if fc := r.Layers.Get(name); fc != nil {
			fmt.Fprintf(&b, "  %-10s %d features\n", name, fc.Len())
		}
	}
	if r.Health != nil {
		fmt.Fprintf(&b, "Health: %d (%s)", r.Health.Score, r.Health.Grade)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSweepHuman(r *domain.SweepReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sweep %s, baseline %d\n", r.Simulation, r.Baseline)
	for _, p := range r.Points {
		marker := " "
		if r.Best != nil && p.Intensity == r.Best.Intensity {
			marker = "*"
		}
		fmt.Fprintf(&b, "  %s %.2f  %3d  %+d  %s\n", marker, p.Intensity, p.Score, p.Score-r.Baseline, p.Grade)
	}
	return strings.TrimRight(b.String(), "\n")
}
