package analysis

import (
	"fmt"
	"strings"

	"github.com/samirrijal/citytwin/internal/core/domain"
)

const (
	summaryText = `Layers: noise, buildings, sensors, heat vulnerability, traffic. ` +
		`Ask: "highest noise", "average traffic", "tallest building", "worst heat area", "city scores".`
	unknownText = "I didn't recognize the topic. Try noise, traffic speeds, building heights, heat vulnerability, or sensors."
)

// entry pairs a feature's display label with its coerced measurement.
type entry struct {
	label string
	value float64
}

// sample extracts (label, value) pairs from fc, dropping features whose value does not coerce.
func sample(fc *domain.FeatureCollection, valueKey string, labelOf func(domain.Feature) string) []entry {
	feats := fc.Items()
	out := make([]entry, 0, len(feats))
	for _, f := range feats {
		v, ok := Number(f.Prop(valueKey))
		if !ok {
			continue
		}
		out = append(out, entry{label: labelOf(f), value: v})
	}
	return out
}

func values(entries []entry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out
}

// matching returns every entry whose value equals target, in feature order. Ties are all kept.
func matching(entries []entry, target float64, render func(entry) string) string {
	var parts []string
	for _, e := range entries {
		if e.value == target {
			parts = append(parts, render(e))
		}
	}
	return strings.Join(parts, ", ")
}

func byLabel(e entry) string { return e.label }

// Answer renders the topical sentence for topic from the context snapshot.
func Answer(topic Topic, qc domain.QueryContext) string {
	switch topic {
	case TopicNoise:
		return answerNoise(qc.Layers.Noise)
	case TopicTraffic:
		return answerTraffic(qc.Layers.Traffic)
	case TopicBuildings:
		return answerBuildings(qc.Layers.Buildings)
	case TopicHeat:
		return answerHeat(qc.Layers.Heat)
	case TopicSensors:
		return answerSensors(qc.Layers.Sensors)
	case TopicScores:
		return answerScores(qc.HealthScore, qc.CityScores)
	case TopicSummary:
		return summaryText
	default:
		return unknownText
	}
}

// Respond answers topic and appends the persona guidance after a blank line.
func Respond(topic Topic, qc domain.QueryContext) string {
	return Answer(topic, qc) + "\n\n" + Advise(qc.Persona)
}

func answerNoise(fc *domain.FeatureCollection) string {
	entries := sample(fc, "level", func(f domain.Feature) string {
		return label(f.Prop("id"), "unknown")
	})
	s, ok := Summarize(values(entries))
	if !ok {
		return "No noise data found."
	}
	return fmt.Sprintf("Noise — min: %s, max: %s, avg: %s. Highest in: %s.",
		formatNumber(s.Min), formatNumber(s.Max), formatNumber(s.Avg),
		matching(entries, s.Max, byLabel))
}

func answerTraffic(fc *domain.FeatureCollection) string {
	entries := sample(fc, "speed_kmh", func(f domain.Feature) string {
		return label(f.Prop("road"), "unknown")
	})
	s, ok := Summarize(values(entries))
	if !ok {
		return "No traffic data found."
	}
	return fmt.Sprintf("Traffic — min: %s km/h, max: %s km/h, avg: %s km/h. Slowest: %s.",
		formatNumber(s.Min), formatNumber(s.Max), formatNumber(s.Avg),
		matching(entries, s.Min, byLabel))
}

func answerBuildings(fc *domain.FeatureCollection) string {
	entries := sample(fc, "height_m", func(f domain.Feature) string {
		if name := f.Prop("name"); name != nil {
			return label(name, "unknown")
		}
		return label(f.Prop("id"), "unknown")
	})
	s, ok := Summarize(values(entries))
	if !ok {
		return "No buildings data found."
	}
	tallest := matching(entries, s.Max, func(e entry) string {
		return fmt.Sprintf("%s (%s m)", e.label, formatNumber(e.value))
	})
	return fmt.Sprintf("Buildings — min: %s m, max: %s m, avg: %s m. Tallest: %s.",
		formatNumber(s.Min), formatNumber(s.Max), formatNumber(s.Avg), tallest)
}

func answerHeat(fc *domain.FeatureCollection) string {
	entries := sample(fc, "vulnerability", func(f domain.Feature) string {
		return label(f.Prop("zone"), "unknown")
	})
	s, ok := Summarize(values(entries))
	if !ok {
		return "No heat-vulnerability data found."
	}
	worst := matching(entries, s.Max, func(e entry) string {
		return fmt.Sprintf("%s (%s)", e.label, formatNumber(e.value))
	})
	return fmt.Sprintf("Heat vulnerability — min: %s, max: %s, avg: %s. Highest: %s.",
		formatNumber(s.Min), formatNumber(s.Max), formatNumber(s.Avg), worst)
}

func answerSensors(fc *domain.FeatureCollection) string {
	feats := fc.Items()
	if len(feats) == 0 {
		return "No sensor data found."
	}
	// Keys keep first-seen order.
	var kinds []string
	counts := make(map[string]int)
	for _, f := range feats {
		k := label(f.Prop("type"), "unknown")
		if _, seen := counts[k]; !seen {
			kinds = append(kinds, k)
		}
		counts[k]++
	}
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s: %d", k, counts[k])
	}
	return fmt.Sprintf("%d sensors. Types — %s.", len(feats), strings.Join(parts, ", "))
}

func answerScores(health *int, cities []domain.CityScoreItem) string {
	if health == nil && len(cities) == 0 {
		return "No score data found."
	}
	var b strings.Builder
	if health != nil {
		fmt.Fprintf(&b, "Health & air score: %d (%s).", *health, Grade(*health))
	}
	if len(cities) > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		parts := make([]string, len(cities))
		recommended := ""
		for i, c := range cities {
			parts[i] = fmt.Sprintf("%s: %d", c.Name, c.Score)
			if c.Recommended {
				recommended = string(c.Name)
			}
		}
		fmt.Fprintf(&b, "City scores — %s.", strings.Join(parts, ", "))
		if recommended != "" {
			fmt.Fprintf(&b, " Recommended: %s.", recommended)
		}
	}
	return b.String()
}
