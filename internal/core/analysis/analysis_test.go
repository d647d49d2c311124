package analysis

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/citytwin/internal/core/domain"
)

func collection(props ...map[string]any) *domain.FeatureCollection {
	fc := &domain.FeatureCollection{Type: "FeatureCollection"}
	for _, p := range props {
		fc.Features = append(fc.Features, domain.Feature{
			Type:       "Feature",
			Properties: p,
			Geometry:   &domain.Geometry{Type: "Point", Coordinates: json.RawMessage(`[-9.76,31.5]`)},
		})
	}
	return fc
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 42.5, 42.5, true},
		{"int", 7, 7, true},
		{"numeric string", "63", 63, true},
		{"padded string", "  12.25 ", 12.25, true},
		{"json number", json.Number("3.5"), 3.5, true},
		{"empty string", "", 0, false},
		{"word", "loud", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf string", "Inf", 0, false},
		{"map", map[string]any{"a": 1}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Number(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNumbers_PreservesOrderAndDropsInvalid(t *testing.T) {
	got := Numbers([]any{"5", nil, 3.0, "x", 9, math.Inf(1)})
	assert.Equal(t, []float64{5, 3, 9}, got)
}

func TestSummarize(t *testing.T) {
	_, ok := Summarize(nil)
	assert.False(t, ok, "empty sample has no stats")

	s, ok := Summarize([]float64{42})
	require.True(t, ok)
	assert.Equal(t, Stats{Min: 42, Max: 42, Avg: 42}, s)

	s, ok = Summarize([]float64{1, 2, 2})
	require.True(t, ok)
	assert.Equal(t, 1.67, s.Avg)

	samples := [][]float64{
		{70, 85, 85},
		{-3, 0.001, 9999},
		{0.333, 0.333, 0.334},
		{55.555, 55.556},
	}
	for _, vs := range samples {
		s, ok := Summarize(vs)
		require.True(t, ok)
		assert.LessOrEqual(t, s.Min, s.Avg)
		assert.LessOrEqual(t, s.Avg, s.Max)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		question string
		want     Topic
	}{
		{"noise and traffic levels", TopicNoise},
		{"Which area has the highest NOISE levels?", TopicNoise},
		{"average traffic speed", TopicTraffic},
		{"what is the speed on the coast road", TopicTraffic},
		{"tallest building", TopicBuildings},
		{"max height downtown", TopicBuildings},
		{"worst heat area", TopicHeat},
		{"heat vulnerability by zone", TopicHeat},
		{"how many sensors are there", TopicSensors},
		{"what is the city score", TopicScores},
		{"which city do you recommend", TopicScores},
		{"give me an overview", TopicSummary},
		{"summary please", TopicSummary},
		{"is it hot today", TopicUnknown},
		{"", TopicUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.question))
		})
	}
}

func TestRespond_NoiseExample(t *testing.T) {
	qc := domain.QueryContext{
		Persona: domain.PersonaCitizen,
		Layers: domain.LayerSet{Noise: collection(
			map[string]any{"id": "A", "level": 70.0},
			map[string]any{"id": "B", "level": 85.0},
			map[string]any{"id": "C", "level": 85.0},
		)},
	}

	got := Respond(Classify("Which area has the highest noise levels?"), qc)
	want := "Noise — min: 70, max: 85, avg: 80. Highest in: B, C.\n\n" +
		"Citizen mode: Explore cities, toggle layers, and draw a zone to focus analysis."
	assert.Equal(t, want, got)
	assert.Equal(t, got, Respond(Classify("Which area has the highest noise levels?"), qc), "answers must be deterministic")
}

func TestRespond_EmptyTraffic(t *testing.T) {
	qc := domain.QueryContext{
		Persona: domain.PersonaHealth,
		Layers:  domain.LayerSet{Traffic: collection()},
	}
	got := Respond(Classify("average traffic speed"), qc)
	assert.Equal(t, "No traffic data found.\n\nHealth mode: Prefer areas with lower noise and lower heat vulnerability.", got)
}

func TestAnswer_NoDataForAbsentOrEmptyLayers(t *testing.T) {
	want := map[Topic]string{
		TopicNoise:     "No noise data found.",
		TopicTraffic:   "No traffic data found.",
		TopicBuildings: "No buildings data found.",
		TopicHeat:      "No heat-vulnerability data found.",
		TopicSensors:   "No sensor data found.",
	}
	empty := collection()
	filled := domain.LayerSet{Noise: empty, Buildings: empty, Sensors: empty, Heat: empty, Traffic: empty}

	for topic, sentence := range want {
		assert.Equal(t, sentence, Answer(topic, domain.QueryContext{}), "absent %s", topic)
		assert.Equal(t, sentence, Answer(topic, domain.QueryContext{Layers: filled}), "empty %s", topic)
	}
}

func TestAnswer_NonNumericValuesAreDropped(t *testing.T) {
	layers := domain.LayerSet{Noise: collection(
		map[string]any{"id": "A", "level": "n/a"},
		map[string]any{"id": "B"},
		map[string]any{"id": "C", "level": nil},
	)}
	assert.Equal(t, "No noise data found.", Answer(TopicNoise, domain.QueryContext{Layers: layers}))

	layers.Noise.Features = append(layers.Noise.Features, collection(map[string]any{"level": "61.5"}).Features...)
	assert.Equal(t, "Noise — min: 61.5, max: 61.5, avg: 61.5. Highest in: unknown.",
		Answer(TopicNoise, domain.QueryContext{Layers: layers}))
}

func TestAnswer_Traffic(t *testing.T) {
	layers := domain.LayerSet{Traffic: collection(
		map[string]any{"road": "Avenue Mohammed V", "speed_kmh": 22.0},
		map[string]any{"road": "Route d'Agadir", "speed_kmh": 64.0},
		map[string]any{"speed_kmh": "22"},
	)}
	got := Answer(TopicTraffic, domain.QueryContext{Layers: layers})
	assert.Equal(t, "Traffic — min: 22 km/h, max: 64 km/h, avg: 36 km/h. Slowest: Avenue Mohammed V, unknown.", got)
}

func TestAnswer_BuildingsLabelFallback(t *testing.T) {
	layers := domain.LayerSet{Buildings: collection(
		map[string]any{"name": "Skala Tower", "id": "b1", "height_m": 30.0},
		map[string]any{"id": "b2", "height_m": 30.0},
		map[string]any{"height_m": 12.0},
		map[string]any{"name": "Riad", "height_m": 9.5},
	)}
	got := Answer(TopicBuildings, domain.QueryContext{Layers: layers})
	assert.Equal(t, "Buildings — min: 9.5 m, max: 30 m, avg: 20.38 m. Tallest: Skala Tower (30 m), b2 (30 m).", got)
}

func TestAnswer_Heat(t *testing.T) {
	layers := domain.LayerSet{Heat: collection(
		map[string]any{"zone": "Medina", "vulnerability": 8.0},
		map[string]any{"zone": "Port", "vulnerability": 5.0},
		map[string]any{"vulnerability": 8.0},
	)}
	got := Answer(TopicHeat, domain.QueryContext{Layers: layers})
	assert.Equal(t, "Heat vulnerability — min: 5, max: 8, avg: 7. Highest: Medina (8), unknown (8).", got)
}

func TestAnswer_SensorsFirstSeenOrder(t *testing.T) {
	layers := domain.LayerSet{Sensors: collection(
		map[string]any{"type": "noise"},
		map[string]any{"type": "air"},
		map[string]any{"type": "noise"},
		map[string]any{},
	)}
	got := Answer(TopicSensors, domain.QueryContext{Layers: layers})
	assert.Equal(t, "4 sensors. Types — noise: 2, air: 1, unknown: 1.", got)
}

func TestAnswer_Scores(t *testing.T) {
	assert.Equal(t, "No score data found.", Answer(TopicScores, domain.QueryContext{}))

	health := 73
	qc := domain.QueryContext{
		HealthScore: &health,
		CityScores: []domain.CityScoreItem{
			{Name: domain.CityEssaouira, Score: 73, Recommended: true},
			{Name: domain.CityMadrid, Score: 40},
		},
	}
	assert.Equal(t,
		"Health & air score: 73 (Yellow (OK)). City scores — Essaouira: 73, Madrid: 40. Recommended: Essaouira.",
		Answer(TopicScores, qc))
}

func TestRespond_SummaryAndUnknownCarryAdvice(t *testing.T) {
	qc := domain.QueryContext{Persona: domain.PersonaInvestor}
	advice := "\n\nInvestor mode: Favor areas with calmer traffic and moderate noise for schools/housing."

	assert.Equal(t, summaryText+advice, Respond(Classify("overview"), qc))
	assert.Equal(t, unknownText+advice, Respond(Classify("where is the beach?"), qc))
}

func TestAdvise(t *testing.T) {
	assert.Contains(t, Advise(domain.PersonaHealth), "Health mode")
	assert.Contains(t, Advise(domain.PersonaInvestor), "Investor mode")
	assert.Contains(t, Advise(domain.PersonaCitizen), "Citizen mode")
	assert.Equal(t, Advise(domain.PersonaCitizen), Advise(""), "unset persona uses citizen tone")
}
