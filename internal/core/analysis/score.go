package analysis

import (
	"math"

	"github.com/samirrijal/citytwin/internal/core/domain"
)

// Product-tuned scoring constants.
const (
	HealthNoiseWeight = 0.6
	HealthHeatWeight  = 0.4

	// DefaultLayerAverage stands in for a layer with no usable values.
	DefaultLayerAverage = 50.0

	// EssaouiraOverrideScore is the citizen score at which Essaouira is always recommended.
	EssaouiraOverrideScore = 80
)

var (
	noiseScoreKeys = []string{"level", "noise", "value"}
	heatScoreKeys  = []string{"score", "index", "level", "value"}
)

// RiskWeights blends city baselines into a single risk figure.
type RiskWeights struct {
	Heat    float64
	Noise   float64
	Traffic float64
}

// CityRiskWeights holds the blend used for each persona.
var CityRiskWeights = map[domain.Persona]RiskWeights{
	domain.PersonaCitizen:  {Heat: 0.5, Noise: 0.5},
	domain.PersonaHealth:   {Heat: 0.6, Noise: 0.4},
	domain.PersonaInvestor: {Noise: 0.4, Traffic: 0.6},
}

// DefaultCityBaselines is the fixed reference table, in recommendation order.
var DefaultCityBaselines = []domain.CityBaseline{
	{Name: domain.CityEssaouira, Noise: 28, Heat: 26, Traffic: 18},
	{Name: domain.CityCasablanca, Noise: 66, Heat: 54, Traffic: 72},
	{Name: domain.CityMadrid, Noise: 58, Heat: 62, Traffic: 55},
	{Name: domain.CityNewYork, Noise: 78, Heat: 49, Traffic: 83},
}

// layerAverage averages, per feature, the first present key in keys. Features whose first
// present value does not coerce are skipped.
func layerAverage(fc *domain.FeatureCollection, keys []string) float64 {
	var raw []any
	for _, f := range fc.Items() {
		for _, k := range keys {
			if v := f.Prop(k); v != nil {
				raw = append(raw, v)
				break
			}
		}
	}
	vals := Numbers(raw)
	if len(vals) == 0 {
		return DefaultLayerAverage
	}
	return mean(vals)
}

// HealthScore computes the 0–100 health/air score from the noise and heat layers.
func HealthScore(layers domain.LayerSet) int {
	noiseAvg := clamp(layerAverage(layers.Noise, noiseScoreKeys), 0, 100)
	heatAvg := clamp(layerAverage(layers.Heat, heatScoreKeys), 0, 100)
	risk := HealthNoiseWeight*noiseAvg + HealthHeatWeight*heatAvg
	return scoreFromRisk(risk)
}

func scoreFromRisk(risk float64) int {
	return int(math.Round(clamp(100-risk, 0, 100)))
}

// CityScore computes one city's composite score under persona weighting.
func CityScore(p domain.Persona, b domain.CityBaseline) int {
	w, ok := CityRiskWeights[p]
	if !ok {
		w = CityRiskWeights[domain.PersonaCitizen]
	}
	risk := w.Heat*b.Heat + w.Noise*b.Noise + w.Traffic*b.Traffic
	return scoreFromRisk(risk)
}

// CityScores scores every baseline in order. None is marked recommended.
func CityScores(p domain.Persona, baselines []domain.CityBaseline) []domain.CityScoreItem {
	out := make([]domain.CityScoreItem, len(baselines))
	for i, b := range baselines {
		out[i] = domain.CityScoreItem{Name: b.Name, Score: CityScore(p, b)}
	}
	return out
}

// RankCities scores the baselines and marks the recommended city.
func RankCities(p domain.Persona, baselines []domain.CityBaseline) []domain.CityScoreItem {
	return Recommend(p, CityScores(p, baselines))
}

// Grade maps a health score to its traffic-light band.
func Grade(score int) string {
	switch {
	case score >= 80:
		return "Green (Healthy)"
	case score >= 60:
		return "Yellow (OK)"
	case score >= 40:
		return "Orange (Caution)"
	default:
		return "Red (Unhealthy)"
	}
}
