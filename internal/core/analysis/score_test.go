package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/citytwin/internal/core/domain"
)

func TestHealthScore(t *testing.T) {
	tests := []struct {
		name   string
		layers domain.LayerSet
		want   int
	}{
		{
			name:   "absent layers fall back to 50",
			layers: domain.LayerSet{},
			want:   50,
		},
		{
			name: "noise and heat averages",
			layers: domain.LayerSet{
				Noise: collection(map[string]any{"level": 60.0}, map[string]any{"level": 80.0}),
				Heat:  collection(map[string]any{"score": 40.0}),
			},
			// risk = 0.6*70 + 0.4*40 = 58
			want: 42,
		},
		{
			name: "first present key wins per feature",
			layers: domain.LayerSet{
				Noise: collection(
					map[string]any{"noise": 20.0, "value": 90.0},
					map[string]any{"level": nil, "value": "40"},
				),
				Heat: collection(map[string]any{"index": 10.0, "level": 99.0}),
			},
			// noise = (20+40)/2 = 30, heat = 10, risk = 18+4 = 22
			want: 78,
		},
		{
			name: "non-numeric first key drops the feature",
			layers: domain.LayerSet{
				Noise: collection(map[string]any{"level": "quiet", "noise": 10.0}),
			},
			// noise has no usable value so both averages default to 50
			want: 50,
		},
		{
			name: "out of range averages are clamped",
			layers: domain.LayerSet{
				Noise: collection(map[string]any{"level": 500.0}),
				Heat:  collection(map[string]any{"score": -30.0}),
			},
			// noise clamps to 100, heat to 0: risk = 60
			want: 40,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HealthScore(tt.layers))
		})
	}
}

func TestHealthScore_AlwaysWithinRange(t *testing.T) {
	for _, level := range []float64{-1e9, -100, 0, 33.3, 100, 250, 1e12} {
		for _, heat := range []float64{-1e6, 0, 50, 100, 1e6} {
			layers := domain.LayerSet{
				Noise: collection(map[string]any{"level": level}),
				Heat:  collection(map[string]any{"score": heat}),
			}
			s := HealthScore(layers)
			assert.GreaterOrEqual(t, s, 0)
			assert.LessOrEqual(t, s, 100)
		}
	}
}

func TestCityScore_PersonaWeights(t *testing.T) {
	b := domain.CityBaseline{Name: "Test", Noise: 40, Heat: 20, Traffic: 70}

	assert.Equal(t, 70, CityScore(domain.PersonaCitizen, b))  // 100 - (10+20)
	assert.Equal(t, 72, CityScore(domain.PersonaHealth, b))   // 100 - (12+16)
	assert.Equal(t, 42, CityScore(domain.PersonaInvestor, b)) // 100 - (42+16)
	assert.Equal(t, CityScore(domain.PersonaCitizen, b), CityScore("", b))
}

func TestRankCities_Defaults(t *testing.T) {
	got := RankCities(domain.PersonaCitizen, DefaultCityBaselines)
	want := []domain.CityScoreItem{
		{Name: domain.CityEssaouira, Score: 73, Recommended: true},
		{Name: domain.CityCasablanca, Score: 40},
		{Name: domain.CityMadrid, Score: 40},
		{Name: domain.CityNewYork, Score: 37},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RankCities mismatch (-want +got):\n%s", diff)
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name    string
		persona domain.Persona
		items   []domain.CityScoreItem
		want    domain.CityName
	}{
		{
			name:    "highest score wins",
			persona: domain.PersonaHealth,
			items: []domain.CityScoreItem{
				{Name: domain.CityEssaouira, Score: 60},
				{Name: domain.CityMadrid, Score: 75},
			},
			want: domain.CityMadrid,
		},
		{
			name:    "ties keep the earlier city",
			persona: domain.PersonaInvestor,
			items: []domain.CityScoreItem{
				{Name: domain.CityCasablanca, Score: 70},
				{Name: domain.CityMadrid, Score: 70},
			},
			want: domain.CityCasablanca,
		},
		{
			name:    "citizen override at exactly 80",
			persona: domain.PersonaCitizen,
			items: []domain.CityScoreItem{
				{Name: domain.CityMadrid, Score: 85},
				{Name: domain.CityEssaouira, Score: 80},
			},
			want: domain.CityEssaouira,
		},
		{
			name:    "override needs 80",
			persona: domain.PersonaCitizen,
			items: []domain.CityScoreItem{
				{Name: domain.CityMadrid, Score: 85},
				{Name: domain.CityEssaouira, Score: 79},
			},
			want: domain.CityMadrid,
		},
		{
			name:    "unset persona gets the citizen override",
			persona: "",
			items: []domain.CityScoreItem{
				{Name: domain.CityMadrid, Score: 85},
				{Name: domain.CityEssaouira, Score: 80},
			},
			want: domain.CityEssaouira,
		},
		{
			name:    "override is citizen only",
			persona: domain.PersonaHealth,
			items: []domain.CityScoreItem{
				{Name: domain.CityMadrid, Score: 85},
				{Name: domain.CityEssaouira, Score: 80},
			},
			want: domain.CityMadrid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.persona, tt.items)
			require.Len(t, got, len(tt.items))
			count := 0
			for _, it := range got {
				if it.Recommended {
					count++
					assert.Equal(t, tt.want, it.Name)
				}
			}
			assert.Equal(t, 1, count, "exactly one city is recommended")
			for _, it := range tt.items {
				assert.False(t, it.Recommended, "input must not be mutated")
			}
		})
	}
}

func TestRankCities_UnsetPersonaMatchesCitizen(t *testing.T) {
	baselines := []domain.CityBaseline{
		{Name: domain.CityMadrid, Noise: 10, Heat: 10, Traffic: 10},
		{Name: domain.CityEssaouira, Noise: 20, Heat: 20, Traffic: 20},
	}
	citizen := RankCities(domain.PersonaCitizen, baselines)
	if diff := cmp.Diff(citizen, RankCities("", baselines)); diff != "" {
		t.Errorf("unset persona ranking differs from citizen (-citizen +unset):\n%s", diff)
	}
	assert.True(t, citizen[1].Recommended, "Essaouira at 80 takes the citizen override")
}

func TestRecommend_Empty(t *testing.T) {
	assert.Empty(t, Recommend(domain.PersonaCitizen, nil))
}

func TestGrade(t *testing.T) {
	assert.Equal(t, "Green (Healthy)", Grade(80))
	assert.Equal(t, "Yellow (OK)", Grade(79))
	assert.Equal(t, "Yellow (OK)", Grade(60))
	assert.Equal(t, "Orange (Caution)", Grade(40))
	assert.Equal(t, "Red (Unhealthy)", Grade(39))
}

func TestScoreState(t *testing.T) {
	var s ScoreState
	_, ok := s.Snapshot()
	assert.False(t, ok)

	s = s.Observe(62)
	snap, ok := s.Snapshot()
	require.True(t, ok)
	assert.Equal(t, domain.HealthSnapshot{Score: 62, Baseline: 62, Delta: 0, Grade: "Yellow (OK)"}, snap)

	s = s.Observe(71)
	snap, _ = s.Snapshot()
	assert.Equal(t, 62, snap.Baseline, "baseline keeps the first observation")
	assert.Equal(t, 9, snap.Delta)

	s = s.Reset().Observe(55)
	snap, _ = s.Snapshot()
	assert.Equal(t, 55, snap.Baseline, "reset lets the next observation re-seed")
	assert.Equal(t, 0, snap.Delta)
}
