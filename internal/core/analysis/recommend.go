package analysis

import "github.com/samirrijal/citytwin/internal/core/domain"

// Recommend returns a copy of items with exactly one city recommended.
//
// The highest score wins and equal scores keep the earlier city. For citizens (and an unset persona), Essaouira is
// recommended whenever it scores at least EssaouiraOverrideScore, even if another city
// scores higher.
func Recommend(p domain.Persona, items []domain.CityScoreItem) []domain.CityScoreItem {
	out := make([]domain.CityScoreItem, len(items))
	copy(out, items)
	if len(out) == 0 {
		return out
	}

	best := 0
	for i := 1; i < len(out); i++ {
		if out[i].Score > out[best].Score {
			best = i
		}
	}
	if domain.ParsePersona(string(p)) == domain.PersonaCitizen {
		for i, it := range out {
			if it.Name == domain.CityEssaouira && it.Score >= EssaouiraOverrideScore {
				best = i
				break
			}
		}
	}

	for i := range out {
		out[i].Recommended = i == best
	}
	return out
}
