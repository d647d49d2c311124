package analysis

import "github.com/samirrijal/citytwin/internal/core/domain"

// ScoreState is the health score of one session plus the first score it ever observed.
// Callers own it; the engine only computes transitions.
type ScoreState struct {
	Current  *int `json:"current,omitempty"`
	Baseline *int `json:"baseline,omitempty"`
}

// Observe records score as current and seeds the baseline if it is unset.
func (s ScoreState) Observe(score int) ScoreState {
	cur := score
	s.Current = &cur
	if s.Baseline == nil {
		base := score
		s.Baseline = &base
	}
	return s
}

// Reset clears the baseline so the next observation re-seeds it.
func (s ScoreState) Reset() ScoreState {
	s.Baseline = nil
	return s
}

// Snapshot renders the state for display. It returns false before any observation.
func (s ScoreState) Snapshot() (domain.HealthSnapshot, bool) {
	if s.Current == nil {
		return domain.HealthSnapshot{}, false
	}
	base := *s.Current
	if s.Baseline != nil {
		base = *s.Baseline
	}
	return domain.HealthSnapshot{
		Score:    *s.Current,
		Baseline: base,
		Delta:    *s.Current - base,
		Grade:    Grade(*s.Current),
	}, true
}
