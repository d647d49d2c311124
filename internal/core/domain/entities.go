package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrUnknownLayer      = errors.New("unknown layer")
	ErrUnknownSimulation = errors.New("unknown simulation")
	ErrSessionRequired   = errors.New("session id is required")
)

// Persona is the lens a user looks at the city through.
type Persona string

const (
	PersonaCitizen  Persona = "citizen"
	PersonaHealth   Persona = "health"
	PersonaInvestor Persona = "investor"
)

// ParsePersona resolves a persona tag. Unset and unknown tags resolve to citizen.
func ParsePersona(s string) Persona {
	switch Persona(strings.ToLower(strings.TrimSpace(s))) {
	case PersonaHealth:
		return PersonaHealth
	case PersonaInvestor:
		return PersonaInvestor
	default:
		return PersonaCitizen
	}
}

// UnmarshalJSON accepts a string or null and resolves it with ParsePersona.
func (p *Persona) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		// Non-string tags (numbers, objects) are treated as unset.
		*p = PersonaCitizen
		return nil
	}
	if s == nil {
		*p = PersonaCitizen
		return nil
	}
	*p = ParsePersona(*s)
	return nil
}

// CityName names one of the reference cities.
type CityName string

const (
	CityEssaouira  CityName = "Essaouira"
	CityCasablanca CityName = "Casablanca"
	CityMadrid     CityName = "Madrid"
	CityNewYork    CityName = "New York"
)

// CityBaseline holds risk-like reference inputs for a city, each in [0,100].
type CityBaseline struct {
	Name    CityName `json:"name"`
	Noise   float64  `json:"noise"`
	Heat    float64  `json:"heat"`
	Traffic float64  `json:"traffic"`
}

// CityScoreItem is one city's composite score.
type CityScoreItem struct {
	Name        CityName `json:"name"`
	Score       int      `json:"score"`
	Recommended bool     `json:"recommended"`
}

// CityPreset is a map viewport for a known city.
type CityPreset struct {
	Key    string   `json:"key"`
	Name   CityName `json:"name"`
	Center GeoPoint `json:"center"`
	Zoom   int      `json:"zoom"`
	// DistanceKm is set when presets are ordered relative to a point.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// QueryContext is the snapshot every answer and score is computed from.
type QueryContext struct {
	Persona     Persona         `json:"persona"`
	Summary     string          `json:"summary"`
	Layers      LayerSet        `json:"layers"`
	HealthScore *int            `json:"healthScore,omitempty"`
	CityScores  []CityScoreItem `json:"cityScores,omitempty"`
}

// HealthSnapshot is the health/air score together with its session baseline.
type HealthSnapshot struct {
	SessionID string `json:"session_id,omitempty"`
	Score     int    `json:"score"`
	Baseline  int    `json:"baseline"`
	Delta     int    `json:"delta"`
	Grade     string `json:"grade"`
}

// AskRequest is the inbound question payload.
type AskRequest struct {
	Question string        `json:"question"`
	Context  *QueryContext `json:"context"`
}

// AskResponse always carries the answer in-band.
type AskResponse struct {
	Answer string `json:"answer"`
}

// LayerChangedEvent is published when a simulation produces a new layer.
type LayerChangedEvent struct {
	Layer      LayerName `json:"layer"`
	Simulation string    `json:"simulation"`
	Intensity  float64   `json:"intensity"`
	Features   int       `json:"features"`
	Time       time.Time `json:"time"`
}

// ScoreEvent is published after a session's health score is recomputed.
type ScoreEvent struct {
	Snapshot HealthSnapshot `json:"snapshot"`
	Time     time.Time      `json:"time"`
}

// SimulationResult is a simulated layer set plus the health snapshot it produced.
type SimulationResult struct {
	Simulation string          `json:"simulation"`
	Intensity  float64         `json:"intensity"`
	Layers     LayerSet        `json:"layers"`
	Health     *HealthSnapshot `json:"health,omitempty"`
}

// SweepPoint is the health score at one intensity of a sweep.
type SweepPoint struct {
	Intensity float64 `json:"intensity"`
	Score     int     `json:"score"`
	Grade     string  `json:"grade"`
}

// SweepReport is the outcome of running one simulation across several intensities.
type SweepReport struct {
	Simulation string       `json:"simulation"`
	Baseline   int          `json:"baseline"`
	Points     []SweepPoint `json:"points"`
	Best       *SweepPoint  `json:"best,omitempty"`
}
