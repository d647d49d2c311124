package natsadapter

import (
	"strings"

	"github.com/samirrijal/citytwin/internal/core/domain"
)

// Subject roots. The ".>" forms match every event of a family.
const (
	SubjectLayers    = "twin.layers"
	SubjectScores    = "twin.scores"
	SubjectLayersAll = SubjectLayers + ".>"
	SubjectScoresAll = SubjectScores + ".>"
)

// LayerChangedSubject is twin.layers.<layer>.changed.
func LayerChangedSubject(layer domain.LayerName) string {
	return SubjectLayers + "." + token(string(layer)) + ".changed"
}

// ScoreSubject is twin.scores.<session>. Anonymous scores go to twin.scores.anonymous.
func ScoreSubject(sessionID string) string {
	if sessionID == "" {
		return SubjectScores + ".anonymous"
	}
	return SubjectScores + "." + token(sessionID)
}

// token makes s safe as a single subject token.
func token(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
