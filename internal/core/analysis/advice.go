package analysis

import "github.com/samirrijal/citytwin/internal/core/domain"

// Advise returns the guidance sentence appended to every answer for persona.
func Advise(p domain.Persona) string {
	switch p {
	case domain.PersonaHealth:
		return "Health mode: Prefer areas with lower noise and lower heat vulnerability."
	case domain.PersonaInvestor:
		return "Investor mode: Favor areas with calmer traffic and moderate noise for schools/housing."
	default:
		return "Citizen mode: Explore cities, toggle layers, and draw a zone to focus analysis."
	}
}
