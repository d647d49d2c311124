package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/citytwin/internal/adapters/valkey"
	"github.com/samirrijal/citytwin/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Ask         *usecases.AskService
	Scores      *usecases.ScoreService
	Layers      *usecases.LayerService
	Simulations *usecases.SimulationService
	Cities      *usecases.CityService
	NATS        *nats.Conn
	Valkey      *valkey.Client
	// RateLimit is requests per minute per IP; zero disables the limiter.
	RateLimit   int
	CORSOrigins string
}
