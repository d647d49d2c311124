package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/citytwin/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// askAliasSunset is when the unversioned /api/ask alias stops being served.
var askAliasSunset = time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	if deps.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: deps.CORSOrigins,
			AllowMethods: "GET,POST,DELETE,OPTIONS",
			AllowHeaders: "Origin, Content-Type, Accept, If-None-Match",
		}))
	}

	// Rate limiting per IP. The ask endpoints always answer in-band.
	if deps.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Next: func(c *fiber.Ctx) bool {
				p := c.Path()
				return p == "/v1/ask" || p == "/api/ask"
			},
			Max:        deps.RateLimit,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
			},
		}))
	}

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{Path: "/api/ask", SunsetDate: askAliasSunset, Alternative: "/v1/ask"},
	}))

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// Assistant
	app.Post("/api/ask", timeout.NewWithContext(AskHandler(deps), requestTimeout))

	v1 := app.Group("/v1")
	v1.Post("/ask", timeout.NewWithContext(AskHandler(deps), requestTimeout))
	v1.Post("/context", timeout.NewWithContext(ContextHandler(deps), requestTimeout))

	// Scores & sessions
	v1.Post("/scores/health", timeout.NewWithContext(HealthScoreHandler(deps), requestTimeout))
	v1.Get("/scores/cities", timeout.NewWithContext(CityScoresHandler(deps), requestTimeout))
	v1.Post("/sessions", CreateSessionHandler(deps))
	v1.Get("/sessions/:id", timeout.NewWithContext(GetSessionHandler(deps), requestTimeout))
	v1.Delete("/sessions/:id/baseline", timeout.NewWithContext(ResetSessionHandler(deps), requestTimeout))

	// Cities
	v1.Get("/cities", ListCitiesHandler(deps))
	v1.Get("/cities/:key", GetCityHandler(deps))

	// Layers & simulations
	v1.Get("/layers", timeout.NewWithContext(ListLayersHandler(deps), requestTimeout))
	v1.Get("/layers/:name", timeout.NewWithContext(GetLayerHandler(deps), requestTimeout))
	v1.Post("/simulations/reset", timeout.NewWithContext(ResetSimulationHandler(deps), requestTimeout))
	v1.Post("/simulations/:kind", timeout.NewWithContext(SimulationHandler(deps), requestTimeout))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
