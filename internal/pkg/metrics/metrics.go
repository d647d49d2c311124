package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citytwin",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "citytwin",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "citytwin",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Assistant and scoring metrics
	QuestionsAnswered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citytwin",
		Subsystem: "assistant",
		Name:      "questions_answered_total",
		Help:      "Questions answered, by classified topic",
	}, []string{"topic"})

	AnswerErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "citytwin",
		Subsystem: "assistant",
		Name:      "answer_errors_total",
		Help:      "Questions answered with an in-band server error",
	})

	ScoresComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citytwin",
		Subsystem: "scores",
		Name:      "computed_total",
		Help:      "Composite scores computed, by kind (health, city, sweep)",
	}, []string{"kind"})

	HealthScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "citytwin",
		Subsystem: "scores",
		Name:      "health_score",
		Help:      "Distribution of computed health/air scores",
		Buckets:   []float64{20, 40, 60, 80, 100},
	})

	SimulationsRun = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citytwin",
		Subsystem: "simulation",
		Name:      "runs_total",
		Help:      "Simulation actions applied, by kind",
	}, []string{"kind"})

	LayerLoadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "citytwin",
		Subsystem: "layers",
		Name:      "load_duration_seconds",
		Help:      "Duration of loading one layer document",
		Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
	}, []string{"layer"})

	LayerLoadErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citytwin",
		Subsystem: "layers",
		Name:      "load_errors_total",
		Help:      "Layer documents that failed to load",
	}, []string{"layer"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citytwin",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Events published to NATS, by kind",
	}, []string{"kind"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "citytwin",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citytwin",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citytwin",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
