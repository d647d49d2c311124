package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/citytwin/internal/core/analysis"
	"github.com/samirrijal/citytwin/internal/core/domain"
	"github.com/samirrijal/citytwin/internal/core/ports"
	"github.com/samirrijal/citytwin/internal/pkg/metrics"
	"github.com/samirrijal/citytwin/internal/pkg/telemetry"
)

// ScoreService computes health and city scores and tracks per-session baselines.
type ScoreService struct {
	sessions  ports.SessionStore
	publisher ports.EventPublisher
	baselines []domain.CityBaseline
}

// NewScoreService creates a new ScoreService. publisher may be nil.
func NewScoreService(sessions ports.SessionStore, publisher ports.EventPublisher) *ScoreService {
	return &ScoreService{
		sessions:  sessions,
		publisher: publisher,
		baselines: analysis.DefaultCityBaselines,
	}
}

// Health scores layers. With a session ID the score is observed against that session's
// baseline; without one the snapshot is its own baseline.
func (s *ScoreService) Health(ctx context.Context, sessionID string, layers domain.LayerSet) (domain.HealthSnapshot, error) {
	ctx, span := telemetry.Tracer("usecases").Start(ctx, "ScoreService.Health")
	defer span.End()

	score := analysis.HealthScore(layers)
	metrics.ScoresComputed.WithLabelValues("health").Inc()
	metrics.HealthScore.Observe(float64(score))
	span.SetAttributes(attribute.Int(telemetry.AttrScore, score))

	if sessionID == "" {
		snap, _ := analysis.ScoreState{}.Observe(score).Snapshot()
		return snap, nil
	}
	span.SetAttributes(attribute.String(telemetry.AttrSessionID, sessionID))

	state, err := s.sessions.Observe(ctx, sessionID, score)
	if err != nil {
		return domain.HealthSnapshot{}, fmt.Errorf("observe score: %w", err)
	}
	snap, _ := state.Snapshot()
	snap.SessionID = sessionID

	if s.publisher != nil {
		ev := &domain.ScoreEvent{Snapshot: snap, Time: time.Now().UTC()}
		if err := s.publisher.PublishScore(ctx, ev); err != nil {
			slog.Warn("publish score event", "session_id", sessionID, "error", err)
		}
	}
	return snap, nil
}

// Session returns the last snapshot of a session. ok is false before any observation.
func (s *ScoreService) Session(ctx context.Context, sessionID string) (snap domain.HealthSnapshot, ok bool, err error) {
	if sessionID == "" {
		return snap, false, domain.ErrSessionRequired
	}
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return snap, false, fmt.Errorf("get session: %w", err)
	}
	snap, ok = state.Snapshot()
	snap.SessionID = sessionID
	return snap, ok, nil
}

// Reset clears a session's baseline so the next observation re-seeds it.
func (s *ScoreService) Reset(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrSessionRequired
	}
	if err := s.sessions.Reset(ctx, sessionID); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}

// Cities scores the reference cities for persona and marks the recommendation.
func (s *ScoreService) Cities(persona domain.Persona) []domain.CityScoreItem {
	metrics.ScoresComputed.WithLabelValues("city").Inc()
	return analysis.RankCities(domain.ParsePersona(string(persona)), s.baselines)
}

// Context folds the health score and city scores into qc so the SCORES topic can answer.
func (s *ScoreService) Context(ctx context.Context, sessionID string, qc domain.QueryContext) (domain.QueryContext, error) {
	qc.Persona = domain.ParsePersona(string(qc.Persona))
	snap, err := s.Health(ctx, sessionID, qc.Layers)
	if err != nil {
		return qc, err
	}
	score := snap.Score
	qc.HealthScore = &score
	qc.CityScores = s.Cities(qc.Persona)
	return qc, nil
}
