package ports

import (
	"context"

	"github.com/samirrijal/citytwin/internal/core/analysis"
	"github.com/samirrijal/citytwin/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishLayerChanged(ctx context.Context, event *domain.LayerChangedEvent) error
	PublishScore(ctx context.Context, event *domain.ScoreEvent) error
}

// SessionStore holds the per-session health score cell.
// Implementations must make Observe atomic: the first observation of a session seeds the
// baseline and later ones never overwrite it until Reset.
type SessionStore interface {
	Observe(ctx context.Context, sessionID string, score int) (analysis.ScoreState, error)
	Get(ctx context.Context, sessionID string) (analysis.ScoreState, error)
	Reset(ctx context.Context, sessionID string) error
}

// LayerSource loads the five layer documents.
type LayerSource interface {
	Load(ctx context.Context) (domain.LayerSet, error)
	LoadLayer(ctx context.Context, name domain.LayerName) (*domain.FeatureCollection, error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
