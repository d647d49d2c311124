package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/citytwin/internal/core/analysis"
	"github.com/samirrijal/citytwin/internal/core/domain"
)

// --- Mock SessionStore ---

type mockSessionStore struct {
	observeFn func(ctx context.Context, id string, score int) (analysis.ScoreState, error)
	getFn     func(ctx context.Context, id string) (analysis.ScoreState, error)
	resetFn   func(ctx context.Context, id string) error
}

func (m *mockSessionStore) Observe(ctx context.Context, id string, score int) (analysis.ScoreState, error) {
	if m.observeFn != nil {
		return m.observeFn(ctx, id, score)
	}
	return analysis.ScoreState{}.Observe(score), nil
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (analysis.ScoreState, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return analysis.ScoreState{}, nil
}

func (m *mockSessionStore) Reset(ctx context.Context, id string) error {
	if m.resetFn != nil {
		return m.resetFn(ctx, id)
	}
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	layers []*domain.LayerChangedEvent
	scores []*domain.ScoreEvent
	err    error
}

func (m *mockPublisher) PublishLayerChanged(_ context.Context, ev *domain.LayerChangedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layers = append(m.layers, ev)
	return m.err
}

func (m *mockPublisher) PublishScore(_ context.Context, ev *domain.ScoreEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, ev)
	return m.err
}

// --- Mock LayerSource ---

type mockLayerSource struct {
	loadFn      func(ctx context.Context) (domain.LayerSet, error)
	loadLayerFn func(ctx context.Context, name domain.LayerName) (*domain.FeatureCollection, error)
	loads       int
}

func (m *mockLayerSource) Load(ctx context.Context) (domain.LayerSet, error) {
	m.loads++
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return domain.LayerSet{}, nil
}

func (m *mockLayerSource) LoadLayer(ctx context.Context, name domain.LayerName) (*domain.FeatureCollection, error) {
	m.loads++
	if m.loadLayerFn != nil {
		return m.loadLayerFn(ctx, name)
	}
	return nil, nil
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	b, ok := m.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return b, nil
}

func (m *mockCache) Set(_ context.Context, key string, value []byte, _ int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func collection(props ...map[string]any) *domain.FeatureCollection {
	fc := &domain.FeatureCollection{Type: "FeatureCollection"}
	for _, p := range props {
		fc.Features = append(fc.Features, domain.Feature{Type: "Feature", Properties: p})
	}
	return fc
}
