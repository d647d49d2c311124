package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/samirrijal/citytwin/internal/core/domain"
	"github.com/samirrijal/citytwin/internal/core/ports"
	"github.com/samirrijal/citytwin/internal/pkg/metrics"
)

const layerCacheTTL = 300

// LayerService serves the thematic layers, reading through an optional cache.
type LayerService struct {
	source ports.LayerSource
	cache  ports.CacheService
}

// NewLayerService creates a new LayerService. cache may be nil.
func NewLayerService(source ports.LayerSource, cache ports.CacheService) *LayerService {
	return &LayerService{source: source, cache: cache}
}

func layerCacheKey(name domain.LayerName) string { return "layers:" + string(name) }

// All returns every layer. Layers the source cannot provide are absent.
func (s *LayerService) All(ctx context.Context) (domain.LayerSet, error) {
	var set domain.LayerSet
	if s.cache != nil {
		if b, err := s.cache.Get(ctx, "layers:all"); err == nil && json.Unmarshal(b, &set) == nil {
			metrics.CacheHits.WithLabelValues("layers").Inc()
			return set, nil
		}
		metrics.CacheMisses.WithLabelValues("layers").Inc()
	}

	set, err := s.source.Load(ctx)
	if err != nil {
		return domain.LayerSet{}, fmt.Errorf("load layers: %w", err)
	}
	s.store(ctx, "layers:all", set)
	return set, nil
}

// Get returns one layer. An absent layer is (nil, nil).
func (s *LayerService) Get(ctx context.Context, name domain.LayerName) (*domain.FeatureCollection, error) {
	key := layerCacheKey(name)
	if s.cache != nil {
		var fc domain.FeatureCollection
		if b, err := s.cache.Get(ctx, key); err == nil && json.Unmarshal(b, &fc) == nil {
			metrics.CacheHits.WithLabelValues("layer").Inc()
			return &fc, nil
		}
		metrics.CacheMisses.WithLabelValues("layer").Inc()
	}

	fc, err := s.source.LoadLayer(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load layer %s: %w", name, err)
	}
	if fc != nil {
		s.store(ctx, key, fc)
	}
	return fc, nil
}

// Reload reads the named layers straight from the source and refreshes their cache entries.
func (s *LayerService) Reload(ctx context.Context, names ...domain.LayerName) (domain.LayerSet, error) {
	var set domain.LayerSet
	for _, name := range names {
		fc, err := s.source.LoadLayer(ctx, name)
		if err != nil {
			return domain.LayerSet{}, fmt.Errorf("reload layer %s: %w", name, err)
		}
		set = set.With(name, fc)
		if fc != nil {
			s.store(ctx, layerCacheKey(name), fc)
		} else if s.cache != nil {
			_ = s.cache.Delete(ctx, layerCacheKey(name))
		}
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "layers:all")
	}
	return set, nil
}

func (s *LayerService) store(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b, layerCacheTTL); err != nil {
		slog.Debug("layer cache set failed", "key", key, "error", err)
	}
}
