// Package geojson loads the thematic layers from GeoJSON documents on disk or over HTTP.
package geojson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/citytwin/internal/core/domain"
	"github.com/samirrijal/citytwin/internal/pkg/metrics"
)

// FileNames maps each layer to its document name.
var FileNames = map[domain.LayerName]string{
	domain.LayerNoise:     "noise.geojson",
	domain.LayerBuildings: "buildings.geojson",
	domain.LayerSensors:   "sensors.geojson",
	domain.LayerHeat:      "heat-vulnerability.geojson",
	domain.LayerTraffic:   "traffic.geojson",
}

// errNotFound marks a layer document that does not exist.
var errNotFound = errors.New("layer document not found")

// Source implements ports.LayerSource. The location is a directory or an http(s) base URL.
type Source struct {
	location string
	client   *http.Client
}

// NewSource creates a Source rooted at location.
func NewSource(location string) *Source {
	return &Source{
		location: location,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Source) remote() bool {
	return strings.HasPrefix(s.location, "http://") || strings.HasPrefix(s.location, "https://")
}

// Load reads the five layers concurrently. Missing documents leave their layer absent.
func (s *Source) Load(ctx context.Context) (domain.LayerSet, error) {
	loaded := make([]*domain.FeatureCollection, len(domain.LayerNames))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range domain.LayerNames {
		i, name := i, name
		g.Go(func() error {
			fc, err := s.LoadLayer(gctx, name)
			if err != nil {
				return err
			}
			loaded[i] = fc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.LayerSet{}, err
	}

	var set domain.LayerSet
	for i, name := range domain.LayerNames {
		set = set.With(name, loaded[i])
	}
	return set, nil
}

// LoadLayer reads one layer. A missing document is (nil, nil); a malformed one is an error.
func (s *Source) LoadLayer(ctx context.Context, name domain.LayerName) (*domain.FeatureCollection, error) {
	file, ok := FileNames[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownLayer, name)
	}

	start := time.Now()
	data, err := s.read(ctx, file)
	metrics.LayerLoadDuration.WithLabelValues(string(name)).Observe(time.Since(start).Seconds())
	if errors.Is(err, errNotFound) {
		slog.Warn("layer document missing", "layer", name, "location", s.location)
		return nil, nil
	}
	if err != nil {
		metrics.LayerLoadErrors.WithLabelValues(string(name)).Inc()
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	fc, err := Decode(data)
	if err != nil {
		metrics.LayerLoadErrors.WithLabelValues(string(name)).Inc()
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	return fc, nil
}

func (s *Source) read(ctx context.Context, file string) ([]byte, error) {
	if !s.remote() {
		data, err := os.ReadFile(filepath.Join(s.location, file))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errNotFound
		}
		return data, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(s.location, "/")+"/"+file, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/geo+json, application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Decode parses a FeatureCollection document. Property values are coerced later by the analysis engine.
func Decode(data []byte) (*domain.FeatureCollection, error) {
	var fc domain.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	if fc.Type != "" && fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("expected FeatureCollection, got %q", fc.Type)
	}
	if fc.Type == "" {
		fc.Type = "FeatureCollection"
	}
	if fc.Features == nil {
		fc.Features = []domain.Feature{}
	}
	return &fc, nil
}
