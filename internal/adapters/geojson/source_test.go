package geojson

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/citytwin/internal/core/domain"
)

const noiseDoc = `{"type":"FeatureCollection","features":[
	{"type":"Feature","properties":{"id":"A","level":70},"geometry":{"type":"Point","coordinates":[-9.77,31.51]}},
	{"type":"Feature","properties":{"id":"B","level":"85"},"geometry":{"type":"Point","coordinates":[-9.76,31.50]}}
]}`

func writeLayer(t *testing.T, dir string, name domain.LayerName, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileNames[name]), []byte(body), 0o644))
}

func TestSource_DirectoryLoad(t *testing.T) {
	dir := t.TempDir()
	writeLayer(t, dir, domain.LayerNoise, noiseDoc)
	writeLayer(t, dir, domain.LayerSensors, `{"type":"FeatureCollection","features":[]}`)

	set, err := NewSource(dir).Load(context.Background())
	require.NoError(t, err)

	require.NotNil(t, set.Noise)
	assert.Equal(t, 2, set.Noise.Len())
	assert.Equal(t, "85", set.Noise.Features[1].Properties["level"])
	assert.NotNil(t, set.Sensors)
	assert.Equal(t, 0, set.Sensors.Len())
	assert.Nil(t, set.Traffic, "missing documents leave the layer absent")
	assert.Nil(t, set.Heat)
}

func TestSource_MalformedDocument(t *testing.T) {
	dir := t.TempDir()
	writeLayer(t, dir, domain.LayerTraffic, `{"type":"FeatureCollection","features":[`)

	_, err := NewSource(dir).Load(context.Background())
	assert.ErrorContains(t, err, "traffic.geojson")
}

func TestSource_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/data/noise.geojson" {
			w.Header().Set("Content-Type", "application/geo+json")
			_, _ = w.Write([]byte(noiseDoc))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	src := NewSource(srv.URL + "/data/")
	fc, err := src.LoadLayer(context.Background(), domain.LayerNoise)
	require.NoError(t, err)
	assert.Equal(t, 2, fc.Len())

	fc, err = src.LoadLayer(context.Background(), domain.LayerBuildings)
	require.NoError(t, err)
	assert.Nil(t, fc)
}

func TestSource_UnknownLayer(t *testing.T) {
	_, err := NewSource(t.TempDir()).LoadLayer(context.Background(), "rainfall")
	assert.ErrorIs(t, err, domain.ErrUnknownLayer)
}

func TestSource_SampleData(t *testing.T) {
	set, err := NewSource(filepath.Join("..", "..", "..", "sample-data")).Load(context.Background())
	require.NoError(t, err)
	for _, name := range domain.LayerNames {
		assert.Positive(t, set.Get(name).Len(), "sample %s layer", name)
	}
}

func TestDecode(t *testing.T) {
	fc, err := Decode([]byte(`{"features":null}`))
	require.NoError(t, err)
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.NotNil(t, fc.Features)

	_, err = Decode([]byte(`{"type":"Feature"}`))
	assert.Error(t, err)
}
