package domain

import (
	"encoding/json"
	"fmt"
)

// LayerName identifies one of the five thematic layers.
type LayerName string

const (
	LayerNoise     LayerName = "noise"
	LayerBuildings LayerName = "buildings"
	LayerSensors   LayerName = "sensors"
	LayerHeat      LayerName = "heat"
	LayerTraffic   LayerName = "traffic"
)

// LayerNames lists every layer in display order.
var LayerNames = []LayerName{LayerNoise, LayerBuildings, LayerSensors, LayerHeat, LayerTraffic}

// ParseLayerName resolves a layer name, returning ErrUnknownLayer for anything else.
func ParseLayerName(s string) (LayerName, error) {
	for _, n := range LayerNames {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLayer, s)
}

// Geometry is a GeoJSON geometry. Coordinates are kept raw; only the renderer reads them.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
}

// Feature is a GeoJSON feature with untyped properties.
type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   *Geometry      `json:"geometry"`
}

// Prop returns a property value, or nil when the feature has no such property.
func (f Feature) Prop(key string) any {
	if f.Properties == nil {
		return nil
	}
	return f.Properties[key]
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Len reports the number of features. A nil collection has none.
func (fc *FeatureCollection) Len() int {
	if fc == nil {
		return 0
	}
	return len(fc.Features)
}

// Items returns the features of fc, or nil when fc is absent.
func (fc *FeatureCollection) Items() []Feature {
	if fc == nil {
		return nil
	}
	return fc.Features
}

// Clone returns a copy whose features and property maps can be mutated freely.
func (fc *FeatureCollection) Clone() *FeatureCollection {
	if fc == nil {
		return nil
	}
	out := &FeatureCollection{Type: fc.Type, Features: make([]Feature, len(fc.Features))}
	for i, f := range fc.Features {
		props := make(map[string]any, len(f.Properties))
		for k, v := range f.Properties {
			props[k] = v
		}
		out.Features[i] = Feature{Type: f.Type, Properties: props, Geometry: f.Geometry}
	}
	return out
}

// LayerSet holds exactly the five named layers. An absent layer is nil.
type LayerSet struct {
	Noise     *FeatureCollection `json:"noise"`
	Buildings *FeatureCollection `json:"buildings"`
	Sensors   *FeatureCollection `json:"sensors"`
	Heat      *FeatureCollection `json:"heat"`
	Traffic   *FeatureCollection `json:"traffic"`
}

// Get returns the named layer.
func (ls LayerSet) Get(name LayerName) *FeatureCollection {
	switch name {
	case LayerNoise:
		return ls.Noise
	case LayerBuildings:
		return ls.Buildings
	case LayerSensors:
		return ls.Sensors
	case LayerHeat:
		return ls.Heat
	case LayerTraffic:
		return ls.Traffic
	}
	return nil
}

// With returns a copy of ls with the named layer replaced.
func (ls LayerSet) With(name LayerName, fc *FeatureCollection) LayerSet {
	switch name {
	case LayerNoise:
		ls.Noise = fc
	case LayerBuildings:
		ls.Buildings = fc
	case LayerSensors:
		ls.Sensors = fc
	case LayerHeat:
		ls.Heat = fc
	case LayerTraffic:
		ls.Traffic = fc
	}
	return ls
}
