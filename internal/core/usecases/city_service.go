package usecases

import (
	"sort"
	"strings"

	"github.com/samirrijal/citytwin/internal/core/domain"
	"github.com/samirrijal/citytwin/internal/pkg/geospatial"
)

// DefaultCityPresets are the map viewports offered by the city picker.
var DefaultCityPresets = []domain.CityPreset{
	{Key: "essaouira", Name: domain.CityEssaouira, Center: domain.GeoPoint{Lat: 31.5085, Lon: -9.7600}, Zoom: 13},
	{Key: "casablanca", Name: domain.CityCasablanca, Center: domain.GeoPoint{Lat: 33.5731, Lon: -7.5898}, Zoom: 12},
	{Key: "madrid", Name: domain.CityMadrid, Center: domain.GeoPoint{Lat: 40.4168, Lon: -3.7038}, Zoom: 12},
	{Key: "nyc", Name: domain.CityNewYork, Center: domain.GeoPoint{Lat: 40.7128, Lon: -74.0060}, Zoom: 12},
}

// CityService handles city preset lookups.
type CityService struct {
	presets []domain.CityPreset
}

// NewCityService creates a new CityService.
func NewCityService() *CityService {
	return &CityService{presets: DefaultCityPresets}
}

// Presets returns every preset. When near is set they are ordered by distance from it.
func (s *CityService) Presets(near *domain.GeoPoint) []domain.CityPreset {
	out := make([]domain.CityPreset, len(s.presets))
	copy(out, s.presets)
	if near == nil {
		return out
	}
	for i := range out {
		d := geospatial.DistanceKm(*near, out[i].Center)
		out[i].DistanceKm = &d
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].DistanceKm < *out[j].DistanceKm })
	return out
}

// Find looks a preset up by key or display name, case-insensitively.
func (s *CityService) Find(key string) (domain.CityPreset, bool) {
	for _, p := range s.presets {
		if strings.EqualFold(p.Key, key) || strings.EqualFold(string(p.Name), key) {
			return p, true
		}
	}
	return domain.CityPreset{}, false
}
