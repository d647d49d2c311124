package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/citytwin/internal/core/domain"
	"github.com/samirrijal/citytwin/internal/core/usecases"
)

var citiesNear string

var citiesCmd = &cobra.Command{
	Use:     "cities",
	Short:   "List the city presets",
	Example: "  twin cities --near 40.4,-3.7",
	Args:    cobra.NoArgs,
	RunE:    runCities,
}

func init() {
	citiesCmd.Flags().StringVar(&citiesNear, "near", "", "Order by distance from lat,lon")
	rootCmd.AddCommand(citiesCmd)
}

func runCities(cmd *cobra.Command, args []string) error {
	near, err := parseLatLon(citiesNear)
	if err != nil {
		return err
	}
	return printResult(cmd, usecases.NewCityService().Presets(near))
}

// parseLatLon parses "lat,lon". An empty string means no point.
func parseLatLon(s string) (*domain.GeoPoint, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected lat,lon, got %q", s)
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		return nil, fmt.Errorf("expected numeric lat,lon, got %q", s)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("lat,lon out of range: %q", s)
	}
	return &domain.GeoPoint{Lat: lat, Lon: lon}, nil
}
