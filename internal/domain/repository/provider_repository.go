package repository

import (
	"context"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
)

// RouteProvider requests a route between two coordinates under a named mode.
type RouteProvider interface {
	CalculateRoute(ctx context.Context, origin, destination domain.Coordinate, mode domain.RouteMode) (*domain.ProviderRoute, error)
}

// Geocoder resolves free-text place descriptions to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*domain.Coordinate, error)
}

// RawTrafficIncident is a provider incident before normalization. Center
// values are nil when the provider payload had no numeric point.
type RawTrafficIncident struct {
	ID          string
	CenterLat   *float64
	CenterLon   *float64
	Severity    *float64
	Type        string
	Description string
	StartTime   *string
}

// TrafficProvider lists traffic incidents inside a bounding box.
type TrafficProvider interface {
	IncidentsInBox(ctx context.Context, box domain.BoundingBox) ([]RawTrafficIncident, error)
}

// WeatherProvider supplies current conditions for a coordinate.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, at domain.Coordinate) (*domain.WeatherSnapshot, error)
	// Configured reports whether credentials are present.
	Configured() bool
}
