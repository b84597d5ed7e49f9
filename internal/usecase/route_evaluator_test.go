package usecase_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	apperrors "github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase"
)

var (
	routeOrigin      = domain.Coordinate{Lat: 12.9716, Lon: 77.5946}
	routeDestination = domain.Coordinate{Lat: 12.9352, Lon: 77.6245}
)

func providerRoute(seconds, meters float64, points ...domain.Coordinate) *domain.ProviderRoute {
	return &domain.ProviderRoute{
		Legs:              []domain.ProviderLeg{{Points: points}},
		TravelTimeSeconds: seconds,
		LengthMeters:      meters,
		Instructions:      []domain.TurnInstruction{{Text: "Head south"}},
	}
}

func newEvaluator(routes *MockRouteProvider, hazards *MockHazardFetcher, weather *MockWeatherProvider) *usecase.RouteEvaluator {
	return usecase.NewRouteEvaluator(routes, hazards, weather, 200, fixedClock(12), zap.NewNop(), nil)
}

func TestRouteEvaluator_Evaluate(t *testing.T) {
	routes := &MockRouteProvider{}
	hazards := &MockHazardFetcher{}
	weather := &MockWeatherProvider{}
	ctx := context.Background()

	safestPoints := []domain.Coordinate{
		{Lat: 12.9716, Lon: 77.5946},
		{Lat: 12.9600, Lon: 77.6050},
		{Lat: 12.9352, Lon: 77.6245},
	}

	routes.On("CalculateRoute", mock.Anything, routeOrigin, routeDestination, domain.RouteModeFastest).
		Return(providerRoute(754, 3456, routeOrigin, routeDestination), nil)
	routes.On("CalculateRoute", mock.Anything, routeOrigin, routeDestination, domain.RouteModeSafest).
		Return(providerRoute(900, 3000, safestPoints...), nil)

	hazards.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(&domain.HazardSnapshot{
		Traffic: []domain.HazardIncident{
			{ID: "near", Latitude: 12.9601, Longitude: 77.6051, Category: domain.HazardCategoryTraffic},
			{ID: "far", Latitude: 13.2000, Longitude: 77.9000, Category: domain.HazardCategoryTraffic},
		},
		Crime: []domain.CrimeZone{
			{
				ID:        "z-on-route",
				RiskLevel: domain.RiskHigh,
				Polygon: domain.CloseRing([]domain.Coordinate{
					{Lat: 12.955, Lon: 77.600},
					{Lat: 12.955, Lon: 77.610},
					{Lat: 12.965, Lon: 77.610},
					{Lat: 12.965, Lon: 77.600},
				}),
			},
			{
				ID:        "z-elsewhere",
				RiskLevel: domain.RiskLow,
				Polygon: domain.CloseRing([]domain.Coordinate{
					{Lat: 13.1, Lon: 77.8},
					{Lat: 13.1, Lon: 77.9},
					{Lat: 13.2, Lon: 77.9},
				}),
			},
		},
		TrafficAvailable: true,
		ReportsAvailable: true,
		CrimeAvailable:   true,
	}, nil)

	weather.On("Configured").Return(true)
	weather.On("CurrentWeather", mock.Anything, routeOrigin).Return(&domain.WeatherSnapshot{Description: "light rain"}, nil)

	result, err := newEvaluator(routes, hazards, weather).Evaluate(ctx, routeOrigin, routeDestination)
	require.NoError(t, err)

	assert.Equal(t, 12.6, result.Fastest.TravelTimeMinutes)
	assert.Equal(t, 3.5, result.Fastest.DistanceKm)
	assert.Equal(t, 754.0, result.Fastest.RawTravelTimeSeconds)
	assert.NotNil(t, result.Fastest.Warnings)
	assert.Empty(t, result.Fastest.Warnings)
	assert.Equal(t, "LineString", result.Fastest.GeoJSON.Geometry.Type)
	assert.NotEmpty(t, result.Fastest.EncodedPolyline)

	assert.Equal(t, 15.0, result.Safest.TravelTimeMinutes)
	assert.Equal(t, 3.0, result.Safest.DistanceKm)
	assert.Len(t, result.Safest.Geometry, 3)

	// 100 - 2 (one incident in corridor) - 10 (one zone on route) - 15 (rain)
	assert.Equal(t, 73, result.Safest.SafeScore)
	assert.Equal(t, result.Safest.SafeScore, result.Safest.Safety.Score)
	assert.Equal(t, 1, result.Safest.Safety.ContributingFactors.IncidentCount)
	assert.Equal(t, 1, result.Safest.Safety.ContributingFactors.CrimeZoneCount)
	assert.Equal(t, domain.WeatherRiskRainStorm, result.Safest.Safety.ContributingFactors.WeatherRisk)
	assert.False(t, result.Safest.Safety.ContributingFactors.LowLight)

	routes.AssertNumberOfCalls(t, "CalculateRoute", 2)
}

func TestRouteEvaluator_SafestWithoutLegsFails(t *testing.T) {
	routes := &MockRouteProvider{}
	hazards := &MockHazardFetcher{}

	routes.On("CalculateRoute", mock.Anything, routeOrigin, routeDestination, domain.RouteModeFastest).
		Return(providerRoute(600, 2000, routeOrigin, routeDestination), nil)
	routes.On("CalculateRoute", mock.Anything, routeOrigin, routeDestination, domain.RouteModeSafest).
		Return(&domain.ProviderRoute{}, nil)

	result, err := newEvaluator(routes, hazards, &MockWeatherProvider{}).Evaluate(context.Background(), routeOrigin, routeDestination)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrRouteNotFound)
	hazards.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouteEvaluator_ProviderFailure(t *testing.T) {
	routes := &MockRouteProvider{}

	routes.On("CalculateRoute", mock.Anything, routeOrigin, routeDestination, domain.RouteModeFastest).
		Return(nil, apperrors.ErrProviderTimeout)
	routes.On("CalculateRoute", mock.Anything, routeOrigin, routeDestination, domain.RouteModeSafest).
		Return(providerRoute(600, 2000, routeOrigin, routeDestination), nil)

	result, err := newEvaluator(routes, &MockHazardFetcher{}, &MockWeatherProvider{}).Evaluate(context.Background(), routeOrigin, routeDestination)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrProviderTimeout)
}

func TestRouteEvaluator_InvalidCoordinates(t *testing.T) {
	routes := &MockRouteProvider{}
	_, err := newEvaluator(routes, &MockHazardFetcher{}, &MockWeatherProvider{}).
		Evaluate(context.Background(), domain.Coordinate{Lat: 95, Lon: 0}, routeDestination)

	assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinates)
	routes.AssertNotCalled(t, "CalculateRoute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRouteEvaluator_AllSourcesUnavailable(t *testing.T) {
	routes := &MockRouteProvider{}
	hazards := &MockHazardFetcher{}
	weather := &MockWeatherProvider{}

	routes.On("CalculateRoute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(providerRoute(600, 2000, routeOrigin, routeDestination), nil)
	hazards.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.HazardSnapshot{Traffic: []domain.HazardIncident{}, Crime: []domain.CrimeZone{}}, nil)
	weather.On("Configured").Return(true)
	weather.On("CurrentWeather", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	result, err := newEvaluator(routes, hazards, weather).Evaluate(context.Background(), routeOrigin, routeDestination)
	require.NoError(t, err)

	assert.Equal(t, usecase.UnavailableScore, result.Safest.SafeScore)
	assert.True(t, result.Safest.Safety.ContributingFactors.Degraded)
	assert.Contains(t, result.Safest.Safety.Warnings, usecase.WarningUnavailable)
}

func TestBuildRouteSummary(t *testing.T) {
	t.Run("drops invalid points", func(t *testing.T) {
		nan := domain.Coordinate{Lat: math.NaN(), Lon: 1}
		route := &domain.ProviderRoute{
			Legs: []domain.ProviderLeg{
				{Points: []domain.Coordinate{{Lat: 38.5, Lon: -120.2}, nan}},
				{Points: []domain.Coordinate{{Lat: 40.7, Lon: -120.95}, {Lat: 200, Lon: 0}, {Lat: 43.252, Lon: -126.453}}},
			},
			TravelTimeSeconds: 89,
			LengthMeters:      149,
		}

		summary, err := usecase.BuildRouteSummary(route)
		require.NoError(t, err)
		assert.Len(t, summary.Geometry, 3)
		assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", summary.EncodedPolyline)
		assert.Equal(t, 1.5, summary.TravelTimeMinutes)
		assert.Equal(t, 0.1, summary.DistanceKm)
		assert.NotNil(t, summary.TurnInstructions)
	})

	t.Run("fewer than two valid points", func(t *testing.T) {
		_, err := usecase.BuildRouteSummary(providerRoute(10, 10, domain.Coordinate{Lat: 1, Lon: 1}, domain.Coordinate{Lat: -100, Lon: 1}))
		assert.ErrorIs(t, err, apperrors.ErrRouteNotFound)
	})

	t.Run("nil route", func(t *testing.T) {
		_, err := usecase.BuildRouteSummary(nil)
		assert.ErrorIs(t, err, apperrors.ErrRouteNotFound)
	})
}
