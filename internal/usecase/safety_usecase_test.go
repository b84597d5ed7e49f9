package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	apperrors "github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase"
)

func snapshotAround(center domain.Coordinate, radiusKm float64, incidents []domain.HazardIncident, zones []domain.CrimeZone) *domain.HazardSnapshot {
	return &domain.HazardSnapshot{
		Center:           center,
		RadiusKm:         radiusKm,
		BoundingBox:      domain.BoundingBoxAround(center, radiusKm),
		Traffic:          incidents,
		Crime:            zones,
		TrafficAvailable: true,
		ReportsAvailable: true,
		CrimeAvailable:   true,
	}
}

func TestSafetyUseCase_SafetyScore(t *testing.T) {
	hazards := &MockHazardFetcher{}
	weather := &MockWeatherProvider{}

	distantZone := domain.CrimeZone{
		ID:        "distant",
		RiskLevel: domain.RiskLow,
		Polygon:   domain.CloseRing([]domain.Coordinate{{Lat: 28.6, Lon: 77.2}, {Lat: 28.6, Lon: 77.3}, {Lat: 28.7, Lon: 77.3}}),
	}
	hazards.On("Fetch", mock.Anything, bengaluruCenter, 1.0).Return(snapshotAround(bengaluruCenter, 1, []domain.HazardIncident{
		incidentAt("a", 12.9720, 77.5946),
		incidentAt("b", 12.9710, 77.5950),
		incidentAt("c", 12.9700, 77.5940),
	}, []domain.CrimeZone{sampleZone("z1"), distantZone}), nil)

	weather.On("Configured").Return(true)
	weather.On("CurrentWeather", mock.Anything, bengaluruCenter).Return(&domain.WeatherSnapshot{Description: "mist"}, nil)

	uc := usecase.NewSafetyUseCase(hazards, weather, 1, fixedClock(20), zap.NewNop())
	resp, err := uc.SafetyScore(context.Background(), bengaluruCenter)
	require.NoError(t, err)

	// 100 - 6 (three incidents) - 10 (one zone overlapping the query box) - 10 (mist)
	assert.Equal(t, 74, resp.Score)
	assert.Equal(t, 3, resp.NearbyIncidents)
	assert.Equal(t, 1, resp.CrimeZones)
	assert.Equal(t, domain.WeatherRiskLowVisibility, resp.WeatherRisk)
	assert.Equal(t, domain.SafetyLevelMedium, resp.Level)
	assert.True(t, resp.LowLight)
	assert.Contains(t, resp.Warnings, "Low-light hours with incidents nearby")
	require.NotNil(t, resp.Weather)
	assert.Equal(t, "mist", resp.Weather.Description)
}

func TestSafetyUseCase_WeatherDegrades(t *testing.T) {
	hazards := &MockHazardFetcher{}
	weather := &MockWeatherProvider{}

	hazards.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return(snapshotAround(bengaluruCenter, 1, []domain.HazardIncident{}, []domain.CrimeZone{}), nil)
	weather.On("Configured").Return(true)
	weather.On("CurrentWeather", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	resp, err := usecase.NewSafetyUseCase(hazards, weather, 1, fixedClock(12), zap.NewNop()).
		SafetyScore(context.Background(), bengaluruCenter)
	require.NoError(t, err)

	assert.Equal(t, 100, resp.Score)
	assert.Nil(t, resp.Weather)
	assert.Equal(t, domain.WeatherRiskNormal, resp.WeatherRisk)
	assert.Equal(t, domain.SafetyLevelHigh, resp.Level)
	assert.NotNil(t, resp.Warnings)
}

func TestSafetyUseCase_AllSourcesUnavailable(t *testing.T) {
	hazards := &MockHazardFetcher{}
	weather := &MockWeatherProvider{}

	hazards.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.HazardSnapshot{Traffic: []domain.HazardIncident{}, Crime: []domain.CrimeZone{}}, nil)
	weather.On("Configured").Return(false)

	resp, err := usecase.NewSafetyUseCase(hazards, weather, 1, fixedClock(12), zap.NewNop()).
		SafetyScore(context.Background(), bengaluruCenter)
	require.NoError(t, err)

	assert.Equal(t, usecase.UnavailableScore, resp.Score)
	assert.True(t, resp.Degraded)
	weather.AssertNotCalled(t, "CurrentWeather", mock.Anything, mock.Anything)
}

func TestSafetyUseCase_InvalidCoordinates(t *testing.T) {
	uc := usecase.NewSafetyUseCase(&MockHazardFetcher{}, &MockWeatherProvider{}, 1, fixedClock(12), zap.NewNop())
	_, err := uc.SafetyScore(context.Background(), domain.Coordinate{Lat: 0, Lon: 190})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinates)
}

func TestWeatherUseCase_Current(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		weather := &MockWeatherProvider{}
		weather.On("Configured").Return(false)

		_, err := usecase.NewWeatherUseCase(weather, zap.NewNop()).Current(context.Background(), bengaluruCenter)
		assert.ErrorIs(t, err, apperrors.ErrProviderNotConfigured)
	})

	t.Run("provider error propagates", func(t *testing.T) {
		weather := &MockWeatherProvider{}
		weather.On("Configured").Return(true)
		weather.On("CurrentWeather", mock.Anything, bengaluruCenter).Return(nil, apperrors.ErrProviderUnavailable)

		_, err := usecase.NewWeatherUseCase(weather, zap.NewNop()).Current(context.Background(), bengaluruCenter)
		assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
	})

	t.Run("success", func(t *testing.T) {
		weather := &MockWeatherProvider{}
		weather.On("Configured").Return(true)
		weather.On("CurrentWeather", mock.Anything, bengaluruCenter).Return(&domain.WeatherSnapshot{Description: "clear sky", TemperatureC: 24}, nil)

		snapshot, err := usecase.NewWeatherUseCase(weather, zap.NewNop()).Current(context.Background(), bengaluruCenter)
		require.NoError(t, err)
		assert.Equal(t, 24.0, snapshot.TemperatureC)
	})
}
