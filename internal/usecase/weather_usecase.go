package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
)

// WeatherUseCase - current conditions for the /weather endpoint
type WeatherUseCase struct {
	provider repository.WeatherProvider
	logger   *zap.Logger
}

func NewWeatherUseCase(provider repository.WeatherProvider, logger *zap.Logger) *WeatherUseCase {
	return &WeatherUseCase{
		provider: provider,
		logger:   logger,
	}
}

// Current is the strict path: a missing key or provider failure is an error.
func (uc *WeatherUseCase) Current(ctx context.Context, at domain.Coordinate) (*domain.WeatherSnapshot, error) {
	if !at.Valid() {
		return nil, errors.ErrInvalidCoordinates
	}
	if uc.provider == nil || !uc.provider.Configured() {
		return nil, errors.ErrProviderNotConfigured.WithMessage("Weather provider API key is not configured")
	}

	snapshot, err := uc.provider.CurrentWeather(ctx, at)
	if err != nil {
		uc.logger.Error("Failed to fetch weather",
			zap.String("location", at.String()),
			zap.Error(err))
		return nil, err
	}
	return snapshot, nil
}

// weatherForScoring is the enrichment path: any failure yields nil.
func weatherForScoring(ctx context.Context, provider repository.WeatherProvider, at domain.Coordinate, logger *zap.Logger) *domain.WeatherSnapshot {
	if provider == nil || !provider.Configured() {
		return nil
	}
	snapshot, err := provider.CurrentWeather(ctx, at)
	if err != nil {
		logger.Warn("Weather unavailable for scoring",
			zap.String("location", at.String()),
			zap.Error(err))
		return nil
	}
	return snapshot
}
