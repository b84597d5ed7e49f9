package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
)

// GeocodeUseCase resolves text to coordinates through an optional cache.
type GeocodeUseCase struct {
	geocoder  repository.Geocoder
	cacheRepo repository.CacheRepository
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewGeocodeUseCase - cacheRepo may be nil when Redis is disabled
func NewGeocodeUseCase(
	geocoder repository.Geocoder,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *GeocodeUseCase {
	return &GeocodeUseCase{
		geocoder:  geocoder,
		cacheRepo: cacheRepo,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func (uc *GeocodeUseCase) Geocode(ctx context.Context, query string) (*domain.Coordinate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.ErrInvalidInput.WithMessage("Query must not be empty")
	}

	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetGeocode(ctx, query)
		if err != nil {
			uc.logger.Warn("Geocode cache read failed", zap.Error(err))
		} else if cached != nil {
			uc.logger.Debug("Geocode cache hit", zap.String("query", query))
			return cached, nil
		}
	}

	coord, err := uc.geocoder.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetGeocode(ctx, query, *coord, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache geocode result", zap.Error(err))
		}
	}
	return coord, nil
}
