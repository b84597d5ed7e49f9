package repository

import (
	"context"
	"time"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get returns nil, nil on a miss
	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// GetGeocode returns a cached geocoding result for the normalized query
	GetGeocode(ctx context.Context, query string) (*domain.Coordinate, error)

	// SetGeocode caches a geocoding result
	SetGeocode(ctx context.Context, query string, coord domain.Coordinate, ttl time.Duration) error
}
