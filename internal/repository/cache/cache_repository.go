package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
)

const geocodeKeyPrefix = "safewalk:geocode:"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}
	return val > 0, nil
}

// GeocodeKey normalizes a query into its cache key.
func GeocodeKey(query string) string {
	return geocodeKeyPrefix + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

func (r *cacheRepository) GetGeocode(ctx context.Context, query string) (*domain.Coordinate, error) {
	data, err := r.Get(ctx, GeocodeKey(query))
	if err != nil || data == nil {
		return nil, err
	}

	var coord domain.Coordinate
	if err := json.Unmarshal(data, &coord); err != nil {
		r.logger.Warn("Dropping undecodable geocode entry", zap.String("query", query), zap.Error(err))
		_ = r.Delete(ctx, GeocodeKey(query))
		return nil, nil
	}
	return &coord, nil
}

func (r *cacheRepository) SetGeocode(ctx context.Context, query string, coord domain.Coordinate, ttl time.Duration) error {
	data, err := json.Marshal(coord)
	if err != nil {
		return fmt.Errorf("marshal coordinate: %w", err)
	}
	return r.Set(ctx, GeocodeKey(query), data, ttl)
}
