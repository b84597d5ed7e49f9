package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
)

const defaultReportKeyPrefix = "safewalk:reports"

// reportRepository keeps reports in three keys: a GEO set for region
// queries, a hash of JSON records and a sorted set of creation times used
// for TTL and capacity eviction.
type reportRepository struct {
	client     *redis.Client
	logger     *zap.Logger
	geoKey     string
	dataKey    string
	createdKey string
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

type ReportRepositoryOptions struct {
	KeyPrefix  string
	MaxEntries int
	TTL        time.Duration
	Now        func() time.Time
}

func NewReportRepository(client *redis.Client, logger *zap.Logger, opts ReportRepositoryOptions) repository.ReportRepository {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = defaultReportKeyPrefix
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &reportRepository{
		client:     client,
		logger:     logger,
		geoKey:     prefix + ":geo",
		dataKey:    prefix + ":data",
		createdKey: prefix + ":created",
		maxEntries: opts.MaxEntries,
		ttl:        opts.TTL,
		now:        now,
	}
}

func (r *reportRepository) Append(ctx context.Context, report domain.UserReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	// the record claims the ID; a redelivered report leaves the first one intact
	created, err := r.client.HSetNX(ctx, r.dataKey, report.ID, data).Result()
	if err != nil {
		r.logger.Error("Failed to store report", zap.String("report_id", report.ID), zap.Error(err))
		return fmt.Errorf("store report: %w", err)
	}
	if !created {
		r.logger.Debug("Report already stored", zap.String("report_id", report.ID))
		return nil
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.GeoAdd(ctx, r.geoKey, &redis.GeoLocation{
			Name:      report.ID,
			Longitude: report.Location.Lon,
			Latitude:  report.Location.Lat,
		})
		pipe.ZAdd(ctx, r.createdKey, redis.Z{
			Score:  float64(report.CreatedAt.UnixMilli()),
			Member: report.ID,
		})
		return nil
	})
	if err != nil {
		// release the claim so a retry can store the report
		if delErr := r.client.HDel(ctx, r.dataKey, report.ID).Err(); delErr != nil {
			r.logger.Warn("Failed to release report record", zap.String("report_id", report.ID), zap.Error(delErr))
		}
		r.logger.Error("Failed to store report", zap.String("report_id", report.ID), zap.Error(err))
		return fmt.Errorf("store report: %w", err)
	}

	if err := r.evict(ctx); err != nil {
		// the report itself is stored; eviction is retried on the next append
		r.logger.Warn("Failed to evict reports", zap.Error(err))
	}

	return nil
}

func (r *reportRepository) evict(ctx context.Context) error {
	var expired []string

	if r.ttl > 0 {
		cutoff := r.now().Add(-r.ttl).UnixMilli()
		ids, err := r.client.ZRangeByScore(ctx, r.createdKey, &redis.ZRangeBy{
			Min: "-inf",
			Max: "(" + strconv.FormatInt(cutoff, 10),
		}).Result()
		if err != nil {
			return err
		}
		expired = append(expired, ids...)
	}

	if r.maxEntries > 0 {
		count, err := r.client.ZCard(ctx, r.createdKey).Result()
		if err != nil {
			return err
		}
		overflow := count - int64(len(expired)) - int64(r.maxEntries)
		if overflow > 0 {
			ids, err := r.client.ZRange(ctx, r.createdKey, int64(len(expired)), int64(len(expired))+overflow-1).Result()
			if err != nil {
				return err
			}
			expired = append(expired, ids...)
		}
	}

	if len(expired) == 0 {
		return nil
	}

	members := make([]interface{}, len(expired))
	for i, id := range expired {
		members[i] = id
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, r.geoKey, members...)
		pipe.ZRem(ctx, r.createdKey, members...)
		pipe.HDel(ctx, r.dataKey, expired...)
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug("Reports evicted", zap.Int("count", len(expired)))
	return nil
}

// QueryByRegion runs GEOSEARCH BYBOX around the box centre and re-checks
// each hit against the exact box and TTL.
func (r *reportRepository) QueryByRegion(ctx context.Context, box domain.BoundingBox) ([]domain.UserReport, error) {
	center := box.Center()
	heightKm := (box.MaxLat - box.MinLat) * 111.0
	widthKm := (box.MaxLon - box.MinLon) * 111.0 * math.Max(math.Cos(center.Lat*math.Pi/180), 1e-6)
	// GEOSEARCH measures along the surface; pad so box corners are covered
	widthKm = math.Min(widthKm*1.05+0.1, 40000)
	heightKm = math.Min(heightKm*1.05+0.1, 20000)

	ids, err := r.client.GeoSearch(ctx, r.geoKey, &redis.GeoSearchQuery{
		Longitude: center.Lon,
		Latitude:  center.Lat,
		BoxWidth:  widthKm,
		BoxHeight: heightKm,
		BoxUnit:   "km",
	}).Result()
	if err != nil {
		r.logger.Error("Failed to search reports", zap.Error(err))
		return nil, fmt.Errorf("search reports: %w", err)
	}
	if len(ids) == 0 {
		return []domain.UserReport{}, nil
	}

	values, err := r.client.HMGet(ctx, r.dataKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("load reports: %w", err)
	}

	var cutoff time.Time
	if r.ttl > 0 {
		cutoff = r.now().Add(-r.ttl)
	}

	reports := make([]domain.UserReport, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var report domain.UserReport
		if err := json.Unmarshal([]byte(raw), &report); err != nil {
			r.logger.Warn("Skipping undecodable report", zap.String("report_id", ids[i]), zap.Error(err))
			continue
		}
		if !box.Contains(report.Location) {
			continue
		}
		if !cutoff.IsZero() && report.CreatedAt.Before(cutoff) {
			continue
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.UserReport, error) {
	raw, err := r.client.HGet(ctx, r.dataKey, id).Result()
	if err == redis.Nil {
		return nil, errors.ErrNotFound.WithMessage("Report not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	var report domain.UserReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}
