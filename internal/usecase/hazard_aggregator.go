package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/metrics"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/utils"
)

// HazardFetcher returns the hazards around a point.
type HazardFetcher interface {
	Fetch(ctx context.Context, center domain.Coordinate, radiusKm float64) (*domain.HazardSnapshot, error)
}

// HazardAggregatorConfig - radius bounds and crime-zone filtering
type HazardAggregatorConfig struct {
	MinRadiusKm         float64
	MaxRadiusKm         float64
	FilterCrimeByRegion bool
}

// HazardAggregator collects traffic incidents, user reports and crime zones
// around a point. Each source degrades independently.
type HazardAggregator struct {
	traffic repository.TrafficProvider
	reports repository.ReportRepository
	zones   repository.CrimeZoneRepository
	cfg     HazardAggregatorConfig
	logger  *zap.Logger
	metrics *metrics.Collector
	fetches atomic.Uint64
}

func NewHazardAggregator(
	traffic repository.TrafficProvider,
	reports repository.ReportRepository,
	zones repository.CrimeZoneRepository,
	cfg HazardAggregatorConfig,
	logger *zap.Logger,
	m *metrics.Collector,
) *HazardAggregator {
	if cfg.MinRadiusKm <= 0 {
		cfg.MinRadiusKm = 1
	}
	if cfg.MaxRadiusKm < cfg.MinRadiusKm {
		cfg.MaxRadiusKm = 80
	}
	return &HazardAggregator{
		traffic: traffic,
		reports: reports,
		zones:   zones,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
}

// ClampRadius bounds the query radius; non-finite values fall back to the minimum.
func (a *HazardAggregator) ClampRadius(radiusKm float64) float64 {
	if !utils.IsFinite(radiusKm) {
		return a.cfg.MinRadiusKm
	}
	return utils.ClampFloat(radiusKm, a.cfg.MinRadiusKm, a.cfg.MaxRadiusKm)
}

// Fetch aggregates hazards around center. It fails only for an invalid centre
// or a cancelled context; source failures are reflected in the *Available flags.
func (a *HazardAggregator) Fetch(ctx context.Context, center domain.Coordinate, radiusKm float64) (*domain.HazardSnapshot, error) {
	if !center.Valid() {
		return nil, errors.ErrInvalidCoordinates
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	radiusKm = a.ClampRadius(radiusKm)
	box := domain.BoundingBoxAround(center, radiusKm)
	seq := a.fetches.Add(1)

	snapshot := &domain.HazardSnapshot{
		Center:      center,
		RadiusKm:    radiusKm,
		BoundingBox: box,
		Traffic:     []domain.HazardIncident{},
		Crime:       []domain.CrimeZone{},
	}

	var (
		wg       sync.WaitGroup
		traffic  []domain.HazardIncident
		reported []domain.HazardIncident
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		traffic, snapshot.TrafficAvailable = a.fetchTraffic(ctx, box, seq)
	}()
	go func() {
		defer wg.Done()
		reported, snapshot.ReportsAvailable = a.fetchReports(ctx, box)
	}()
	go func() {
		defer wg.Done()
		var zones []domain.CrimeZone
		zones, snapshot.CrimeAvailable = a.fetchCrimeZones(ctx, box)
		if zones != nil {
			snapshot.Crime = zones
		}
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot.Traffic = append(snapshot.Traffic, traffic...)
	snapshot.Traffic = append(snapshot.Traffic, reported...)

	a.logger.Debug("Hazards aggregated",
		zap.String("center", center.String()),
		zap.Float64("radius_km", radiusKm),
		zap.Int("traffic", len(traffic)),
		zap.Int("reports", len(reported)),
		zap.Int("crime_zones", len(snapshot.Crime)))

	return snapshot, nil
}

func (a *HazardAggregator) fetchTraffic(ctx context.Context, box domain.BoundingBox, seq uint64) ([]domain.HazardIncident, bool) {
	if a.traffic == nil {
		return nil, false
	}

	raw, err := a.traffic.IncidentsInBox(ctx, box)
	if err != nil {
		a.metrics.HazardSource("traffic", metrics.OutcomeError)
		a.logger.Warn("Traffic incidents unavailable", zap.Error(err))
		return nil, false
	}
	a.metrics.HazardSource("traffic", metrics.OutcomeOK)

	return NormalizeTrafficIncidents(raw, seq), true
}

// NormalizeTrafficIncidents drops incidents without a usable centre and
// assigns traffic-<seq>-<index> ids where the provider gave none.
func NormalizeTrafficIncidents(raw []repository.RawTrafficIncident, seq uint64) []domain.HazardIncident {
	out := make([]domain.HazardIncident, 0, len(raw))
	for i, r := range raw {
		if r.CenterLat == nil || r.CenterLon == nil {
			continue
		}
		loc := domain.Coordinate{Lat: *r.CenterLat, Lon: *r.CenterLon}
		if !loc.Valid() {
			continue
		}

		id := r.ID
		if id == "" {
			id = fmt.Sprintf("traffic-%d-%d", seq, i)
		}

		incident := domain.HazardIncident{
			ID:          id,
			Location:    loc,
			Latitude:    loc.Lat,
			Longitude:   loc.Lon,
			Category:    domain.HazardCategoryTraffic,
			Type:        r.Type,
			Severity:    r.Severity,
			Description: r.Description,
		}
		if r.StartTime != nil {
			if t, err := time.Parse(time.RFC3339, *r.StartTime); err == nil {
				incident.ObservedAt = &t
			}
		}
		out = append(out, incident)
	}
	return out
}

func (a *HazardAggregator) fetchReports(ctx context.Context, box domain.BoundingBox) ([]domain.HazardIncident, bool) {
	if a.reports == nil {
		return nil, false
	}

	reports, err := a.reports.QueryByRegion(ctx, box)
	if err != nil {
		a.metrics.HazardSource("reports", metrics.OutcomeError)
		a.logger.Warn("User reports unavailable", zap.Error(err))
		return nil, false
	}
	a.metrics.HazardSource("reports", metrics.OutcomeOK)

	out := make([]domain.HazardIncident, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.Incident())
	}
	return out, true
}

func (a *HazardAggregator) fetchCrimeZones(ctx context.Context, box domain.BoundingBox) ([]domain.CrimeZone, bool) {
	if a.zones == nil {
		return nil, false
	}

	var (
		zones []domain.CrimeZone
		err   error
	)
	if a.cfg.FilterCrimeByRegion {
		zones, err = a.zones.InRegion(ctx, box)
	} else {
		zones, err = a.zones.All(ctx)
	}
	if err != nil {
		a.metrics.HazardSource("crime_zones", metrics.OutcomeError)
		a.logger.Warn("Crime zones unavailable", zap.Error(err))
		return nil, false
	}
	a.metrics.HazardSource("crime_zones", metrics.OutcomeOK)
	return zones, true
}
