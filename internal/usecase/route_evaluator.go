package usecase

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/metrics"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/utils"
)

// RouteEvaluator requests the fastest and safest alternatives for a pair of
// coordinates and scores the safest one.
type RouteEvaluator struct {
	routes         repository.RouteProvider
	hazards        HazardFetcher
	weather        repository.WeatherProvider
	corridorMeters float64
	now            func() time.Time
	logger         *zap.Logger
	metrics        *metrics.Collector
}

func NewRouteEvaluator(
	routes repository.RouteProvider,
	hazards HazardFetcher,
	weather repository.WeatherProvider,
	corridorMeters float64,
	now func() time.Time,
	logger *zap.Logger,
	m *metrics.Collector,
) *RouteEvaluator {
	if now == nil {
		now = time.Now
	}
	if corridorMeters <= 0 {
		corridorMeters = 200
	}
	return &RouteEvaluator{
		routes:         routes,
		hazards:        hazards,
		weather:        weather,
		corridorMeters: corridorMeters,
		now:            now,
		logger:         logger,
		metrics:        m,
	}
}

// Evaluate returns both alternatives or an error; nothing partial.
func (e *RouteEvaluator) Evaluate(ctx context.Context, origin, destination domain.Coordinate) (*domain.RouteComparison, error) {
	if !origin.Valid() || !destination.Valid() {
		return nil, errors.ErrInvalidCoordinates
	}

	var (
		wg                  sync.WaitGroup
		fastest, safest     *domain.ProviderRoute
		fastestErr, safeErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		fastest, fastestErr = e.routes.CalculateRoute(ctx, origin, destination, domain.RouteModeFastest)
	}()
	go func() {
		defer wg.Done()
		safest, safeErr = e.routes.CalculateRoute(ctx, origin, destination, domain.RouteModeSafest)
	}()
	wg.Wait()

	if fastestErr != nil {
		return nil, e.fail("fastest", fastestErr)
	}
	if safeErr != nil {
		return nil, e.fail("safest", safeErr)
	}

	fastSummary, err := BuildRouteSummary(fastest)
	if err != nil {
		return nil, e.fail("fastest", err)
	}
	safeSummary, err := BuildRouteSummary(safest)
	if err != nil {
		return nil, e.fail("safest", err)
	}

	score, err := e.scoreRoute(ctx, origin, safeSummary.Geometry)
	if err != nil {
		return nil, e.fail("safest", err)
	}

	e.metrics.RouteEvaluated(metrics.OutcomeOK)
	e.logger.Info("Routes evaluated",
		zap.String("origin", origin.String()),
		zap.String("destination", destination.String()),
		zap.Float64("fastest_min", fastSummary.TravelTimeMinutes),
		zap.Float64("safest_min", safeSummary.TravelTimeMinutes),
		zap.Int("safe_score", score.Score))

	return &domain.RouteComparison{
		Fastest: *fastSummary,
		Safest: domain.SafeRouteSummary{
			RouteSummary: *safeSummary,
			Safety:       score,
			SafeScore:    score.Score,
		},
	}, nil
}

func (e *RouteEvaluator) fail(mode string, err error) error {
	e.metrics.RouteEvaluated(metrics.OutcomeError)
	e.logger.Error("Route evaluation failed", zap.String("mode", mode), zap.Error(err))
	return err
}

// BuildRouteSummary validates a provider route and converts it for display.
// Points with non-finite or out-of-range coordinates are dropped; fewer than
// two remaining points is ErrRouteNotFound.
func BuildRouteSummary(route *domain.ProviderRoute) (*domain.RouteSummary, error) {
	if route == nil || len(route.Legs) == 0 {
		return nil, errors.ErrRouteNotFound.WithMessage("Routing provider returned no route legs")
	}

	geometry := make(domain.RouteGeometry, 0)
	for _, leg := range route.Legs {
		for _, p := range leg.Points {
			if p.Valid() {
				geometry = append(geometry, p)
			}
		}
	}
	if len(geometry) < 2 {
		return nil, errors.ErrRouteNotFound.WithMessage("Route geometry has fewer than two valid points")
	}

	coords := make([][]float64, len(geometry))
	for i, p := range geometry {
		coords[i] = []float64{p.Lat, p.Lon}
	}

	instructions := route.Instructions
	if instructions == nil {
		instructions = []domain.TurnInstruction{}
	}

	return &domain.RouteSummary{
		Geometry:             geometry,
		EncodedPolyline:      string(polyline.EncodeCoords(coords)),
		GeoJSON:              domain.LineStringFeature(geometry),
		TravelTimeMinutes:    utils.Round1(route.TravelTimeSeconds / 60),
		DistanceKm:           utils.Round1(route.LengthMeters / 1000),
		TurnInstructions:     instructions,
		Warnings:             []string{},
		RawTravelTimeSeconds: route.TravelTimeSeconds,
		RawLengthMeters:      route.LengthMeters,
	}, nil
}

func (e *RouteEvaluator) scoreRoute(ctx context.Context, origin domain.Coordinate, geometry domain.RouteGeometry) (domain.SafetyScore, error) {
	hour := e.now().Hour()

	box, _ := domain.BoundsOf(geometry)
	center := box.Center()
	radiusKm := e.corridorMeters / 1000
	for _, p := range geometry {
		if d := utils.HaversineDistance(center.Lat, center.Lon, p.Lat, p.Lon) + e.corridorMeters/1000; d > radiusKm {
			radiusKm = d
		}
	}

	snapshot, err := e.hazards.Fetch(ctx, center, math.Ceil(radiusKm))
	if err != nil {
		return domain.SafetyScore{}, err
	}
	weather := weatherForScoring(ctx, e.weather, origin, e.logger)

	if snapshot.Unavailable() && weather == nil {
		return UnavailableSafetyScore(hour), nil
	}

	incidents := IncidentsNearRoute(snapshot.Traffic, geometry, e.corridorMeters)
	zones := ZonesOnRoute(snapshot.Crime, geometry)

	return ScoreSafety(incidents, zones, weather, hour), nil
}

// IncidentsNearRoute keeps incidents within corridorMeters of any route point.
func IncidentsNearRoute(incidents []domain.HazardIncident, geometry domain.RouteGeometry, corridorMeters float64) []domain.HazardIncident {
	out := make([]domain.HazardIncident, 0, len(incidents))
	for _, in := range incidents {
		for _, p := range geometry {
			if utils.HaversineMeters(in.Latitude, in.Longitude, p.Lat, p.Lon) <= corridorMeters {
				out = append(out, in)
				break
			}
		}
	}
	return out
}

// ZonesOnRoute keeps zones containing at least one route point.
func ZonesOnRoute(zones []domain.CrimeZone, geometry domain.RouteGeometry) []domain.CrimeZone {
	out := make([]domain.CrimeZone, 0, len(zones))
	for _, z := range zones {
		bounds, ok := z.Bounds()
		if !ok {
			continue
		}
		for _, p := range geometry {
			if bounds.Contains(p) && z.Contains(p) {
				out = append(out, z)
				break
			}
		}
	}
	return out
}
