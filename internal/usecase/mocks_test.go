package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase"
)

// MockRouteProvider is a mock of RouteProvider
type MockRouteProvider struct {
	mock.Mock
}

func (m *MockRouteProvider) CalculateRoute(ctx context.Context, origin, destination domain.Coordinate, mode domain.RouteMode) (*domain.ProviderRoute, error) {
	args := m.Called(ctx, origin, destination, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderRoute), args.Error(1)
}

// MockGeocoder is a mock of Geocoder
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, query string) (*domain.Coordinate, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coordinate), args.Error(1)
}

// MockTrafficProvider is a mock of TrafficProvider
type MockTrafficProvider struct {
	mock.Mock
}

func (m *MockTrafficProvider) IncidentsInBox(ctx context.Context, box domain.BoundingBox) ([]repository.RawTrafficIncident, error) {
	args := m.Called(ctx, box)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.RawTrafficIncident), args.Error(1)
}

// MockWeatherProvider is a mock of WeatherProvider
type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) CurrentWeather(ctx context.Context, at domain.Coordinate) (*domain.WeatherSnapshot, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeatherSnapshot), args.Error(1)
}

func (m *MockWeatherProvider) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockReportRepository is a mock of ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Append(ctx context.Context, report domain.UserReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) QueryByRegion(ctx context.Context, box domain.BoundingBox) ([]domain.UserReport, error) {
	args := m.Called(ctx, box)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserReport), args.Error(1)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id string) (*domain.UserReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserReport), args.Error(1)
}

// MockCrimeZoneRepository is a mock of CrimeZoneRepository
type MockCrimeZoneRepository struct {
	mock.Mock
}

func (m *MockCrimeZoneRepository) All(ctx context.Context) ([]domain.CrimeZone, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CrimeZone), args.Error(1)
}

func (m *MockCrimeZoneRepository) InRegion(ctx context.Context, box domain.BoundingBox) ([]domain.CrimeZone, error) {
	args := m.Called(ctx, box)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CrimeZone), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetGeocode(ctx context.Context, query string) (*domain.Coordinate, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coordinate), args.Error(1)
}

func (m *MockCacheRepository) SetGeocode(ctx context.Context, query string, coord domain.Coordinate, ttl time.Duration) error {
	args := m.Called(ctx, query, coord, ttl)
	return args.Error(0)
}

// MockEventPublisher is a mock of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishTripEvent(ctx context.Context, event domain.TripEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockHazardFetcher is a mock of HazardFetcher
type MockHazardFetcher struct {
	mock.Mock
}

func (m *MockHazardFetcher) Fetch(ctx context.Context, center domain.Coordinate, radiusKm float64) (*domain.HazardSnapshot, error) {
	args := m.Called(ctx, center, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HazardSnapshot), args.Error(1)
}

// MockPointAssessor is a mock of PointAssessor
type MockPointAssessor struct {
	mock.Mock
}

func (m *MockPointAssessor) Assess(ctx context.Context, at domain.Coordinate, radiusKm float64) (*usecase.PointAssessment, error) {
	args := m.Called(ctx, at, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PointAssessment), args.Error(1)
}

// MockRoutePlanner is a mock of RoutePlanner
type MockRoutePlanner struct {
	mock.Mock
}

func (m *MockRoutePlanner) Evaluate(ctx context.Context, origin, destination domain.Coordinate) (*domain.RouteComparison, error) {
	args := m.Called(ctx, origin, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RouteComparison), args.Error(1)
}

func ptrFloat64(v float64) *float64 {
	return &v
}

func ptrString(v string) *string {
	return &v
}

// fixedClock returns a clock pinned to the given hour (UTC).
func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 10, 18, hour, 0, 0, 0, time.UTC)
	}
}
