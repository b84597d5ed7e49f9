package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/metrics"
	apperrors "github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/Vishrutha-23/SafeWalk/internal/repository/memory"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase/dto"
)

func TestReportUseCase_Submit(t *testing.T) {
	repo := memory.NewReportRepository(100, time.Hour, fixedClock(12))
	uc := usecase.NewReportUseCase(repo, fixedClock(12), zap.NewNop(), metrics.NewCollector())
	ctx := context.Background()

	resp, err := uc.Submit(ctx, dto.ReportIncidentRequest{
		Category:    "  poor lighting ",
		Description: "Street lights out along the underpass",
		Latitude:    ptrFloat64(12.9716),
		Longitude:   ptrFloat64(77.5946),
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.NotEmpty(t, resp.ID)

	stored, err := repo.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "poor lighting", stored.Type)
	assert.Equal(t, 12.9716, stored.Location.Lat)

	found, err := repo.QueryByRegion(ctx, domain.BoundingBoxAround(bengaluruCenter, 1))
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestReportUseCase_SubmitValidation(t *testing.T) {
	uc := usecase.NewReportUseCase(&MockReportRepository{}, fixedClock(12), zap.NewNop(), nil)

	tests := []struct {
		name string
		req  dto.ReportIncidentRequest
	}{
		{name: "missing category", req: dto.ReportIncidentRequest{Description: "d", Latitude: ptrFloat64(1), Longitude: ptrFloat64(1)}},
		{name: "blank description", req: dto.ReportIncidentRequest{Category: "c", Description: "   ", Latitude: ptrFloat64(1), Longitude: ptrFloat64(1)}},
		{name: "missing latitude", req: dto.ReportIncidentRequest{Category: "c", Description: "d", Longitude: ptrFloat64(1)}},
		{name: "latitude out of range", req: dto.ReportIncidentRequest{Category: "c", Description: "d", Latitude: ptrFloat64(100), Longitude: ptrFloat64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Submit(context.Background(), tt.req)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestReportUseCase_Ingest(t *testing.T) {
	repo := &MockReportRepository{}
	uc := usecase.NewReportUseCase(repo, fixedClock(12), zap.NewNop(), nil)

	repo.On("Append", mock.Anything, mock.MatchedBy(func(r domain.UserReport) bool {
		return r.ID == "evt-1" && r.Type == "harassment" && r.Reporter == "kiosk-7"
	})).Return(nil).Once()

	report, err := uc.Ingest(context.Background(), domain.IncidentReportEvent{
		ID:          "evt-1",
		Category:    "harassment",
		Description: "reported at bus stop",
		Latitude:    ptrFloat64(12.97),
		Longitude:   ptrFloat64(77.59),
		Reporter:    "kiosk-7",
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", report.ID)
	repo.AssertExpectations(t)

	t.Run("store failure", func(t *testing.T) {
		repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()
		_, err := uc.Ingest(context.Background(), domain.IncidentReportEvent{
			Category:    "theft",
			Description: "phone snatching",
			Latitude:    ptrFloat64(12.97),
			Longitude:   ptrFloat64(77.59),
		})
		assert.Error(t, err)
	})
}

func TestReportUseCase_IngestRedeliveredEvent(t *testing.T) {
	repo := memory.NewReportRepository(100, time.Hour, fixedClock(12))
	uc := usecase.NewReportUseCase(repo, fixedClock(12), zap.NewNop(), nil)
	ctx := context.Background()

	event := domain.IncidentReportEvent{
		ID:          "evt-1",
		Category:    "harassment",
		Description: "reported at bus stop",
		Latitude:    ptrFloat64(12.97),
		Longitude:   ptrFloat64(77.59),
	}
	for i := 0; i < 2; i++ {
		_, err := uc.Ingest(ctx, event)
		require.NoError(t, err)
	}

	reports, err := repo.QueryByRegion(ctx, domain.BoundingBoxAround(domain.Coordinate{Lat: 12.97, Lon: 77.59}, 1))
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "evt-1", reports[0].ID)
}

func TestEmergencyUseCase_Lifecycle(t *testing.T) {
	repo := memory.NewEmergencyRepository()
	uc := usecase.NewEmergencyUseCase(repo, "https://safewalk.example/emergency/status/", 24*time.Hour, fixedClock(21), zap.NewNop(), nil)
	ctx := context.Background()

	origin := domain.Coordinate{Lat: 12.9716, Lon: 77.5946}
	started, err := uc.Start(ctx, dto.EmergencyStartRequest{
		Origin:   &origin,
		Contacts: []domain.EmergencyContact{{Name: "Asha", Phone: "+91-9000000000"}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, started.SessionID)
	assert.Equal(t, "https://safewalk.example/emergency/status/"+started.SessionID, started.TrackingURL)
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=12.9716,77.5946", started.ShareURL)
	assert.Equal(t, "My live location: 12.97160, 77.59460 - "+started.ShareURL, started.ShareMessage)

	status, err := uc.Status(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, status.AckCount)
	assert.False(t, status.Acknowledged)

	ack, err := uc.Acknowledge(ctx, started.SessionID, "10.0.0.7")
	require.NoError(t, err)
	assert.True(t, ack.OK)
	_, err = uc.Acknowledge(ctx, started.SessionID, "10.0.0.8")
	require.NoError(t, err)

	status, err = uc.Status(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, status.AckCount)
	assert.True(t, status.Acknowledged)
	assert.Equal(t, "10.0.0.7", status.Acknowledgements[0].SourceAddress)

	_, err = uc.Status(ctx, "unknown")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	_, err = uc.Acknowledge(ctx, "unknown", "10.0.0.9")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestEmergencyUseCase_StartValidation(t *testing.T) {
	uc := usecase.NewEmergencyUseCase(memory.NewEmergencyRepository(), "http://localhost:8080/emergency/status", time.Hour, fixedClock(12), zap.NewNop(), nil)

	_, err := uc.Start(context.Background(), dto.EmergencyStartRequest{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	bad := domain.Coordinate{Lat: 0, Lon: 500}
	_, err = uc.Start(context.Background(), dto.EmergencyStartRequest{Origin: &bad})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinates)
}

func TestEmergencyUseCase_EvictExpired(t *testing.T) {
	repo := memory.NewEmergencyRepository()
	clock := fixedClock(12)
	origin := bengaluruCenter

	creator := usecase.NewEmergencyUseCase(repo, "http://x", time.Hour, func() time.Time { return clock().Add(-2 * time.Hour) }, zap.NewNop(), nil)
	_, err := creator.Start(context.Background(), dto.EmergencyStartRequest{Origin: &origin})
	require.NoError(t, err)

	sweeper := usecase.NewEmergencyUseCase(repo, "http://x", time.Hour, clock, zap.NewNop(), nil)
	assert.Equal(t, 1, sweeper.EvictExpired(context.Background()))
	assert.Equal(t, 0, sweeper.EvictExpired(context.Background()))
}

func TestGeocodeUseCase_Geocode(t *testing.T) {
	ctx := context.Background()
	coord := &domain.Coordinate{Lat: 12.9716, Lon: 77.5946}

	t.Run("cache miss stores result", func(t *testing.T) {
		geocoder := &MockGeocoder{}
		cache := &MockCacheRepository{}
		cache.On("GetGeocode", ctx, "MG Road").Return(nil, nil)
		geocoder.On("Geocode", ctx, "MG Road").Return(coord, nil)
		cache.On("SetGeocode", ctx, "MG Road", *coord, time.Hour).Return(nil)

		got, err := usecase.NewGeocodeUseCase(geocoder, cache, time.Hour, zap.NewNop()).Geocode(ctx, " MG Road ")
		require.NoError(t, err)
		assert.Equal(t, coord, got)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips provider", func(t *testing.T) {
		geocoder := &MockGeocoder{}
		cache := &MockCacheRepository{}
		cache.On("GetGeocode", ctx, "MG Road").Return(coord, nil)

		got, err := usecase.NewGeocodeUseCase(geocoder, cache, time.Hour, zap.NewNop()).Geocode(ctx, "MG Road")
		require.NoError(t, err)
		assert.Equal(t, coord, got)
		geocoder.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})

	t.Run("no cache and not found", func(t *testing.T) {
		geocoder := &MockGeocoder{}
		geocoder.On("Geocode", ctx, "nowhere").Return(nil, apperrors.ErrLocationNotFound)

		_, err := usecase.NewGeocodeUseCase(geocoder, nil, time.Hour, zap.NewNop()).Geocode(ctx, "nowhere")
		assert.ErrorIs(t, err, apperrors.ErrLocationNotFound)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := usecase.NewGeocodeUseCase(&MockGeocoder{}, nil, time.Hour, zap.NewNop()).Geocode(ctx, "  ")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
