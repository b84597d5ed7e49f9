package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/metrics"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/validator"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase/dto"
)

const mapsSearchURL = "https://www.google.com/maps/search/"

// EmergencyUseCase - emergency sessions and contact acknowledgements
type EmergencyUseCase struct {
	repo            repository.EmergencyRepository
	trackingBaseURL string
	ttl             time.Duration
	now             func() time.Time
	logger          *zap.Logger
	metrics         *metrics.Collector
}

func NewEmergencyUseCase(
	repo repository.EmergencyRepository,
	trackingBaseURL string,
	ttl time.Duration,
	now func() time.Time,
	logger *zap.Logger,
	m *metrics.Collector,
) *EmergencyUseCase {
	if now == nil {
		now = time.Now
	}
	return &EmergencyUseCase{
		repo:            repo,
		trackingBaseURL: strings.TrimRight(trackingBaseURL, "/"),
		ttl:             ttl,
		now:             now,
		logger:          logger,
		metrics:         m,
	}
}

// Start - POST /emergency/start
func (uc *EmergencyUseCase) Start(ctx context.Context, req dto.EmergencyStartRequest) (*dto.EmergencyStartResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if !req.Origin.Valid() {
		return nil, errors.ErrInvalidCoordinates
	}

	contacts := req.Contacts
	if contacts == nil {
		contacts = []domain.EmergencyContact{}
	}

	session := domain.EmergencySession{
		ID:               uuid.New().String(),
		Origin:           *req.Origin,
		Contacts:         contacts,
		CreatedAt:        uc.now().UTC(),
		Acknowledgements: []domain.Acknowledgement{},
	}
	if err := uc.repo.Create(ctx, session); err != nil {
		uc.logger.Error("Failed to create emergency session", zap.Error(err))
		return nil, err
	}

	uc.metrics.EmergencyStarted()
	uc.logger.Warn("Emergency session started",
		zap.String("session_id", session.ID),
		zap.String("origin", session.Origin.String()),
		zap.Int("contacts", len(contacts)))

	shareURL := ShareLocationURL(session.Origin)
	return &dto.EmergencyStartResponse{
		SessionID:    session.ID,
		TrackingURL:  uc.trackingBaseURL + "/" + session.ID,
		ShareURL:     shareURL,
		ShareMessage: fmt.Sprintf("My live location: %.5f, %.5f - %s", session.Origin.Lat, session.Origin.Lon, shareURL),
	}, nil
}

// Acknowledge - POST /emergency/ack/:id
func (uc *EmergencyUseCase) Acknowledge(ctx context.Context, id, sourceAddress string) (*dto.AckResponse, error) {
	session, err := uc.repo.AppendAck(ctx, id, domain.Acknowledgement{
		At:            uc.now().UTC(),
		SourceAddress: sourceAddress,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Emergency acknowledged",
		zap.String("session_id", id),
		zap.Int("ack_count", len(session.Acknowledgements)))
	return &dto.AckResponse{OK: true}, nil
}

// Status - GET /emergency/status/:id
func (uc *EmergencyUseCase) Status(ctx context.Context, id string) (*dto.EmergencyStatusResponse, error) {
	session, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.EmergencyStatusResponse{
		SessionID:        session.ID,
		AckCount:         len(session.Acknowledgements),
		Acknowledged:     len(session.Acknowledgements) > 0,
		Acknowledgements: session.Acknowledgements,
		CreatedAt:        session.CreatedAt,
	}, nil
}

// EvictExpired drops sessions older than the configured TTL.
func (uc *EmergencyUseCase) EvictExpired(ctx context.Context) int {
	if uc.ttl <= 0 {
		return 0
	}
	removed := uc.repo.EvictExpired(ctx, uc.now().Add(-uc.ttl))
	if removed > 0 {
		uc.logger.Info("Expired emergency sessions evicted", zap.Int("count", removed))
	}
	return removed
}

// ShareLocationURL builds a maps link for the coordinate.
func ShareLocationURL(at domain.Coordinate) string {
	return fmt.Sprintf("%s?api=1&query=%s,%s", mapsSearchURL,
		strconv.FormatFloat(at.Lat, 'f', -1, 64),
		strconv.FormatFloat(at.Lon, 'f', -1, 64))
}
