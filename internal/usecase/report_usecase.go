package usecase

import (
	"context"
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

// Report sources for metrics
const (
	ReportSourceHTTP   = "http"
	ReportSourceStream = "stream"
)

// ReportUseCase accepts community hazard reports from HTTP and the ingest stream.
type ReportUseCase struct {
	repo    repository.ReportRepository
	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewReportUseCase(repo repository.ReportRepository, now func() time.Time, logger *zap.Logger, m *metrics.Collector) *ReportUseCase {
	if now == nil {
		now = time.Now
	}
	return &ReportUseCase{
		repo:    repo,
		now:     now,
		logger:  logger,
		metrics: m,
	}
}

// Submit - POST /incidents/report
func (uc *ReportUseCase) Submit(ctx context.Context, req dto.ReportIncidentRequest) (*dto.ReportIncidentResponse, error) {
	report, err := uc.accept(ctx, "", req, ReportSourceHTTP)
	if err != nil {
		return nil, err
	}
	return &dto.ReportIncidentResponse{OK: true, ID: report.ID}, nil
}

// Ingest stores a report read from the ingest stream, keeping its id if it
// carries one.
func (uc *ReportUseCase) Ingest(ctx context.Context, event domain.IncidentReportEvent) (*domain.UserReport, error) {
	return uc.accept(ctx, event.ID, dto.ReportIncidentRequest{
		Category:    event.Category,
		Description: event.Description,
		Latitude:    event.Latitude,
		Longitude:   event.Longitude,
		Reporter:    event.Reporter,
	}, ReportSourceStream)
}

func (uc *ReportUseCase) accept(ctx context.Context, id string, req dto.ReportIncidentRequest, source string) (*domain.UserReport, error) {
	req.Category = strings.TrimSpace(req.Category)
	req.Description = strings.TrimSpace(req.Description)

	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	location := domain.Coordinate{Lat: *req.Latitude, Lon: *req.Longitude}
	if !location.Valid() {
		return nil, errors.ErrInvalidCoordinates
	}

	if id == "" {
		id = uuid.New().String()
	}
	report := domain.UserReport{
		ID:          id,
		Type:        req.Category,
		Description: req.Description,
		Location:    location,
		Reporter:    req.Reporter,
		CreatedAt:   uc.now().UTC(),
	}

	if err := uc.repo.Append(ctx, report); err != nil {
		uc.logger.Error("Failed to store incident report",
			zap.String("id", report.ID),
			zap.String("source", source),
			zap.Error(err))
		return nil, err
	}

	uc.metrics.ReportAccepted(source)
	uc.logger.Info("Incident report accepted",
		zap.String("id", report.ID),
		zap.String("category", report.Type),
		zap.String("location", location.String()),
		zap.String("source", source))

	return &report, nil
}
