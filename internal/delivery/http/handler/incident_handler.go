package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/utils"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase/dto"
)

// HazardFetcher aggregates hazards around a point.
type HazardFetcher interface {
	Fetch(ctx context.Context, center domain.Coordinate, radiusKm float64) (*domain.HazardSnapshot, error)
}

// ReportSubmitter accepts community reports.
type ReportSubmitter interface {
	Submit(ctx context.Context, req dto.ReportIncidentRequest) (*dto.ReportIncidentResponse, error)
}

// IncidentHandler - hazards and community reports
type IncidentHandler struct {
	hazards         HazardFetcher
	reports         ReportSubmitter
	defaultRadiusKm float64
	logger          *zap.Logger
}

func NewIncidentHandler(hazards HazardFetcher, reports ReportSubmitter, defaultRadiusKm float64, logger *zap.Logger) *IncidentHandler {
	return &IncidentHandler{
		hazards:         hazards,
		reports:         reports,
		defaultRadiusKm: defaultRadiusKm,
		logger:          logger,
	}
}

// GetIncidents godoc
// @Summary Hazards around a point
// @Description Traffic incidents, community reports and crime zones around the coordinate. radiusKm is clamped to the configured bounds.
// @Tags Incidents
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param radiusKm query number false "Search radius in km" default(33)
// @Success 200 {object} domain.HazardSnapshot
// @Failure 400 {object} utils.ErrorResponse
// @Router /incidents [get]
func (h *IncidentHandler) GetIncidents(c *fiber.Ctx) error {
	center, err := parseCoordinateQuery(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	radiusKm, ok, err := parseFloatQuery(c, "radiusKm")
	if err != nil {
		return utils.SendError(c, err)
	}
	if !ok {
		radiusKm = h.defaultRadiusKm
	}

	snapshot, err := h.hazards.Fetch(c.Context(), center, radiusKm)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, snapshot)
}

// ReportIncident godoc
// @Summary Report a hazard
// @Description Stores a community incident report; it shows up in hazard queries covering its location.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param request body dto.ReportIncidentRequest true "Report"
// @Success 200 {object} dto.ReportIncidentResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /incidents/report [post]
func (h *IncidentHandler) ReportIncident(c *fiber.Ctx) error {
	var req dto.ReportIncidentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, invalidBody(err))
	}

	result, err := h.reports.Submit(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result)
}
