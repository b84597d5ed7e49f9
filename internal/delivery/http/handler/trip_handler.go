package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/utils"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase/dto"
)

// TripService - on-trip monitor operations
type TripService interface {
	Start(ctx context.Context, req dto.TripStartRequest) (*domain.TripSession, error)
	Get(ctx context.Context, id string) (*domain.TripSession, error)
	UpdatePosition(ctx context.Context, id string, position domain.Coordinate) (*domain.TripSession, error)
	Dismiss(ctx context.Context, id string) (*domain.TripSession, error)
	Reroute(ctx context.Context, id string) (*domain.TripSession, *domain.SafeRouteSummary, error)
	Stop(ctx context.Context, id string) (*domain.TripSession, error)
}

// TripHandler - on-trip monitoring surface
type TripHandler struct {
	trips  TripService
	logger *zap.Logger
}

func NewTripHandler(trips TripService, logger *zap.Logger) *TripHandler {
	return &TripHandler{
		trips:  trips,
		logger: logger,
	}
}

// StartTrip godoc
// @Summary Start on-trip monitoring
// @Description Polls hazards around the traveller and suggests a reroute when the safety score drops.
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body dto.TripStartRequest true "Origin and destination"
// @Success 201 {object} dto.TripResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /trips [post]
func (h *TripHandler) StartTrip(c *fiber.Ctx) error {
	var req dto.TripStartRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, invalidBody(err))
	}

	session, err := h.trips.Start(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, dto.NewTripResponse(*session))
}

// GetTrip godoc
// @Summary Trip state
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} dto.TripResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /trips/{id} [get]
func (h *TripHandler) GetTrip(c *fiber.Ctx) error {
	session, err := h.trips.Get(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.NewTripResponse(*session))
}

// UpdatePosition godoc
// @Summary Report the current position
// @Description Records a position sample and evaluates hazards around it immediately.
// @Tags Trips
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body domain.Coordinate true "Current position"
// @Success 200 {object} dto.TripResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /trips/{id}/position [post]
func (h *TripHandler) UpdatePosition(c *fiber.Ctx) error {
	var position domain.Coordinate
	if err := c.BodyParser(&position); err != nil {
		return utils.SendError(c, errors.ErrInvalidCoordinates.WithMessage("Body must contain numeric 'lat' and 'lon'"))
	}

	session, err := h.trips.UpdatePosition(c.Context(), c.Params("id"), position)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.NewTripResponse(*session))
}

// Dismiss godoc
// @Summary Dismiss a reroute suggestion
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} dto.TripResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /trips/{id}/dismiss [post]
func (h *TripHandler) Dismiss(c *fiber.Ctx) error {
	session, err := h.trips.Dismiss(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.NewTripResponse(*session))
}

// Reroute godoc
// @Summary Accept a reroute
// @Description Evaluates routes from the current position; the safest becomes the active route.
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} dto.RerouteResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /trips/{id}/reroute [post]
func (h *TripHandler) Reroute(c *fiber.Ctx) error {
	session, route, err := h.trips.Reroute(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.RerouteResponse{
		Trip:  dto.NewTripResponse(*session),
		Route: *route,
	})
}

// StopTrip godoc
// @Summary Stop monitoring
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} dto.TripResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /trips/{id} [delete]
func (h *TripHandler) StopTrip(c *fiber.Ctx) error {
	session, err := h.trips.Stop(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.NewTripResponse(*session))
}
