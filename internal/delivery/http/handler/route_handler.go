package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/utils"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/validator"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase/dto"
)

// RouteEvaluator compares the fastest and safest alternatives.
type RouteEvaluator interface {
	Evaluate(ctx context.Context, origin, destination domain.Coordinate) (*domain.RouteComparison, error)
}

// Geocoder resolves free-text places.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*domain.Coordinate, error)
}

// RouteHandler - обработчик сравнения маршрутов
type RouteHandler struct {
	evaluator RouteEvaluator
	geocoder  Geocoder
	logger    *zap.Logger
}

func NewRouteHandler(evaluator RouteEvaluator, geocoder Geocoder, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{
		evaluator: evaluator,
		geocoder:  geocoder,
		logger:    logger,
	}
}

// CompareRoutes godoc
// @Summary Compare fastest and safest routes
// @Description Requests both alternatives from the routing provider concurrently and attaches a safety score to the safest one. Text queries are geocoded when a coordinate is absent.
// @Tags Routes
// @Accept json
// @Produce json
// @Param request body dto.RouteRequest true "Origin and destination"
// @Success 200 {object} domain.RouteComparison
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /route [post]
func (h *RouteHandler) CompareRoutes(c *fiber.Ctx) error {
	var req dto.RouteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, invalidBody(err))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	origin, err := h.resolve(c.Context(), req.Origin, req.OriginQuery)
	if err != nil {
		return utils.SendError(c, err)
	}
	destination, err := h.resolve(c.Context(), req.Destination, req.DestinationQuery)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.evaluator.Evaluate(c.Context(), origin, destination)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result)
}

func (h *RouteHandler) resolve(ctx context.Context, coord *domain.Coordinate, query string) (domain.Coordinate, error) {
	if coord != nil {
		return *coord, nil
	}
	resolved, err := h.geocoder.Geocode(ctx, query)
	if err != nil {
		h.logger.Warn("Failed to geocode route endpoint", zap.String("query", query), zap.Error(err))
		return domain.Coordinate{}, err
	}
	return *resolved, nil
}
