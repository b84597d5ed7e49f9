package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/utils"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase/dto"
)

// WeatherReader returns current conditions, failing when unconfigured.
type WeatherReader interface {
	Current(ctx context.Context, at domain.Coordinate) (*domain.WeatherSnapshot, error)
}

// SafetyScorer assesses a single point.
type SafetyScorer interface {
	SafetyScore(ctx context.Context, at domain.Coordinate) (*dto.SafetyScoreResponse, error)
}

// SafetyHandler - weather and point safety score
type SafetyHandler struct {
	weather WeatherReader
	safety  SafetyScorer
	logger  *zap.Logger
}

func NewSafetyHandler(weather WeatherReader, safety SafetyScorer, logger *zap.Logger) *SafetyHandler {
	return &SafetyHandler{
		weather: weather,
		safety:  safety,
		logger:  logger,
	}
}

// GetWeather godoc
// @Summary Current weather
// @Tags Safety
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Success 200 {object} domain.WeatherSnapshot
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /weather [get]
func (h *SafetyHandler) GetWeather(c *fiber.Ctx) error {
	at, err := parseCoordinateQuery(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	snapshot, err := h.weather.Current(c.Context(), at)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, snapshot)
}

// GetSafetyScore godoc
// @Summary Safety score at a point
// @Description Combines nearby incidents, crime zones, weather and time of day into a 0-100 score.
// @Tags Safety
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Success 200 {object} dto.SafetyScoreResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /safety-score [get]
func (h *SafetyHandler) GetSafetyScore(c *fiber.Ctx) error {
	at, err := parseCoordinateQuery(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.safety.SafetyScore(c.Context(), at)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result)
}
