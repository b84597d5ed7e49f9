package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/pkg/utils"
)

type GeocodeHandler struct {
	geocoder Geocoder
	logger   *zap.Logger
}

func NewGeocodeHandler(geocoder Geocoder, logger *zap.Logger) *GeocodeHandler {
	return &GeocodeHandler{
		geocoder: geocoder,
		logger:   logger,
	}
}

// Geocode godoc
// @Summary Geocode a place description
// @Tags Geocoding
// @Produce json
// @Param q query string true "Place or address"
// @Success 200 {object} domain.Coordinate
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /geocode [get]
func (h *GeocodeHandler) Geocode(c *fiber.Ctx) error {
	coord, err := h.geocoder.Geocode(c.Context(), c.Query("q"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, coord)
}
