package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/utils"
)

// parseFloatQuery reads a finite float query parameter. ok is false when the
// parameter is absent.
func parseFloatQuery(c *fiber.Ctx, name string) (value float64, ok bool, err error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !utils.IsFinite(v) {
		return 0, true, errors.ErrInvalidInput.WithMessage(notFiniteMessage(name))
	}
	return v, true, nil
}

// parseCoordinateQuery reads lat and lon (or lng) from the query string.
func parseCoordinateQuery(c *fiber.Ctx) (domain.Coordinate, error) {
	lat, hasLat, err := parseFloatQuery(c, "lat")
	if err != nil {
		return domain.Coordinate{}, errors.ErrInvalidCoordinates.WithMessage(notFiniteMessage("lat"))
	}

	lonName := "lon"
	if c.Query("lon") == "" {
		lonName = "lng"
	}
	lon, hasLon, err := parseFloatQuery(c, lonName)
	if err != nil {
		return domain.Coordinate{}, errors.ErrInvalidCoordinates.WithMessage(notFiniteMessage(lonName))
	}

	if !hasLat || !hasLon {
		return domain.Coordinate{}, errors.ErrInvalidCoordinates.WithMessage("Query parameters 'lat' and 'lon' are required")
	}

	coord := domain.Coordinate{Lat: lat, Lon: lon}
	if !coord.Valid() {
		return domain.Coordinate{}, errors.ErrInvalidCoordinates
	}
	return coord, nil
}

func invalidBody(err error) error {
	return errors.ErrInvalidRequest.WithMessage("Invalid request body").WithDetails(map[string]interface{}{
		"reason": err.Error(),
	})
}

func notFiniteMessage(name string) string {
	return "Parameter '" + name + "' must be a finite number"
}
