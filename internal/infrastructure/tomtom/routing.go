package tomtom

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
)

type routeResponse struct {
	Routes []struct {
		Summary struct {
			LengthInMeters      float64 `json:"lengthInMeters"`
			TravelTimeInSeconds float64 `json:"travelTimeInSeconds"`
		} `json:"summary"`
		Legs []struct {
			Points []struct {
				Latitude  *float64 `json:"latitude"`
				Longitude *float64 `json:"longitude"`
			} `json:"points"`
		} `json:"legs"`
		Guidance *struct {
			Instructions []guidanceInstruction `json:"instructions"`
		} `json:"guidance"`
	} `json:"routes"`
}

type guidanceInstruction struct {
	Message             string   `json:"message"`
	RouteOffsetInMeters *float64 `json:"routeOffsetInMeters"`
	TravelTimeInSeconds *float64 `json:"travelTimeInSeconds"`
}

// routeParams maps a route mode onto TomTom query parameters.
func routeParams(mode domain.RouteMode) (routeType string, traffic bool) {
	if mode == domain.RouteModeSafest {
		return "shortest", false
	}
	return "fastest", true
}

// CalculateRoute requests one route. A provider "no route" answer yields a
// ProviderRoute without legs; deciding what that means is left to the caller.
func (c *Client) CalculateRoute(ctx context.Context, origin, destination domain.Coordinate, mode domain.RouteMode) (*domain.ProviderRoute, error) {
	routeType, traffic := routeParams(mode)

	path := fmt.Sprintf("/routing/1/calculateRoute/%f,%f:%f,%f/json",
		origin.Lat, origin.Lon, destination.Lat, destination.Lon)

	query := url.Values{}
	query.Set("routeType", routeType)
	query.Set("traffic", fmt.Sprintf("%t", traffic))
	query.Set("travelMode", c.travelMode)
	query.Set("instructionsType", "text")

	var resp routeResponse
	status, err := c.getJSON(ctx, "route_"+string(mode), path, query, &resp)
	if err != nil {
		// TomTom answers 400 for unroutable pairs
		var appErr *errors.AppError
		if status == http.StatusBadRequest && stderrors.As(err, &appErr) && appErr.Code == errors.CodeProviderUnavailable {
			c.logger.Info("TomTom found no route",
				zap.String("mode", string(mode)),
				zap.String("origin", origin.String()),
				zap.String("destination", destination.String()))
			return &domain.ProviderRoute{}, nil
		}
		return nil, err
	}

	if len(resp.Routes) == 0 {
		return &domain.ProviderRoute{}, nil
	}

	r := resp.Routes[0]
	route := &domain.ProviderRoute{
		TravelTimeSeconds: r.Summary.TravelTimeInSeconds,
		LengthMeters:      r.Summary.LengthInMeters,
		Legs:              make([]domain.ProviderLeg, 0, len(r.Legs)),
	}

	for _, leg := range r.Legs {
		points := make([]domain.Coordinate, 0, len(leg.Points))
		for _, p := range leg.Points {
			// missing values are kept as NaN so validation drops them downstream
			lat, lon := math.NaN(), math.NaN()
			if p.Latitude != nil {
				lat = *p.Latitude
			}
			if p.Longitude != nil {
				lon = *p.Longitude
			}
			points = append(points, domain.Coordinate{Lat: lat, Lon: lon})
		}
		route.Legs = append(route.Legs, domain.ProviderLeg{Points: points})
	}

	if r.Guidance != nil {
		route.Instructions = buildInstructions(r.Guidance.Instructions, r.Summary.LengthInMeters, r.Summary.TravelTimeInSeconds)
	}

	return route, nil
}

// buildInstructions converts cumulative offsets into per-step distance/time.
func buildInstructions(raw []guidanceInstruction, totalMeters, totalSeconds float64) []domain.TurnInstruction {
	out := make([]domain.TurnInstruction, 0, len(raw))
	for i, in := range raw {
		if in.Message == "" {
			continue
		}
		step := domain.TurnInstruction{Text: in.Message}

		if in.RouteOffsetInMeters != nil {
			next := totalMeters
			if i+1 < len(raw) && raw[i+1].RouteOffsetInMeters != nil {
				next = *raw[i+1].RouteOffsetInMeters
			}
			d := math.Max(next-*in.RouteOffsetInMeters, 0)
			step.DistanceMeters = &d
		}
		if in.TravelTimeInSeconds != nil {
			next := totalSeconds
			if i+1 < len(raw) && raw[i+1].TravelTimeInSeconds != nil {
				next = *raw[i+1].TravelTimeInSeconds
			}
			s := math.Max(next-*in.TravelTimeInSeconds, 0)
			step.TravelTimeSeconds = &s
		}
		out = append(out, step)
	}
	return out
}
