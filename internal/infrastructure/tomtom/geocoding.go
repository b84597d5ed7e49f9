package tomtom

import (
	"context"
	"net/url"
	"strings"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
)

type geocodeResponse struct {
	Results []struct {
		Position struct {
			Lat *float64 `json:"lat"`
			Lon *float64 `json:"lon"`
		} `json:"position"`
	} `json:"results"`
}

// Geocode resolves free text to the best matching coordinate.
func (c *Client) Geocode(ctx context.Context, query string) (*domain.Coordinate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.ErrInvalidInput.WithMessage("Geocoding query is empty")
	}

	path := "/search/2/geocode/" + url.PathEscape(query) + ".json"
	params := url.Values{}
	params.Set("limit", "1")

	var resp geocodeResponse
	if _, err := c.getJSON(ctx, "geocode", path, params, &resp); err != nil {
		return nil, err
	}

	for _, r := range resp.Results {
		if r.Position.Lat == nil || r.Position.Lon == nil {
			continue
		}
		coord := domain.Coordinate{Lat: *r.Position.Lat, Lon: *r.Position.Lon}
		if !coord.Valid() {
			continue
		}
		return &coord, nil
	}

	return nil, errors.ErrLocationNotFound.WithDetails(map[string]interface{}{
		"query": query,
	})
}
