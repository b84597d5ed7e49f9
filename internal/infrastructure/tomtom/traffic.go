package tomtom

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
)

const incidentFields = "{incidents{type,geometry{type,coordinates},properties{id,iconCategory,magnitudeOfDelay,probabilityOfOccurrence,events{description},startTime}}}"

// iconCategories - TomTom incident icon categories
var iconCategories = map[int]string{
	0:  "unknown",
	1:  "accident",
	2:  "fog",
	3:  "dangerous-conditions",
	4:  "rain",
	5:  "ice",
	6:  "jam",
	7:  "lane-closed",
	8:  "road-closed",
	9:  "road-works",
	10: "wind",
	11: "flooding",
	14: "broken-down-vehicle",
}

type incidentResponse struct {
	Incidents []rawIncident `json:"incidents"`
}

type rawIncident struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Geometry struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		ID               string          `json:"id"`
		IconCategory     json.RawMessage `json:"iconCategory"`
		MagnitudeOfDelay *float64        `json:"magnitudeOfDelay"`
		Probability      json.RawMessage `json:"probability"`
		Description      string          `json:"description"`
		Events           []struct {
			Description string `json:"description"`
		} `json:"events"`
		StartTime *string `json:"startTime"`
	} `json:"properties"`
}

// IncidentsInBox lists incidents inside box. Entries are returned as-is;
// missing centres are left nil for the aggregator to drop.
func (c *Client) IncidentsInBox(ctx context.Context, box domain.BoundingBox) ([]repository.RawTrafficIncident, error) {
	params := url.Values{}
	params.Set("bbox", fmt.Sprintf("%f,%f,%f,%f", box.MinLon, box.MinLat, box.MaxLon, box.MaxLat))
	params.Set("fields", incidentFields)
	params.Set("language", "en-GB")

	var resp incidentResponse
	if _, err := c.getJSON(ctx, "traffic_incidents", "/traffic/services/5/incidentDetails", params, &resp); err != nil {
		return nil, err
	}

	out := make([]repository.RawTrafficIncident, 0, len(resp.Incidents))
	for _, in := range resp.Incidents {
		lat, lon := incidentCenter(in.Geometry.Type, in.Geometry.Coordinates)

		id := in.ID
		if id == "" {
			id = in.Properties.ID
		}

		out = append(out, repository.RawTrafficIncident{
			ID:          id,
			CenterLat:   lat,
			CenterLon:   lon,
			Severity:    incidentSeverity(in),
			Type:        incidentType(in),
			Description: incidentDescription(in),
			StartTime:   in.Properties.StartTime,
		})
	}

	return out, nil
}

// incidentCenter picks a representative point: the point itself, or the
// middle vertex of a line. Coordinates are [lon, lat].
func incidentCenter(geomType string, raw json.RawMessage) (lat, lon *float64) {
	if len(raw) == 0 {
		return nil, nil
	}

	var point []*float64
	if err := json.Unmarshal(raw, &point); err == nil {
		return lonLat(point)
	}

	var line [][]*float64
	if err := json.Unmarshal(raw, &line); err == nil && len(line) > 0 {
		return lonLat(line[len(line)/2])
	}

	return nil, nil
}

// lonLat returns nil unless both components are present and finite.
func lonLat(pair []*float64) (lat, lon *float64) {
	if len(pair) < 2 || pair[0] == nil || pair[1] == nil {
		return nil, nil
	}
	if math.IsNaN(*pair[0]) || math.IsInf(*pair[0], 0) || math.IsNaN(*pair[1]) || math.IsInf(*pair[1], 0) {
		return nil, nil
	}
	return pair[1], pair[0]
}

func incidentSeverity(in rawIncident) *float64 {
	if in.Properties.MagnitudeOfDelay != nil {
		v := *in.Properties.MagnitudeOfDelay
		return &v
	}
	if len(in.Properties.Probability) > 0 {
		var v float64
		if err := json.Unmarshal(in.Properties.Probability, &v); err == nil {
			return &v
		}
	}
	return nil
}

func incidentType(in rawIncident) string {
	if len(in.Properties.IconCategory) > 0 {
		var n int
		if err := json.Unmarshal(in.Properties.IconCategory, &n); err == nil {
			if name, ok := iconCategories[n]; ok {
				return name
			}
			return "icon-" + strconv.Itoa(n)
		}
		var s string
		if err := json.Unmarshal(in.Properties.IconCategory, &s); err == nil && s != "" {
			return s
		}
	}
	if in.Type != "" && in.Type != "Feature" {
		return in.Type
	}
	return "traffic"
}

func incidentDescription(in rawIncident) string {
	if in.Properties.Description != "" {
		return in.Properties.Description
	}
	for _, e := range in.Properties.Events {
		if e.Description != "" {
			return e.Description
		}
	}
	return "No description"
}
