package domain

import (
	"encoding/json"
	"time"
)

// HazardCategory - source class of a hazard incident
type HazardCategory string

const (
	HazardCategoryTraffic    HazardCategory = "traffic"
	HazardCategoryCrime      HazardCategory = "crime"
	HazardCategoryWeather    HazardCategory = "weather"
	HazardCategoryUserReport HazardCategory = "user-report"
)

// HazardIncident - normalized incident, created per fetch
type HazardIncident struct {
	ID          string         `json:"id"`
	Location    Coordinate     `json:"location"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	Category    HazardCategory `json:"category"`
	Type        string         `json:"type"`
	Severity    *float64       `json:"severity"`
	Description string         `json:"description"`
	ObservedAt  *time.Time     `json:"observedAt"`
}

// CountsTowardScore reports whether the incident is a traffic or user-report
// hazard, the two kinds the incident deduction counts.
func (h HazardIncident) CountsTowardScore() bool {
	return h.Category == HazardCategoryTraffic || h.Category == HazardCategoryUserReport
}

// RiskLevel of a crime zone
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// CrimeZone - catalog zone with a closed polygon ring
type CrimeZone struct {
	ID        string       `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	RiskLevel RiskLevel    `json:"risk" db:"risk_level"`
	Polygon   []Coordinate `json:"polygon"`
}

// CloseRing returns the ring with first == last.
func CloseRing(ring []Coordinate) []Coordinate {
	if len(ring) == 0 {
		return ring
	}
	closed := make([]Coordinate, len(ring), len(ring)+1)
	copy(closed, ring)
	if ring[0] != ring[len(ring)-1] {
		closed = append(closed, ring[0])
	}
	return closed
}

// MarshalJSON adds a GeoJSON polygon next to the raw ring for map display.
func (z CrimeZone) MarshalJSON() ([]byte, error) {
	ring := make([][2]float64, len(z.Polygon))
	for i, p := range z.Polygon {
		ring[i] = [2]float64{p.Lon, p.Lat}
	}

	type zone CrimeZone
	return json.Marshal(struct {
		zone
		GeoJSON struct {
			Type        string         `json:"type"`
			Coordinates [][][2]float64 `json:"coordinates"`
		} `json:"geojson"`
	}{
		zone: zone(z),
		GeoJSON: struct {
			Type        string         `json:"type"`
			Coordinates [][][2]float64 `json:"coordinates"`
		}{Type: "Polygon", Coordinates: [][][2]float64{ring}},
	})
}

// Bounds returns the polygon's bounding box.
func (z CrimeZone) Bounds() (BoundingBox, bool) {
	return BoundsOf(z.Polygon)
}

// Contains tests point-in-polygon with ray casting.
func (z CrimeZone) Contains(p Coordinate) bool {
	ring := z.Polygon
	if len(ring) < 4 {
		return false
	}
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) &&
			p.Lon < (b.Lon-a.Lon)*(p.Lat-a.Lat)/(b.Lat-a.Lat)+a.Lon {
			inside = !inside
		}
	}
	return inside
}

// UserReport - community-submitted hazard, immutable after creation
type UserReport struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Location    Coordinate `json:"location"`
	Reporter    string     `json:"reporter,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Incident converts the report into a user-report hazard incident.
func (r UserReport) Incident() HazardIncident {
	created := r.CreatedAt
	return HazardIncident{
		ID:          r.ID,
		Location:    r.Location,
		Latitude:    r.Location.Lat,
		Longitude:   r.Location.Lon,
		Category:    HazardCategoryUserReport,
		Type:        r.Type,
		Description: r.Description,
		ObservedAt:  &created,
	}
}

// HazardSnapshot - aggregated hazards around a point for one fetch
type HazardSnapshot struct {
	Center           Coordinate       `json:"-"`
	RadiusKm         float64          `json:"-"`
	BoundingBox      BoundingBox      `json:"-"`
	Traffic          []HazardIncident `json:"traffic"`
	Crime            []CrimeZone      `json:"crime"`
	TrafficAvailable bool             `json:"-"`
	ReportsAvailable bool             `json:"-"`
	CrimeAvailable   bool             `json:"-"`
}

// Unavailable reports whether every hazard source failed for this fetch.
func (s *HazardSnapshot) Unavailable() bool {
	return !s.TrafficAvailable && !s.ReportsAvailable && !s.CrimeAvailable
}
