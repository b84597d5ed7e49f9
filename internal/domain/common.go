package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// Coordinate - WGS84 point in degrees
type Coordinate struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// Valid checks ranges and rejects NaN/Inf.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// UnmarshalJSON accepts both {lat, lon} and {lat, lng}.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var raw struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
		Lng *float64 `json:"lng"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Lat == nil {
		return fmt.Errorf("coordinate: missing lat")
	}
	lon := raw.Lon
	if lon == nil {
		lon = raw.Lng
	}
	if lon == nil {
		return fmt.Errorf("coordinate: missing lon")
	}
	c.Lat = *raw.Lat
	c.Lon = *lon
	return nil
}

const (
	kmPerDegreeLat = 111.0
	minCosLat      = 1e-6
)

type BoundingBox struct {
	MinLat float64 `json:"min_lat" db:"min_lat"`
	MinLon float64 `json:"min_lon" db:"min_lon"`
	MaxLat float64 `json:"max_lat" db:"max_lat"`
	MaxLon float64 `json:"max_lon" db:"max_lon"`
}

// BoundingBoxAround builds the query box for a radius around center.
// Longitude span is widened by 1/cos(lat) to correct for meridian convergence.
func BoundingBoxAround(center Coordinate, radiusKm float64) BoundingBox {
	deltaLat := radiusKm / kmPerDegreeLat
	cosLat := math.Cos(center.Lat * math.Pi / 180)
	deltaLon := deltaLat / math.Max(math.Abs(cosLat), minCosLat)

	return BoundingBox{
		MinLat: center.Lat - deltaLat,
		MinLon: center.Lon - deltaLon,
		MaxLat: center.Lat + deltaLat,
		MaxLon: center.Lon + deltaLon,
	}
}

// BoundsOf returns the tightest box around points. ok is false for an empty slice.
func BoundsOf(points []Coordinate) (box BoundingBox, ok bool) {
	if len(points) == 0 {
		return BoundingBox{}, false
	}
	box = BoundingBox{MinLat: points[0].Lat, MaxLat: points[0].Lat, MinLon: points[0].Lon, MaxLon: points[0].Lon}
	for _, p := range points[1:] {
		box.MinLat = math.Min(box.MinLat, p.Lat)
		box.MaxLat = math.Max(box.MaxLat, p.Lat)
		box.MinLon = math.Min(box.MinLon, p.Lon)
		box.MaxLon = math.Max(box.MaxLon, p.Lon)
	}
	return box, true
}

func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

func (b BoundingBox) Intersects(o BoundingBox) bool {
	return b.MinLat <= o.MaxLat && o.MinLat <= b.MaxLat && b.MinLon <= o.MaxLon && o.MinLon <= b.MaxLon
}

func (b BoundingBox) Center() Coordinate {
	return Coordinate{Lat: (b.MinLat + b.MaxLat) / 2, Lon: (b.MinLon + b.MaxLon) / 2}
}
