package domain

// RouteMode - named routing mode requested from the provider
type RouteMode string

const (
	// RouteModeFastest is time-optimized with live traffic weighting.
	RouteModeFastest RouteMode = "fastest"
	// RouteModeSafest is the conservative/shorter mode without live traffic.
	RouteModeSafest RouteMode = "safest"
)

// RouteGeometry - ordered points of a route, at least two.
type RouteGeometry []Coordinate

// ProviderRoute is the routing provider's answer for one mode, before any
// validation or unit conversion.
type ProviderRoute struct {
	Legs              []ProviderLeg
	TravelTimeSeconds float64
	LengthMeters      float64
	Instructions      []TurnInstruction
}

// ProviderLeg - raw leg point list; points may contain non-finite values.
type ProviderLeg struct {
	Points []Coordinate
}

// TurnInstruction - one guidance step
type TurnInstruction struct {
	Text              string   `json:"text"`
	DistanceMeters    *float64 `json:"distanceMeters,omitempty"`
	TravelTimeSeconds *float64 `json:"travelTimeSeconds,omitempty"`
}

// RouteSummary is a display-ready route. TravelTimeMinutes and DistanceKm are
// rounded to one decimal; the raw provider values stay available for scoring.
type RouteSummary struct {
	Geometry          RouteGeometry     `json:"geometry"`
	EncodedPolyline   string            `json:"encodedPolyline"`
	GeoJSON           GeoJSONFeature    `json:"geojson"`
	TravelTimeMinutes float64           `json:"travelTime"`
	DistanceKm        float64           `json:"distance"`
	TurnInstructions  []TurnInstruction `json:"turnInstructions"`
	Warnings          []string          `json:"warnings"`

	RawTravelTimeSeconds float64 `json:"-"`
	RawLengthMeters      float64 `json:"-"`
}

// SafeRouteSummary is the "safest" candidate with its safety score.
type SafeRouteSummary struct {
	RouteSummary
	Safety    SafetyScore `json:"safety"`
	SafeScore int         `json:"safeScore"`
}

// RouteComparison - result of evaluating both alternatives
type RouteComparison struct {
	Fastest RouteSummary     `json:"fastest"`
	Safest  SafeRouteSummary `json:"safest"`
}

// GeoJSONFeature is a minimal LineString feature for map display.
type GeoJSONFeature struct {
	Type     string          `json:"type"`
	Geometry GeoJSONGeometry `json:"geometry"`
}

type GeoJSONGeometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// LineStringFeature converts a geometry to GeoJSON ([lon, lat] order).
func LineStringFeature(g RouteGeometry) GeoJSONFeature {
	coords := make([][2]float64, len(g))
	for i, p := range g {
		coords[i] = [2]float64{p.Lon, p.Lat}
	}
	return GeoJSONFeature{
		Type: "Feature",
		Geometry: GeoJSONGeometry{
			Type:        "LineString",
			Coordinates: coords,
		},
	}
}
