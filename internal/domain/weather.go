package domain

import "time"

// WeatherSnapshot - current conditions at a coordinate
type WeatherSnapshot struct {
	Location         Coordinate `json:"location"`
	LocationName     string     `json:"locationName,omitempty"`
	Main             string     `json:"main"`
	Description      string     `json:"description"`
	Icon             string     `json:"icon,omitempty"`
	TemperatureC     float64    `json:"temp"`
	FeelsLikeC       float64    `json:"feelsLike"`
	Humidity         int        `json:"humidity"`
	VisibilityMeters int        `json:"visibility"`
	WindSpeedMs      float64    `json:"windSpeed"`
	ObservedAt       time.Time  `json:"observedAt"`
}

// WeatherRisk classifies the weather deduction.
type WeatherRisk string

const (
	WeatherRiskNormal        WeatherRisk = "normal"
	WeatherRiskRainStorm     WeatherRisk = "rain-storm"
	WeatherRiskLowVisibility WeatherRisk = "low-visibility"
)
