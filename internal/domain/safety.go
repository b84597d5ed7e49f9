package domain

// SafetyScore - derived 0..100 score, higher is safer. Never cached.
type SafetyScore struct {
	Score               int                 `json:"score"`
	Warnings            []string            `json:"warnings"`
	ContributingFactors ContributingFactors `json:"contributingFactors"`
}

type ContributingFactors struct {
	IncidentCount  int         `json:"incidentCount"`
	CrimeZoneCount int         `json:"crimeZoneCount"`
	WeatherRisk    WeatherRisk `json:"weatherRisk"`
	LowLight       bool        `json:"lowLight"`
	Degraded       bool        `json:"degraded,omitempty"`
}

// SafetyLevel - coarse bucket of a score
type SafetyLevel string

const (
	SafetyLevelHigh   SafetyLevel = "high"
	SafetyLevelMedium SafetyLevel = "medium"
	SafetyLevelLow    SafetyLevel = "low"
)
