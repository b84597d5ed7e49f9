package usecase

import (
	"fmt"
	"strings"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/utils"
)

// Scoring constants
const (
	safetyBaseline = 100

	incidentPenalty     = 2
	maxIncidentPenalty  = 30
	crimeZonePenalty    = 10
	maxCrimeZonePenalty = 30

	rainStormPenalty     = 15
	lowVisibilityPenalty = 10

	// UnavailableScore is reported when no hazard source could be read.
	UnavailableScore = 50

	// Low light is before 06:00 or from 18:00.
	lowLightEndHour   = 6
	lowLightStartHour = 18
)

const (
	WarningUnavailable = "Safety data unavailable; showing a conservative estimate"
	warningLowLight    = "Low-light hours with incidents nearby"
	warningRainStorm   = "Rain or storm conditions reduce safety"
	warningVisibility  = "Low visibility (fog or mist)"
)

// ScoreSafety computes the 0..100 safety score. Only traffic and user-report
// incidents count toward the incident deduction; every zone passed in counts
// toward the crime deduction. Low light never changes the number.
func ScoreSafety(incidents []domain.HazardIncident, zones []domain.CrimeZone, weather *domain.WeatherSnapshot, hour int) domain.SafetyScore {
	incidentCount := 0
	for _, in := range incidents {
		if in.CountsTowardScore() {
			incidentCount++
		}
	}
	zoneCount := len(zones)
	risk := ClassifyWeather(weather)
	lowLight := IsLowLight(hour)

	score := safetyBaseline
	score -= min(incidentPenalty*incidentCount, maxIncidentPenalty)
	score -= min(crimeZonePenalty*zoneCount, maxCrimeZonePenalty)
	switch risk {
	case domain.WeatherRiskRainStorm:
		score -= rainStormPenalty
	case domain.WeatherRiskLowVisibility:
		score -= lowVisibilityPenalty
	}

	warnings := make([]string, 0, 4)
	if incidentCount > 0 {
		warnings = append(warnings, fmt.Sprintf("%d %s reported nearby", incidentCount, plural(incidentCount, "incident", "incidents")))
	}
	if zoneCount > 0 {
		warnings = append(warnings, fmt.Sprintf("Passes through %d crime %s", zoneCount, plural(zoneCount, "zone", "zones")))
	}
	switch risk {
	case domain.WeatherRiskRainStorm:
		warnings = append(warnings, warningRainStorm)
	case domain.WeatherRiskLowVisibility:
		warnings = append(warnings, warningVisibility)
	}
	if lowLight && incidentCount > 0 {
		warnings = append(warnings, warningLowLight)
	}

	return domain.SafetyScore{
		Score:    utils.ClampInt(score, 0, 100),
		Warnings: warnings,
		ContributingFactors: domain.ContributingFactors{
			IncidentCount:  incidentCount,
			CrimeZoneCount: zoneCount,
			WeatherRisk:    risk,
			LowLight:       lowLight,
		},
	}
}

// UnavailableSafetyScore is the conservative default used when every input
// source failed.
func UnavailableSafetyScore(hour int) domain.SafetyScore {
	return domain.SafetyScore{
		Score:    UnavailableScore,
		Warnings: []string{WarningUnavailable},
		ContributingFactors: domain.ContributingFactors{
			WeatherRisk: domain.WeatherRiskNormal,
			LowLight:    IsLowLight(hour),
			Degraded:    true,
		},
	}
}

// ClassifyWeather maps a weather description onto a risk class. Rain and
// storms take precedence over fog.
func ClassifyWeather(weather *domain.WeatherSnapshot) domain.WeatherRisk {
	if weather == nil {
		return domain.WeatherRiskNormal
	}
	desc := strings.ToLower(weather.Description)
	switch {
	case strings.Contains(desc, "rain"), strings.Contains(desc, "storm"), strings.Contains(desc, "thunder"):
		return domain.WeatherRiskRainStorm
	case strings.Contains(desc, "fog"), strings.Contains(desc, "mist"):
		return domain.WeatherRiskLowVisibility
	}
	return domain.WeatherRiskNormal
}

func IsLowLight(hour int) bool {
	return hour < lowLightEndHour || hour >= lowLightStartHour
}

func SafetyLevelOf(score int) domain.SafetyLevel {
	switch {
	case score >= 85:
		return domain.SafetyLevelHigh
	case score >= 70:
		return domain.SafetyLevelMedium
	}
	return domain.SafetyLevelLow
}

func SafetyRecommendation(score int) string {
	switch SafetyLevelOf(score) {
	case domain.SafetyLevelHigh:
		return "This route is considered safe"
	case domain.SafetyLevelMedium:
		return "Exercise normal caution on this route"
	}
	return "Consider an alternative route or travel with others"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
