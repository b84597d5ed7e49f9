package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase/dto"
)

// PointAssessor scores the surroundings of a single position.
type PointAssessor interface {
	Assess(ctx context.Context, at domain.Coordinate, radiusKm float64) (*PointAssessment, error)
}

// PointAssessment - hazards, weather and score around one position
type PointAssessment struct {
	Snapshot  *domain.HazardSnapshot
	Incidents []domain.HazardIncident
	Zones     []domain.CrimeZone
	Weather   *domain.WeatherSnapshot
	Score     domain.SafetyScore
	Hour      int
}

// SafetyUseCase composes the hazard aggregator, weather and scorer for a point.
type SafetyUseCase struct {
	hazards  HazardFetcher
	weather  repository.WeatherProvider
	radiusKm float64
	now      func() time.Time
	logger   *zap.Logger
}

func NewSafetyUseCase(
	hazards HazardFetcher,
	weather repository.WeatherProvider,
	radiusKm float64,
	now func() time.Time,
	logger *zap.Logger,
) *SafetyUseCase {
	if now == nil {
		now = time.Now
	}
	return &SafetyUseCase{
		hazards:  hazards,
		weather:  weather,
		radiusKm: radiusKm,
		now:      now,
		logger:   logger,
	}
}

// Assess fetches hazards and weather around at and scores them. Incidents
// inside the query box count; zones count when their bounds overlap it.
func (uc *SafetyUseCase) Assess(ctx context.Context, at domain.Coordinate, radiusKm float64) (*PointAssessment, error) {
	if !at.Valid() {
		return nil, errors.ErrInvalidCoordinates
	}

	snapshot, err := uc.hazards.Fetch(ctx, at, radiusKm)
	if err != nil {
		return nil, err
	}
	weather := weatherForScoring(ctx, uc.weather, at, uc.logger)
	hour := uc.now().Hour()

	incidents := make([]domain.HazardIncident, 0, len(snapshot.Traffic))
	for _, in := range snapshot.Traffic {
		if snapshot.BoundingBox.Contains(in.Location) {
			incidents = append(incidents, in)
		}
	}
	zones := ZonesInBox(snapshot.Crime, snapshot.BoundingBox)

	assessment := &PointAssessment{
		Snapshot:  snapshot,
		Incidents: incidents,
		Zones:     zones,
		Weather:   weather,
		Hour:      hour,
	}
	if snapshot.Unavailable() && weather == nil {
		assessment.Score = UnavailableSafetyScore(hour)
	} else {
		assessment.Score = ScoreSafety(incidents, zones, weather, hour)
	}
	return assessment, nil
}

// SafetyScore - GET /safety-score
func (uc *SafetyUseCase) SafetyScore(ctx context.Context, at domain.Coordinate) (*dto.SafetyScoreResponse, error) {
	assessment, err := uc.Assess(ctx, at, uc.radiusKm)
	if err != nil {
		return nil, err
	}

	score := assessment.Score
	warnings := score.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return &dto.SafetyScoreResponse{
		Score:           score.Score,
		NearbyIncidents: score.ContributingFactors.IncidentCount,
		CrimeZones:      score.ContributingFactors.CrimeZoneCount,
		WeatherRisk:     score.ContributingFactors.WeatherRisk,
		Weather:         assessment.Weather,
		Warnings:        warnings,
		Level:           SafetyLevelOf(score.Score),
		Recommendation:  SafetyRecommendation(score.Score),
		LowLight:        score.ContributingFactors.LowLight,
		Degraded:        score.ContributingFactors.Degraded,
	}, nil
}

// ZonesInBox keeps zones whose polygon bounds intersect box.
func ZonesInBox(zones []domain.CrimeZone, box domain.BoundingBox) []domain.CrimeZone {
	out := make([]domain.CrimeZone, 0, len(zones))
	for _, z := range zones {
		if bounds, ok := z.Bounds(); ok && bounds.Intersects(box) {
			out = append(out, z)
		}
	}
	return out
}
