package dto

import (
	"time"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
)

// ReportIncidentResponse - accepted report
type ReportIncidentResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// SafetyScoreResponse - point safety assessment
type SafetyScoreResponse struct {
	Score           int                     `json:"score"`
	NearbyIncidents int                     `json:"nearbyIncidents"`
	CrimeZones      int                     `json:"crimeZones"`
	WeatherRisk     domain.WeatherRisk      `json:"weatherRisk"`
	Weather         *domain.WeatherSnapshot `json:"weather"`
	Warnings        []string                `json:"warnings"`
	Level           domain.SafetyLevel      `json:"level"`
	Recommendation  string                  `json:"recommendation"`
	LowLight        bool                    `json:"lowLight"`
	Degraded        bool                    `json:"degraded,omitempty"`
}

// EmergencyStartResponse - new emergency session
type EmergencyStartResponse struct {
	SessionID    string `json:"sessionId"`
	TrackingURL  string `json:"trackingUrl"`
	ShareURL     string `json:"shareUrl"`
	ShareMessage string `json:"shareMessage"`
}

// AckResponse - acknowledgement accepted
type AckResponse struct {
	OK bool `json:"ok"`
}

// EmergencyStatusResponse - acknowledgement state of a session
type EmergencyStatusResponse struct {
	SessionID        string                   `json:"sessionId"`
	AckCount         int                      `json:"ackCount"`
	Acknowledged     bool                     `json:"acknowledged"`
	Acknowledgements []domain.Acknowledgement `json:"acknowledgements"`
	CreatedAt        time.Time                `json:"createdAt"`
}

// TripResponse - read view of a monitored trip
type TripResponse struct {
	domain.TripSession
	RerouteSuggested bool `json:"rerouteSuggested"`
}

// NewTripResponse builds the view from a session copy.
func NewTripResponse(session domain.TripSession) TripResponse {
	return TripResponse{
		TripSession:      session,
		RerouteSuggested: session.RerouteSuggested(),
	}
}

// RerouteResponse - trip after accepting a reroute with the new active route
type RerouteResponse struct {
	Trip  TripResponse            `json:"trip"`
	Route domain.SafeRouteSummary `json:"route"`
}

// HealthResponse - liveness and dependency status
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}
