package domain

import "time"

// TripState - on-trip monitor state
type TripState string

const (
	TripStateIdle             TripState = "idle"
	TripStateTracking         TripState = "tracking"
	TripStateRerouteSuggested TripState = "reroute_suggested"
	TripStateStopped          TripState = "stopped"
)

// DiscoveredIncident - hazard first seen within the proximity radius
type DiscoveredIncident struct {
	HazardIncident
	DistanceMeters float64   `json:"distanceMeters"`
	DiscoveredAt   time.Time `json:"discoveredAt"`
}

// TripSession is the monitored state of one journey. It is owned by the
// trip's monitor goroutine; callers only ever see copies.
type TripSession struct {
	ID              string               `json:"id"`
	Origin          Coordinate           `json:"origin"`
	Destination     Coordinate           `json:"destination"`
	CurrentPosition Coordinate           `json:"currentPosition"`
	SeenIncidentIDs map[string]struct{}  `json:"-"`
	LastScore       *SafetyScore         `json:"lastScore"`
	State           TripState            `json:"state"`
	ActiveRoute     RouteGeometry        `json:"activeRoute,omitempty"`
	NewIncidents    []DiscoveredIncident `json:"newIncidents"`
	LowLight        bool                 `json:"lowLight"`
	StartedAt       time.Time            `json:"startedAt"`
	LastTickAt      *time.Time           `json:"lastTickAt,omitempty"`
	StoppedAt       *time.Time           `json:"stoppedAt,omitempty"`
}

// RerouteSuggested is the boolean view of the state.
func (s *TripSession) RerouteSuggested() bool {
	return s.State == TripStateRerouteSuggested
}

// Snapshot returns a deep copy safe to hand out of the owning goroutine.
func (s *TripSession) Snapshot() TripSession {
	cp := *s
	cp.SeenIncidentIDs = make(map[string]struct{}, len(s.SeenIncidentIDs))
	for id := range s.SeenIncidentIDs {
		cp.SeenIncidentIDs[id] = struct{}{}
	}
	if s.LastScore != nil {
		score := *s.LastScore
		score.Warnings = append([]string(nil), s.LastScore.Warnings...)
		cp.LastScore = &score
	}
	cp.ActiveRoute = append(RouteGeometry(nil), s.ActiveRoute...)
	cp.NewIncidents = append([]DiscoveredIncident(nil), s.NewIncidents...)
	return cp
}
