package domain

import "time"

// Stream names / NATS subjects
const (
	StreamIncidentReport = "stream:incident:report"
	StreamTripEvents     = "stream:trip:events"
)

// TripEventType - kind of trip lifecycle event
type TripEventType string

const (
	TripEventStarted          TripEventType = "trip_started"
	TripEventHazardDiscovered TripEventType = "hazard_discovered"
	TripEventRerouteSuggested TripEventType = "reroute_suggested"
	TripEventRerouted         TripEventType = "rerouted"
	TripEventStopped          TripEventType = "trip_stopped"
)

// TripEvent - published on monitor transitions
type TripEvent struct {
	TripID     string               `json:"trip_id"`
	Type       TripEventType        `json:"type"`
	State      TripState            `json:"state"`
	Position   Coordinate           `json:"position"`
	Score      *int                 `json:"score,omitempty"`
	Incidents  []DiscoveredIncident `json:"incidents,omitempty"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// IncidentReportEvent - incoming report on the ingest stream
type IncidentReportEvent struct {
	ID          string   `json:"id,omitempty"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Reporter    string   `json:"reporter,omitempty"`
}

// StreamMessage - raw message read from a Redis stream
type StreamMessage struct {
	ID   string
	Data string
}
