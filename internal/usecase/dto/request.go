package dto

import "github.com/Vishrutha-23/SafeWalk/internal/domain"

// RouteRequest asks for a fastest/safest comparison. A coordinate wins over
// its free-text query when both are present.
type RouteRequest struct {
	Origin           *domain.Coordinate `json:"origin" validate:"required_without=OriginQuery"`
	Destination      *domain.Coordinate `json:"destination" validate:"required_without=DestinationQuery"`
	OriginQuery      string             `json:"originQuery,omitempty" validate:"omitempty,min=2,max=256"`
	DestinationQuery string             `json:"destinationQuery,omitempty" validate:"omitempty,min=2,max=256"`
}

// ReportIncidentRequest - community hazard report
type ReportIncidentRequest struct {
	Category    string   `json:"category" validate:"required,max=64"`
	Description string   `json:"description" validate:"required,max=1000"`
	Latitude    *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Reporter    string   `json:"reporter,omitempty" validate:"omitempty,max=64"`
}

// EmergencyStartRequest - start of an emergency session
type EmergencyStartRequest struct {
	Origin   *domain.Coordinate        `json:"origin" validate:"required"`
	Contacts []domain.EmergencyContact `json:"contacts,omitempty" validate:"omitempty,max=20"`
}

// TripStartRequest - start of on-trip monitoring
type TripStartRequest struct {
	Origin      *domain.Coordinate `json:"origin" validate:"required"`
	Destination *domain.Coordinate `json:"destination" validate:"required"`
}
