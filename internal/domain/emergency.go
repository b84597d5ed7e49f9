package domain

import "time"

// EmergencyContact - person notified about an emergency session
type EmergencyContact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Acknowledgement - one contact confirming they saw the alert
type Acknowledgement struct {
	At            time.Time `json:"at"`
	SourceAddress string    `json:"sourceAddress"`
}

// EmergencySession is append-only: only Acknowledgements grow.
type EmergencySession struct {
	ID               string             `json:"id"`
	Origin           Coordinate         `json:"origin"`
	Contacts         []EmergencyContact `json:"contacts"`
	CreatedAt        time.Time          `json:"createdAt"`
	Acknowledgements []Acknowledgement  `json:"acknowledgements"`
}
