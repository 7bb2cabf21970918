// Package domain contains the core data types for the FlyRide photo journal.
// This package has zero external dependencies and is imported by every other
// internal package (kv, repo, service, handler).
package domain

import "time"

// TripType distinguishes flight trips from bus trips.
type TripType string

const (
	TripTypeFlight TripType = "flight"
	TripTypeBus    TripType = "bus"
)

// Trip represents one flight or bus journey.
// Photos reference trips by ID but the journal never owns them.
type Trip struct {
	ID            string     `json:"id"`
	Type          TripType   `json:"type"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	Airline       string     `json:"airline,omitempty"`      // flights only
	FlightNumber  string     `json:"flightNumber,omitempty"` // flights only
	BusCompany    string     `json:"busCompany,omitempty"`   // buses only
	BusNumber     string     `json:"busNumber,omitempty"`    // buses only
	DepartureDate time.Time  `json:"departureDate"`
	ReturnDate    *time.Time `json:"returnDate,omitempty"` // nil for one-way trips
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// DisplayName is the label copied onto photos when they are assigned to the
// trip, e.g. "JFK → LAX".
func (t Trip) DisplayName() string {
	return t.Origin + " → " + t.Destination
}
