package models

import "time"

// SessionState is the mutable progress record of one planning session.
// It has exactly one writer (the session's pipeline run) and any number
// of concurrent readers, which only ever see registry snapshots.
type SessionState struct {
	SessionID      string         `json:"session_id"`
	Trip           TripRequest    `json:"trip"`
	Enriched       *EnrichedTrip  `json:"enriched,omitempty"`
	CompletedSteps []string       `json:"completed_steps"`
	AvailableSlots []string       `json:"available_slots"`
	Flights        []FlightOption `json:"flights"`
	Hotels         []HotelOption  `json:"hotels"`
	DayPlans       []DayPlan      `json:"day_plans"`
	Itinerary      *TripItinerary `json:"itinerary,omitempty"`
	Error          string         `json:"error,omitempty"`
	Complete       bool           `json:"complete"`
	CreatedAt      time.Time      `json:"created_at"`
}

// SessionStatus is the client-facing status snapshot of a session.
type SessionStatus struct {
	SessionID      string         `json:"session_id"`
	CompletedSteps []string       `json:"completed_steps"`
	Complete       bool           `json:"complete"`
	Itinerary      *TripItinerary `json:"itinerary"`
	Error          *string        `json:"error"`
}

// Status converts the session state into its client-facing snapshot.
func (s *SessionState) Status() SessionStatus {
	status := SessionStatus{
		SessionID:      s.SessionID,
		CompletedSteps: s.CompletedSteps,
		Complete:       s.Complete,
		Itinerary:      s.Itinerary,
	}
	if s.Error != "" {
		errMsg := s.Error
		status.Error = &errMsg
	}
	return status
}
